package events

import (
	"context"
	"encoding/json"

	"github.com/nats-io/nats.go"
	"github.com/pkg/errors"

	"reddit/logger"
)

const subjectPrefix = "reddit."

// NATSSink publishes each event as JSON on reddit.<type>.
type NATSSink struct {
	nc *nats.Conn
}

func ConnectNATS(url string) (*NATSSink, error) {
	nc, err := nats.Connect(url, nats.Name("reddit"))
	if err != nil {
		return nil, errors.Wrapf(err, "events: connect nats %s", url)
	}
	logger.Infof("NATS connected successfully")
	return &NATSSink{nc: nc}, nil
}

func NewNATSSink(nc *nats.Conn) *NATSSink {
	return &NATSSink{nc: nc}
}

func (s *NATSSink) Name() string { return "nats" }

func (s *NATSSink) Send(_ context.Context, e Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return errors.Wrap(err, "events: encode")
	}
	return s.nc.Publish(Subject(e.Type), data)
}

// Subject is the NATS subject an event type is published on.
func Subject(t Type) string {
	return subjectPrefix + string(t)
}

// Close flushes pending messages and closes the connection.
func (s *NATSSink) Close() {
	if err := s.nc.Drain(); err != nil {
		logger.Warnf("events: drain nats: %v", err)
	}
}
