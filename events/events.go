package events

import (
	"context"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/pkg/errors"

	"reddit/logger"
	"reddit/models"
)

type Type string

const (
	PostCreated  Type = "post_created"
	PostDeleted  Type = "post_deleted"
	VoteChanged  Type = "vote_changed"
	CommentAdded Type = "comment_added"
)

type Event struct {
	Type    Type `json:"type"`
	Payload any  `json:"payload"`
}

type PostCreatedPayload struct {
	PostID      string    `json:"postId"`
	CommunityID string    `json:"communityId"`
	AuthorID    string    `json:"authorId"`
	Title       string    `json:"title"`
	ImageURL    string    `json:"imageUrl"`
	CreatedAt   time.Time `json:"createdAt"`
}

type PostDeletedPayload struct {
	PostID      string `json:"postId"`
	CommunityID string `json:"communityId"`
}

// VoteChangedPayload has a nil Type when the vote was removed.
type VoteChangedPayload struct {
	PostID string           `json:"postId"`
	UserID string           `json:"userId"`
	Type   *models.VoteType `json:"type"`
	Score  int64            `json:"score"`
}

type CommentAddedPayload struct {
	CommentID string `json:"commentId"`
	PostID    string `json:"postId"`
	AuthorID  string `json:"authorId"`
	Content   string `json:"content"`
}

// Publisher is what the services emit through. Publish must not block.
type Publisher interface {
	Publish(e Event)
}

// Sink delivers events to one destination.
type Sink interface {
	Name() string
	Send(ctx context.Context, e Event) error
}

const sendTimeout = 5 * time.Second

// Dispatcher fans each event out to its sinks on an ants worker pool.
type Dispatcher struct {
	pool  *ants.Pool
	sinks []Sink
}

func NewDispatcher(workers int, sinks ...Sink) (*Dispatcher, error) {
	if workers <= 0 {
		workers = 1
	}
	pool, err := ants.NewPool(workers, ants.WithNonblocking(true))
	if err != nil {
		return nil, errors.Wrap(err, "events: create pool")
	}
	return &Dispatcher{pool: pool, sinks: sinks}, nil
}

// Publish drops the event, with a warning, when every worker is busy.
func (d *Dispatcher) Publish(e Event) {
	if len(d.sinks) == 0 {
		return
	}
	err := d.pool.Submit(func() {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()
		for _, s := range d.sinks {
			if err := s.Send(ctx, e); err != nil {
				logger.Errorf("events: %s sink failed for %s: %v", s.Name(), e.Type, err)
			}
		}
	})
	if err != nil {
		logger.Warnf("events: dropped %s: %v", e.Type, err)
	}
}

// Close waits briefly for in-flight deliveries and stops the pool.
func (d *Dispatcher) Close() {
	if err := d.pool.ReleaseTimeout(sendTimeout); err != nil {
		logger.Warnf("events: release pool: %v", err)
	}
}

// Discard drops every event.
type Discard struct{}

func (Discard) Publish(Event) {}
