package database

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"

	"reddit/apperr"
	"reddit/logger"
)

// TxRunner groups a child write with its back-reference updates. With
// transactions enabled the group commits or aborts as a unit; otherwise the
// steps run in order and a failure part way is logged for reconciliation.
type TxRunner struct {
	client  *mongo.Client
	enabled bool
}

// NewTxRunner returns a runner. A nil client always runs without a transaction.
func NewTxRunner(client *mongo.Client, enabled bool) *TxRunner {
	return &TxRunner{client: client, enabled: enabled && client != nil}
}

func (r *TxRunner) RunInTx(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	if !r.enabled {
		if err := fn(ctx); err != nil {
			// classified errors come from checks made before anything is written
			if apperr.KindOf(err) == apperr.Internal {
				logger.Errorf("%s failed without a transaction, back-references may be inconsistent: %v", name, err)
			}
			return err
		}
		return nil
	}

	sess, err := r.client.StartSession()
	if err != nil {
		return errors.Wrap(err, "database: start session")
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}
