package mongodb

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"reddit/database"
	"reddit/models"
)

// RefDAO maintains the back-reference id lists on parent documents.
type RefDAO struct {
	db *database.DB
}

func NewRefDAO(db *database.DB) *RefDAO {
	return &RefDAO{db: db}
}

// Link is safe to retry: $addToSet never stores an id twice.
func (d *RefDAO) Link(ctx context.Context, parent models.Ref, childID primitive.ObjectID) error {
	_, err := d.db.Collection(parent.Collection).UpdateOne(ctx,
		bson.M{"_id": parent.ID},
		bson.M{"$addToSet": bson.M{parent.Field: childID}},
	)
	return errors.Wrapf(err, "mongodb: link %s into %s.%s", childID.Hex(), parent.Collection, parent.Field)
}

func (d *RefDAO) Unlink(ctx context.Context, parent models.Ref, childID primitive.ObjectID) error {
	_, err := d.db.Collection(parent.Collection).UpdateOne(ctx,
		bson.M{"_id": parent.ID},
		bson.M{"$pull": bson.M{parent.Field: childID}},
	)
	return errors.Wrapf(err, "mongodb: unlink %s from %s.%s", childID.Hex(), parent.Collection, parent.Field)
}
