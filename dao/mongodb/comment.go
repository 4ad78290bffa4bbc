package mongodb

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"reddit/database"
	"reddit/models"
)

type CommentDAO struct {
	coll *mongo.Collection
}

func NewCommentDAO(db *database.DB) *CommentDAO {
	return &CommentDAO{coll: db.Comments}
}

func (d *CommentDAO) Create(ctx context.Context, c *models.Comment) error {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	_, err := d.coll.InsertOne(ctx, c)
	return errors.Wrap(err, "mongodb: insert comment")
}

func (d *CommentDAO) ListByPost(ctx context.Context, postID primitive.ObjectID, skip, limit int64) ([]*models.CommentView, error) {
	pipeline := mongo.Pipeline{{{Key: "$match", Value: bson.M{"postId": postID}}}}
	pipeline = append(pipeline, pageStages(skip, limit)...)
	pipeline = append(pipeline, authorStages()...)

	cursor, err := d.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, errors.Wrap(err, "mongodb: aggregate comments")
	}
	defer cursor.Close(ctx)

	views := make([]*models.CommentView, 0)
	if err := cursor.All(ctx, &views); err != nil {
		return nil, errors.Wrap(err, "mongodb: decode comments")
	}
	return views, nil
}

func (d *CommentDAO) CountByPost(ctx context.Context, postID primitive.ObjectID) (int64, error) {
	n, err := d.coll.CountDocuments(ctx, bson.M{"postId": postID})
	if err != nil {
		return 0, errors.Wrap(err, "mongodb: count comments")
	}
	return n, nil
}
