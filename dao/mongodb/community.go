package mongodb

import (
	"context"
	"regexp"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"reddit/apperr"
	"reddit/database"
	"reddit/models"
)

type CommunityDAO struct {
	coll *mongo.Collection
}

func NewCommunityDAO(db *database.DB) *CommunityDAO {
	return &CommunityDAO{coll: db.Communities}
}

func (d *CommunityDAO) Create(ctx context.Context, c *models.Community) error {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	c.Posts = nonNil(c.Posts)
	if _, err := d.coll.InsertOne(ctx, c); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errors.WithStack(apperr.ErrCommunityExists)
		}
		return errors.Wrap(err, "mongodb: insert community")
	}
	return nil
}

func (d *CommunityDAO) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Community, error) {
	var c models.Community
	err := d.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if err == mongo.ErrNoDocuments {
		return nil, errors.WithStack(apperr.ErrCommunityNotFound)
	}
	if err != nil {
		return nil, errors.Wrap(err, "mongodb: find community")
	}
	return &c, nil
}

func (d *CommunityDAO) ExistsByName(ctx context.Context, name string) (bool, error) {
	n, err := d.coll.CountDocuments(ctx, bson.M{"name": name}, options.Count().SetLimit(1))
	if err != nil {
		return false, errors.Wrap(err, "mongodb: count communities")
	}
	return n > 0, nil
}

func (d *CommunityDAO) ListByAuthor(ctx context.Context, authorID primitive.ObjectID) ([]*models.Community, error) {
	cursor, err := d.coll.Find(ctx, bson.M{"authorId": authorID}, options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, errors.Wrap(err, "mongodb: list communities")
	}
	defer cursor.Close(ctx)

	communities := make([]*models.Community, 0)
	if err := cursor.All(ctx, &communities); err != nil {
		return nil, errors.Wrap(err, "mongodb: decode communities")
	}
	return communities, nil
}

// Search matches query as a literal, case-insensitive substring of the name.
func (d *CommunityDAO) Search(ctx context.Context, query string, limit int64) ([]*models.CommunitySummary, error) {
	filter := bson.M{"name": primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}}
	opts := options.Find().
		SetProjection(bson.M{"_id": 1, "name": 1}).
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetLimit(limit)

	cursor, err := d.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, errors.Wrap(err, "mongodb: search communities")
	}
	defer cursor.Close(ctx)

	result := make([]*models.CommunitySummary, 0)
	if err := cursor.All(ctx, &result); err != nil {
		return nil, errors.Wrap(err, "mongodb: decode communities")
	}
	return result, nil
}

func (d *CommunityDAO) UpdateImage(ctx context.Context, id primitive.ObjectID, url, publicID string) error {
	res, err := d.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"imageUrl":      url,
		"imagePublicId": publicID,
		"updatedAt":     time.Now(),
	}})
	if err != nil {
		return errors.Wrap(err, "mongodb: update community image")
	}
	if res.MatchedCount == 0 {
		return errors.WithStack(apperr.ErrCommunityNotFound)
	}
	return nil
}
