package mongodb

import (
	"context"
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

type PostDAO struct {
	coll *mongo.Collection
}

func NewPostDAO(db *database.DB) *PostDAO {
	return &PostDAO{coll: db.Posts}
}

func (d *PostDAO) Create(ctx context.Context, p *models.Post) error {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	p.Comments = nonNil(p.Comments)
	p.Votes = nonNil(p.Votes)
	if _, err := d.coll.InsertOne(ctx, p); err != nil {
		return errors.Wrap(err, "mongodb: insert post")
	}
	return nil
}

func (d *PostDAO) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	var p models.Post
	err := d.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, errors.WithStack(apperr.ErrPostNotFound)
	}
	if err != nil {
		return nil, errors.Wrap(err, "mongodb: find post")
	}
	return &p, nil
}

// FindView returns the post with its author and without the comment ids.
func (d *PostDAO) FindView(ctx context.Context, id primitive.ObjectID) (*models.PostView, error) {
	pipeline := mongo.Pipeline{{{Key: "$match", Value: bson.M{"_id": id}}}}
	pipeline = append(pipeline, authorStages()...)
	pipeline = append(pipeline, bson.D{{Key: "$project", Value: bson.D{{Key: "comments", Value: 0}}}})

	views, err := d.aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, errors.WithStack(apperr.ErrPostNotFound)
	}
	return views[0], nil
}

func (d *PostDAO) Update(ctx context.Context, id primitive.ObjectID, edit models.PostEdit) (*models.Post, error) {
	set := bson.M{"lastEditedAt": edit.EditedAt, "updatedAt": edit.EditedAt}
	if edit.Title != nil {
		set["title"] = *edit.Title
	}
	if edit.Content != nil {
		set["content"] = *edit.Content
	}

	var p models.Post
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := d.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, errors.WithStack(apperr.ErrPostNotFound)
	}
	if err != nil {
		return nil, errors.Wrap(err, "mongodb: update post")
	}
	return &p, nil
}

func (d *PostDAO) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := d.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.Wrap(err, "mongodb: delete post")
	}
	if res.DeletedCount == 0 {
		return errors.WithStack(apperr.ErrPostNotFound)
	}
	return nil
}

func (d *PostDAO) List(ctx context.Context, filter models.PostFilter, skip, limit int64) ([]*models.PostView, error) {
	pipeline := mongo.Pipeline{{{Key: "$match", Value: postFilter(filter)}}}
	pipeline = append(pipeline, pageStages(skip, limit)...)
	pipeline = append(pipeline, authorStages()...)
	return d.aggregate(ctx, pipeline)
}

func (d *PostDAO) Count(ctx context.Context, filter models.PostFilter) (int64, error) {
	n, err := d.coll.CountDocuments(ctx, postFilter(filter))
	if err != nil {
		return 0, errors.Wrap(err, "mongodb: count posts")
	}
	return n, nil
}

func (d *PostDAO) AddScore(ctx context.Context, id primitive.ObjectID, delta int64) error {
	if delta == 0 {
		return nil
	}
	_, err := d.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"score": delta}})
	return errors.Wrap(err, "mongodb: adjust post score")
}

func (d *PostDAO) aggregate(ctx context.Context, pipeline mongo.Pipeline) ([]*models.PostView, error) {
	cursor, err := d.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, errors.Wrap(err, "mongodb: aggregate posts")
	}
	defer cursor.Close(ctx)

	views := make([]*models.PostView, 0)
	if err := cursor.All(ctx, &views); err != nil {
		return nil, errors.Wrap(err, "mongodb: decode posts")
	}
	return views, nil
}

func postFilter(f models.PostFilter) bson.M {
	filter := bson.M{}
	if !f.CommunityID.IsZero() {
		filter["communityId"] = f.CommunityID
	}
	if !f.CreatedSince.IsZero() {
		filter["createdAt"] = bson.M{"$gte": f.CreatedSince.UTC().Truncate(time.Millisecond)}
	}
	return filter
}
