package mongodb

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"reddit/apperr"
	"reddit/database"
	"reddit/models"
)

type UserDAO struct {
	coll *mongo.Collection
}

func NewUserDAO(db *database.DB) *UserDAO {
	return &UserDAO{coll: db.Users}
}

func (d *UserDAO) Create(ctx context.Context, u *models.User) error {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	// $addToSet fails on a null field, so the lists start empty
	u.Posts = nonNil(u.Posts)
	u.Comments = nonNil(u.Comments)
	u.Votes = nonNil(u.Votes)
	if _, err := d.coll.InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errors.WithStack(apperr.ErrUserExists)
		}
		return errors.Wrap(err, "mongodb: insert user")
	}
	return nil
}

func (d *UserDAO) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return d.findOne(ctx, bson.M{"_id": id})
}

func (d *UserDAO) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return d.findOne(ctx, bson.M{"email": email})
}

func (d *UserDAO) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var u models.User
	err := d.coll.FindOne(ctx, filter).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, errors.WithStack(apperr.ErrUserNotFound)
	}
	if err != nil {
		return nil, errors.Wrap(err, "mongodb: find user")
	}
	return &u, nil
}
