package database

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"reddit/logger"
	"reddit/models"
	"reddit/settings"
)

const retryDelay = 2 * time.Second

// DB bundles the client with the collections the repositories use.
type DB struct {
	Client      *mongo.Client
	Database    *mongo.Database
	Users       *mongo.Collection
	Communities *mongo.Collection
	Posts       *mongo.Collection
	Comments    *mongo.Collection
	Votes       *mongo.Collection
}

// Connect dials MongoDB and pings it, retrying up to cfg.ConnectRetries times.
func Connect(ctx context.Context, cfg settings.MongoConfig) (*DB, error) {
	attempts := cfg.ConnectRetries
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for i := 1; i <= attempts; i++ {
		client, err := dial(ctx, cfg)
		if err == nil {
			logger.Infof("Connected to MongoDB (attempt %d)", i)
			return newDB(client, cfg.Database), nil
		}
		lastErr = err
		logger.Warnf("MongoDB connection attempt %d failed: %v", i, err)

		if i == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, errors.Wrap(ctx.Err(), "database: connect")
		case <-time.After(retryDelay):
		}
	}
	return nil, errors.Wrapf(lastErr, "database: connect after %d attempts", attempts)
}

func dial(ctx context.Context, cfg settings.MongoConfig) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return client, nil
}

func newDB(client *mongo.Client, name string) *DB {
	db := client.Database(name)
	return &DB{
		Client:      client,
		Database:    db,
		Users:       db.Collection(models.CollUsers),
		Communities: db.Collection(models.CollCommunities),
		Posts:       db.Collection(models.CollPosts),
		Comments:    db.Collection(models.CollComments),
		Votes:       db.Collection(models.CollVotes),
	}
}

// Collection resolves a collection by name, for back-reference updates.
func (d *DB) Collection(name string) *mongo.Collection {
	return d.Database.Collection(name)
}

func (d *DB) Disconnect(ctx context.Context) error {
	if d == nil || d.Client == nil {
		return nil
	}
	if err := d.Client.Disconnect(ctx); err != nil {
		return errors.Wrap(err, "database: disconnect")
	}
	logger.Infof("Disconnected from MongoDB")
	return nil
}

// EnsureIndexes creates the uniqueness constraints and the foreign-key
// indexes that listings are served from.
func (d *DB) EnsureIndexes(ctx context.Context) error {
	specs := []struct {
		coll   *mongo.Collection
		models []mongo.IndexModel
	}{
		{d.Users, []mongo.IndexModel{
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		}},
		{d.Communities, []mongo.IndexModel{
			{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "authorId", Value: 1}}},
		}},
		{d.Posts, []mongo.IndexModel{
			{Keys: bson.D{{Key: "communityId", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "authorId", Value: 1}}},
			{Keys: bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}},
		}},
		{d.Comments, []mongo.IndexModel{
			{Keys: bson.D{{Key: "postId", Value: 1}, {Key: "createdAt", Value: -1}}},
		}},
		{d.Votes, []mongo.IndexModel{
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "postId", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "postId", Value: 1}, {Key: "type", Value: 1}}},
		}},
	}

	for _, s := range specs {
		if _, err := s.coll.Indexes().CreateMany(ctx, s.models); err != nil {
			return errors.Wrapf(err, "database: create indexes on %s", s.coll.Name())
		}
	}
	return nil
}
