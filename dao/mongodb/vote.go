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

type VoteDAO struct {
	coll *mongo.Collection
}

func NewVoteDAO(db *database.DB) *VoteDAO {
	return &VoteDAO{coll: db.Votes}
}

// Upsert relies on the unique (userId, postId) index. Two concurrent upserts
// that both miss can race to insert; the loser gets a duplicate key error and
// is retried once, at which point the document exists and it updates.
func (d *VoteDAO) Upsert(ctx context.Context, userID, postID primitive.ObjectID, t models.VoteType) (*models.Vote, *models.Vote, error) {
	vote, prev, err := d.upsert(ctx, userID, postID, t)
	if mongo.IsDuplicateKeyError(err) {
		vote, prev, err = d.upsert(ctx, userID, postID, t)
	}
	if err != nil {
		return nil, nil, errors.Wrap(err, "mongodb: upsert vote")
	}
	return vote, prev, nil
}

func (d *VoteDAO) upsert(ctx context.Context, userID, postID primitive.ObjectID, t models.VoteType) (*models.Vote, *models.Vote, error) {
	now := time.Now().UTC().Truncate(time.Millisecond)
	id := primitive.NewObjectID()
	update := bson.M{
		"$set":         bson.M{"type": t, "updatedAt": now},
		"$setOnInsert": bson.M{"_id": id, "createdAt": now},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.Before)

	var prev models.Vote
	err := d.coll.FindOneAndUpdate(ctx, voteKey(userID, postID), update, opts).Decode(&prev)
	if err == mongo.ErrNoDocuments {
		// nothing before: this call inserted
		return &models.Vote{ID: id, Type: t, UserID: userID, PostID: postID, CreatedAt: now, UpdatedAt: now}, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}

	vote := prev
	vote.Type = t
	vote.UpdatedAt = now
	return &vote, &prev, nil
}

func (d *VoteDAO) Find(ctx context.Context, userID, postID primitive.ObjectID) (*models.Vote, error) {
	var v models.Vote
	err := d.coll.FindOne(ctx, voteKey(userID, postID)).Decode(&v)
	if err == mongo.ErrNoDocuments {
		return nil, errors.WithStack(apperr.ErrVoteNotFound)
	}
	if err != nil {
		return nil, errors.Wrap(err, "mongodb: find vote")
	}
	return &v, nil
}

func (d *VoteDAO) Delete(ctx context.Context, userID, postID primitive.ObjectID) (*models.Vote, error) {
	var v models.Vote
	err := d.coll.FindOneAndDelete(ctx, voteKey(userID, postID)).Decode(&v)
	if err == mongo.ErrNoDocuments {
		return nil, errors.WithStack(apperr.ErrVoteNotFound)
	}
	if err != nil {
		return nil, errors.Wrap(err, "mongodb: delete vote")
	}
	return &v, nil
}

func (d *VoteDAO) Count(ctx context.Context, postID primitive.ObjectID, t models.VoteType) (int64, error) {
	n, err := d.coll.CountDocuments(ctx, bson.M{"postId": postID, "type": t})
	if err != nil {
		return 0, errors.Wrap(err, "mongodb: count votes")
	}
	return n, nil
}

func voteKey(userID, postID primitive.ObjectID) bson.M {
	return bson.M{"userId": userID, "postId": postID}
}
