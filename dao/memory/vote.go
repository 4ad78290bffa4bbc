package memory

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"reddit/apperr"
	"reddit/models"
)

type VoteRepo struct{ s *Store }

// Upsert holds the write lock across lookup and write, which makes it atomic
// the same way the unique index does for MongoDB.
func (r *VoteRepo) Upsert(_ context.Context, userID, postID primitive.ObjectID, t models.VoteType) (*models.Vote, *models.Vote, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	at := now()
	key := voteKey{user: userID, post: postID}
	if existing, ok := r.s.votes[key]; ok {
		prev := *existing
		existing.Type = t
		existing.UpdatedAt = at
		vote := *existing
		return &vote, &prev, nil
	}

	v := &models.Vote{
		ID:        primitive.NewObjectID(),
		Type:      t,
		UserID:    userID,
		PostID:    postID,
		CreatedAt: at,
		UpdatedAt: at,
	}
	r.s.votes[key] = v
	vote := *v
	return &vote, nil, nil
}

func (r *VoteRepo) Find(_ context.Context, userID, postID primitive.ObjectID) (*models.Vote, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	v, ok := r.s.votes[voteKey{user: userID, post: postID}]
	if !ok {
		return nil, errors.WithStack(apperr.ErrVoteNotFound)
	}
	out := *v
	return &out, nil
}

func (r *VoteRepo) Delete(_ context.Context, userID, postID primitive.ObjectID) (*models.Vote, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := voteKey{user: userID, post: postID}
	v, ok := r.s.votes[key]
	if !ok {
		return nil, errors.WithStack(apperr.ErrVoteNotFound)
	}
	delete(r.s.votes, key)
	return v, nil
}

func (r *VoteRepo) Count(_ context.Context, postID primitive.ObjectID, t models.VoteType) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var n int64
	for k, v := range r.s.votes {
		if k.post == postID && v.Type == t {
			n++
		}
	}
	return n, nil
}
