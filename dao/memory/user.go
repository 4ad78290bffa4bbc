package memory

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"reddit/apperr"
	"reddit/models"
)

type UserRepo struct{ s *Store }

func (r *UserRepo) Create(_ context.Context, u *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			return errors.WithStack(apperr.ErrUserExists)
		}
	}
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	stored := *u
	stored.Posts = cloneIDs(u.Posts)
	stored.Comments = cloneIDs(u.Comments)
	stored.Votes = cloneIDs(u.Votes)
	r.s.users[u.ID] = &stored
	return nil
}

func (r *UserRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, errors.WithStack(apperr.ErrUserNotFound)
	}
	return copyUser(u), nil
}

func (r *UserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, errors.WithStack(apperr.ErrUserNotFound)
}

func copyUser(u *models.User) *models.User {
	out := *u
	out.Posts = cloneIDs(u.Posts)
	out.Comments = cloneIDs(u.Comments)
	out.Votes = cloneIDs(u.Votes)
	return &out
}
