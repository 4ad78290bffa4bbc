package memory

import (
	"context"
	"sort"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"reddit/models"
)

type CommentRepo struct{ s *Store }

func (r *CommentRepo) Create(_ context.Context, c *models.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	stored := *c
	r.s.comments[c.ID] = &stored
	return nil
}

func (r *CommentRepo) ListByPost(_ context.Context, postID primitive.ObjectID, skip, limit int64) ([]*models.CommentView, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*models.CommentView, 0)
	for _, c := range r.s.comments {
		if c.PostID == postID {
			out = append(out, &models.CommentView{Comment: *c, Author: r.s.authorOf(c.AuthorID)})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return newer(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID)
	})
	return window(out, skip, limit), nil
}

func (r *CommentRepo) CountByPost(_ context.Context, postID primitive.ObjectID) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var n int64
	for _, c := range r.s.comments {
		if c.PostID == postID {
			n++
		}
	}
	return n, nil
}
