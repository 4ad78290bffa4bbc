package memory

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"reddit/apperr"
	"reddit/models"
)

type PostRepo struct{ s *Store }

func (r *PostRepo) Create(_ context.Context, p *models.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	r.s.posts[p.ID] = copyPost(p)
	return nil
}

func (r *PostRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Post, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.posts[id]
	if !ok {
		return nil, errors.WithStack(apperr.ErrPostNotFound)
	}
	return copyPost(p), nil
}

func (r *PostRepo) FindView(_ context.Context, id primitive.ObjectID) (*models.PostView, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.posts[id]
	if !ok {
		return nil, errors.WithStack(apperr.ErrPostNotFound)
	}
	v := r.view(p)
	v.Comments = nil
	return v, nil
}

func (r *PostRepo) Update(_ context.Context, id primitive.ObjectID, edit models.PostEdit) (*models.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.posts[id]
	if !ok {
		return nil, errors.WithStack(apperr.ErrPostNotFound)
	}
	if edit.Title != nil {
		p.Title = *edit.Title
	}
	if edit.Content != nil {
		p.Content = *edit.Content
	}
	at := edit.EditedAt
	p.LastEditedAt = &at
	p.UpdatedAt = at
	return copyPost(p), nil
}

func (r *PostRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.posts[id]; !ok {
		return errors.WithStack(apperr.ErrPostNotFound)
	}
	delete(r.s.posts, id)
	return nil
}

func (r *PostRepo) List(_ context.Context, filter models.PostFilter, skip, limit int64) ([]*models.PostView, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*models.PostView, 0)
	for _, p := range r.s.posts {
		if matches(p, filter) {
			out = append(out, r.view(p))
		}
	}
	sortPosts(out)
	return window(out, skip, limit), nil
}

func (r *PostRepo) Count(_ context.Context, filter models.PostFilter) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var n int64
	for _, p := range r.s.posts {
		if matches(p, filter) {
			n++
		}
	}
	return n, nil
}

func (r *PostRepo) AddScore(_ context.Context, id primitive.ObjectID, delta int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if p, ok := r.s.posts[id]; ok {
		p.Score += delta
	}
	return nil
}

func (r *PostRepo) view(p *models.Post) *models.PostView {
	return &models.PostView{Post: *copyPost(p), Author: r.s.authorOf(p.AuthorID)}
}

func matches(p *models.Post, f models.PostFilter) bool {
	if !f.CommunityID.IsZero() && p.CommunityID != f.CommunityID {
		return false
	}
	if !f.CreatedSince.IsZero() && p.CreatedAt.Before(f.CreatedSince) {
		return false
	}
	return true
}

func copyPost(p *models.Post) *models.Post {
	out := *p
	out.Comments = cloneIDs(p.Comments)
	out.Votes = cloneIDs(p.Votes)
	if p.LastEditedAt != nil {
		at := *p.LastEditedAt
		out.LastEditedAt = &at
	}
	return &out
}
