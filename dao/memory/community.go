package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"reddit/apperr"
	"reddit/models"
)

type CommunityRepo struct{ s *Store }

func (r *CommunityRepo) Create(_ context.Context, c *models.Community) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.communities {
		if existing.Name == c.Name {
			return errors.WithStack(apperr.ErrCommunityExists)
		}
	}
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	stored := *c
	stored.Posts = cloneIDs(c.Posts)
	r.s.communities[c.ID] = &stored
	return nil
}

func (r *CommunityRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Community, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.communities[id]
	if !ok {
		return nil, errors.WithStack(apperr.ErrCommunityNotFound)
	}
	return copyCommunity(c), nil
}

func (r *CommunityRepo) ExistsByName(_ context.Context, name string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, c := range r.s.communities {
		if c.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (r *CommunityRepo) ListByAuthor(_ context.Context, authorID primitive.ObjectID) ([]*models.Community, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*models.Community, 0)
	for _, c := range r.s.communities {
		if c.AuthorID == authorID {
			out = append(out, copyCommunity(c))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return newer(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID)
	})
	return out, nil
}

func (r *CommunityRepo) Search(_ context.Context, query string, limit int64) ([]*models.CommunitySummary, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	q := strings.ToLower(query)
	out := make([]*models.CommunitySummary, 0)
	for _, c := range r.s.communities {
		if strings.Contains(strings.ToLower(c.Name), q) {
			out = append(out, &models.CommunitySummary{ID: c.ID, Name: c.Name})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return window(out, 0, limit), nil
}

func (r *CommunityRepo) UpdateImage(_ context.Context, id primitive.ObjectID, url, publicID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.communities[id]
	if !ok {
		return errors.WithStack(apperr.ErrCommunityNotFound)
	}
	c.ImageURL = url
	c.ImagePublicID = publicID
	c.UpdatedAt = now()
	return nil
}

func copyCommunity(c *models.Community) *models.Community {
	out := *c
	out.Posts = cloneIDs(c.Posts)
	return &out
}
