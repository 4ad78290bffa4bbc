package memory

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"reddit/models"
)

type RefRepo struct{ s *Store }

// Link adds childID to the parent's list unless it is already there. A
// missing parent is a no-op, as an update matching nothing is in MongoDB.
func (r *RefRepo) Link(_ context.Context, parent models.Ref, childID primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	list, err := r.list(parent)
	if err != nil || list == nil {
		return err
	}
	for _, id := range *list {
		if id == childID {
			return nil
		}
	}
	*list = append(*list, childID)
	return nil
}

func (r *RefRepo) Unlink(_ context.Context, parent models.Ref, childID primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	list, err := r.list(parent)
	if err != nil || list == nil {
		return err
	}
	kept := (*list)[:0]
	for _, id := range *list {
		if id != childID {
			kept = append(kept, id)
		}
	}
	*list = kept
	return nil
}

func (r *RefRepo) list(parent models.Ref) (*[]primitive.ObjectID, error) {
	switch parent.Collection {
	case models.CollUsers:
		u, ok := r.s.users[parent.ID]
		if !ok {
			return nil, nil
		}
		switch parent.Field {
		case models.FieldPosts:
			return &u.Posts, nil
		case models.FieldComments:
			return &u.Comments, nil
		case models.FieldVotes:
			return &u.Votes, nil
		}
	case models.CollCommunities:
		c, ok := r.s.communities[parent.ID]
		if !ok {
			return nil, nil
		}
		if parent.Field == models.FieldPosts {
			return &c.Posts, nil
		}
	case models.CollPosts:
		p, ok := r.s.posts[parent.ID]
		if !ok {
			return nil, nil
		}
		switch parent.Field {
		case models.FieldComments:
			return &p.Comments, nil
		case models.FieldVotes:
			return &p.Votes, nil
		}
	}
	return nil, errors.Errorf("memory: no list %s.%s", parent.Collection, parent.Field)
}
