// Package memory keeps every collection in process memory. It honours the
// same uniqueness rules as the MongoDB indexes and backs store.driver=memory
// and the service tests.
package memory

import (
	"bytes"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"reddit/models"
)

type voteKey struct {
	user primitive.ObjectID
	post primitive.ObjectID
}

type Store struct {
	mu          sync.RWMutex
	users       map[primitive.ObjectID]*models.User
	communities map[primitive.ObjectID]*models.Community
	posts       map[primitive.ObjectID]*models.Post
	comments    map[primitive.ObjectID]*models.Comment
	votes       map[voteKey]*models.Vote
}

func New() *Store {
	return &Store{
		users:       make(map[primitive.ObjectID]*models.User),
		communities: make(map[primitive.ObjectID]*models.Community),
		posts:       make(map[primitive.ObjectID]*models.Post),
		comments:    make(map[primitive.ObjectID]*models.Comment),
		votes:       make(map[voteKey]*models.Vote),
	}
}

func (s *Store) Users() *UserRepo { return &UserRepo{s} }
func (s *Store) Communities() *CommunityRepo { return &CommunityRepo{s} }
func (s *Store) Posts() *PostRepo { return &PostRepo{s} }
func (s *Store) Comments() *CommentRepo { return &CommentRepo{s} }
func (s *Store) Votes() *VoteRepo { return &VoteRepo{s} }
func (s *Store) Refs() *RefRepo { return &RefRepo{s} }

// VotesFor counts the stored votes on a post, orphans included.
func (s *Store) VotesFor(postID primitive.ObjectID) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for k := range s.votes {
		if k.post == postID {
			n++
		}
	}
	return n
}

// CommentsFor counts the stored comments on a post, orphans included.
func (s *Store) CommentsFor(postID primitive.ObjectID) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, c := range s.comments {
		if c.PostID == postID {
			n++
		}
	}
	return n
}

func (s *Store) authorOf(id primitive.ObjectID) *models.AuthorSummary {
	if u, ok := s.users[id]; ok {
		return u.Summary()
	}
	return nil
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func cloneIDs(ids []primitive.ObjectID) []primitive.ObjectID {
	out := make([]primitive.ObjectID, len(ids))
	copy(out, ids)
	return out
}

// newer reports whether a sorts before b: createdAt desc, then _id desc.
func newer(aAt, bAt time.Time, aID, bID primitive.ObjectID) bool {
	if !aAt.Equal(bAt) {
		return aAt.After(bAt)
	}
	return bytes.Compare(aID[:], bID[:]) > 0
}

func window[T any](items []T, skip, limit int64) []T {
	// a negative skip can only come from an overflowed offset
	if skip < 0 || skip >= int64(len(items)) {
		return []T{}
	}
	items = items[skip:]
	if limit > 0 && limit < int64(len(items)) {
		items = items[:limit]
	}
	return items
}

func sortPosts(posts []*models.PostView) {
	sort.Slice(posts, func(i, j int) bool {
		return newer(posts[i].CreatedAt, posts[j].CreatedAt, posts[i].ID, posts[j].ID)
	})
}
