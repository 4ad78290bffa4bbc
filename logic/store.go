package logic

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"reddit/models"
)

// The stores below are implemented by dao/mongodb and dao/memory. Lookups
// report missing documents with the NotFound sentinels of apperr and inserts
// report unique-index violations with the Conflict sentinels.

type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

type CommunityStore interface {
	Create(ctx context.Context, c *models.Community) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Community, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	ListByAuthor(ctx context.Context, authorID primitive.ObjectID) ([]*models.Community, error)
	Search(ctx context.Context, query string, limit int64) ([]*models.CommunitySummary, error)
	UpdateImage(ctx context.Context, id primitive.ObjectID, url, publicID string) error
}

type PostStore interface {
	Create(ctx context.Context, p *models.Post) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error)
	FindView(ctx context.Context, id primitive.ObjectID) (*models.PostView, error)
	Update(ctx context.Context, id primitive.ObjectID, edit models.PostEdit) (*models.Post, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	// List returns posts newest first. A zero limit returns every match.
	List(ctx context.Context, filter models.PostFilter, skip, limit int64) ([]*models.PostView, error)
	Count(ctx context.Context, filter models.PostFilter) (int64, error)
	AddScore(ctx context.Context, id primitive.ObjectID, delta int64) error
}

type CommentStore interface {
	Create(ctx context.Context, c *models.Comment) error
	ListByPost(ctx context.Context, postID primitive.ObjectID, skip, limit int64) ([]*models.CommentView, error)
	CountByPost(ctx context.Context, postID primitive.ObjectID) (int64, error)
}

type VoteStore interface {
	// Upsert sets the (user, post) vote to t in one atomic write and returns
	// the stored vote along with the one it replaced, nil when it was created.
	Upsert(ctx context.Context, userID, postID primitive.ObjectID, t models.VoteType) (vote, prev *models.Vote, err error)
	Find(ctx context.Context, userID, postID primitive.ObjectID) (*models.Vote, error)
	// Delete removes and returns the (user, post) vote.
	Delete(ctx context.Context, userID, postID primitive.ObjectID) (*models.Vote, error)
	Count(ctx context.Context, postID primitive.ObjectID, t models.VoteType) (int64, error)
}

type RefStore interface {
	Link(ctx context.Context, parent models.Ref, childID primitive.ObjectID) error
	Unlink(ctx context.Context, parent models.Ref, childID primitive.ObjectID) error
}

// TxRunner is satisfied by *database.TxRunner.
type TxRunner interface {
	RunInTx(ctx context.Context, name string, fn func(ctx context.Context) error) error
}

// Stores is everything the services read and write through.
type Stores struct {
	Users       UserStore
	Communities CommunityStore
	Posts       PostStore
	Comments    CommentStore
	Votes       VoteStore
	Refs        RefStore
	Tx          TxRunner
}
