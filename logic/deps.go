package logic

import (
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"reddit/apperr"
	"reddit/cache"
	"reddit/database"
	"reddit/events"
	"reddit/media"
	"reddit/settings"
)

// Deps is what the services are built from. Everything is constructed once
// at startup and shared.
type Deps struct {
	Stores
	Host        media.Host
	Cache       cache.RecentPosts
	Events      events.Publisher
	Media       settings.MediaConfig
	RecentLimit int

	recent *recentPosts
}

func (d *Deps) fill() {
	if d.Cache == nil {
		d.Cache = cache.Nop{}
	}
	if d.recent == nil {
		d.recent = newRecentPosts(d.Cache)
	}
	if d.Events == nil {
		d.Events = events.Discard{}
	}
	if d.Host == nil {
		d.Host = media.Unconfigured{}
	}
	if d.Tx == nil {
		d.Tx = database.NewTxRunner(nil, false)
	}
	if d.RecentLimit <= 0 {
		d.RecentLimit = 20
	}
}

// Services bundles one of each service over shared Deps.
type Services struct {
	Users       *UserService
	Communities *CommunityService
	Posts       *PostService
	Comments    *CommentService
	Votes       *VoteService
}

func New(d Deps) *Services {
	d.fill()
	return &Services{
		Users:       NewUserService(d),
		Communities: NewCommunityService(d),
		Posts:       NewPostService(d),
		Comments:    NewCommentService(d),
		Votes:       NewVoteService(d),
	}
}

// ParseID converts a hex id from a request into an ObjectID.
func ParseID(hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, errors.WithStack(apperr.ErrInvalidID)
	}
	return id, nil
}
