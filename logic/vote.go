package logic

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"reddit/apperr"
	"reddit/events"
	"reddit/logger"
	"reddit/models"
)

type VoteService struct {
	users  UserStore
	posts  PostStore
	votes  VoteStore
	linker *Linker
	tx     TxRunner
	pub    events.Publisher
	recent *recentPosts
}

func NewVoteService(d Deps) *VoteService {
	d.fill()
	return &VoteService{
		users:  d.Users,
		posts:  d.Posts,
		votes:  d.Votes,
		linker: NewLinker(d.Refs),
		tx:     d.Tx,
		pub:    d.Events,
		recent: d.recent,
	}
}

// CastOrUpdateVote records t as the user's vote on the post. The vote store
// writes it in one atomic upsert, so concurrent calls for the same pair
// leave exactly one vote holding the type of the last write.
func (s *VoteService) CastOrUpdateVote(ctx context.Context, userID, postID primitive.ObjectID, t models.VoteType) (*models.Vote, error) {
	if !t.Valid() {
		return nil, errors.WithStack(apperr.ErrInvalidVote)
	}
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	if _, err := s.posts.FindByID(ctx, postID); err != nil {
		return nil, err
	}

	var vote *models.Vote
	err := s.tx.RunInTx(ctx, "cast vote", func(ctx context.Context) error {
		v, prev, err := s.votes.Upsert(ctx, userID, postID, t)
		if err != nil {
			return err
		}
		vote = v
		if prev == nil {
			err = s.linker.LinkChild(ctx, v.ID,
				models.PostRef(postID, models.FieldVotes),
				models.UserRef(userID, models.FieldVotes))
			if err != nil {
				return err
			}
		}
		return s.posts.AddScore(ctx, postID, v.Weight()-prev.Weight())
	})
	if err != nil {
		return nil, err
	}

	s.recent.invalidate(ctx)
	s.announce(ctx, userID, postID, &vote.Type)
	return vote, nil
}

// RemoveVote deletes the user's vote on the post, ErrVoteNotFound if there
// is none.
func (s *VoteService) RemoveVote(ctx context.Context, userID, postID primitive.ObjectID) (*models.Vote, error) {
	var removed *models.Vote
	err := s.tx.RunInTx(ctx, "remove vote", func(ctx context.Context) error {
		v, err := s.votes.Delete(ctx, userID, postID)
		if err != nil {
			return err
		}
		removed = v
		err = s.linker.UnlinkChild(ctx, v.ID,
			models.PostRef(postID, models.FieldVotes),
			models.UserRef(userID, models.FieldVotes))
		if err != nil {
			return err
		}
		return s.posts.AddScore(ctx, postID, -v.Weight())
	})
	if err != nil {
		return nil, err
	}

	s.recent.invalidate(ctx)
	s.announce(ctx, userID, postID, nil)
	return removed, nil
}

func (s *VoteService) GetVote(ctx context.Context, userID, postID primitive.ObjectID) (*models.Vote, error) {
	return s.votes.Find(ctx, userID, postID)
}

// Tally counts the votes currently referencing the post.
func (s *VoteService) Tally(ctx context.Context, postID primitive.ObjectID) (models.VoteTally, error) {
	up, err := s.votes.Count(ctx, postID, models.VoteUp)
	if err != nil {
		return models.VoteTally{}, err
	}
	down, err := s.votes.Count(ctx, postID, models.VoteDown)
	if err != nil {
		return models.VoteTally{}, err
	}
	return models.VoteTally{Up: up, Down: down, Score: up - down}, nil
}

// ScoreOf is #up - #down over the post's votes.
func (s *VoteService) ScoreOf(ctx context.Context, postID primitive.ObjectID) (int64, error) {
	t, err := s.Tally(ctx, postID)
	return t.Score, err
}

func (s *VoteService) announce(ctx context.Context, userID, postID primitive.ObjectID, t *models.VoteType) {
	score, err := s.ScoreOf(ctx, postID)
	if err != nil {
		logger.Warnf("logic: score of %s for vote event: %v", postID.Hex(), err)
		return
	}
	s.pub.Publish(events.Event{Type: events.VoteChanged, Payload: events.VoteChangedPayload{
		PostID: postID.Hex(),
		UserID: userID.Hex(),
		Type:   t,
		Score:  score,
	}})
}
