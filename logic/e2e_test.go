package logic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reddit/apperr"
	"reddit/models"
)

func TestCommunityPostVoteLifecycle(t *testing.T) {
	f := newFixture(t)

	u, err := f.svc.Users.Create(f.ctx, &models.ParamCreateUser{Email: "a@x.com", Username: "alice"})
	require.NoError(t, err)

	_, err = f.svc.Users.Create(f.ctx, &models.ParamCreateUser{Email: "a@x.com", Username: "again"})
	assert.ErrorIs(t, err, apperr.ErrUserExists)

	c, err := f.svc.Communities.Create(f.ctx, &models.ParamCreateCommunity{
		Name:        "golang",
		Description: "all things Go",
		Email:       "a@x.com",
	}, f.staged(t))
	require.NoError(t, err)

	p, err := f.svc.Posts.Create(f.ctx, &models.ParamCreatePost{
		Title:       "first post",
		Email:       "a@x.com",
		CommunityID: c.ID.Hex(),
	}, f.staged(t))
	require.NoError(t, err)

	_, err = f.svc.Votes.CastOrUpdateVote(f.ctx, u.ID, p.ID, models.VoteUp)
	require.NoError(t, err)
	score, err := f.svc.Votes.ScoreOf(f.ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), score)

	_, err = f.svc.Votes.RemoveVote(f.ctx, u.ID, p.ID)
	require.NoError(t, err)
	_, err = f.svc.Votes.GetVote(f.ctx, u.ID, p.ID)
	assert.ErrorIs(t, err, apperr.ErrVoteNotFound)
	score, err = f.svc.Votes.ScoreOf(f.ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), score)

	user, err := f.store.Users().FindByID(f.ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, user.Votes)
}
