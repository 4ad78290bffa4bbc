package logic

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"reddit/apperr"
	"reddit/events"
	"reddit/models"
)

func TestCreatePostLinksParents(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "a@x.com", "alice")
	c := f.community(t, u, "golang")

	staged := f.staged(t)
	p, err := f.svc.Posts.Create(f.ctx, &models.ParamCreatePost{
		Title:       "  generics  ",
		Email:       u.Email,
		CommunityID: c.ID.Hex(),
		Description: "are here",
	}, staged)
	require.NoError(t, err)
	assert.NoFileExists(t, staged.Path)
	assert.Equal(t, "generics", p.Title)
	assert.Equal(t, "image", p.ResourceType)

	user, err := f.store.Users().FindByID(f.ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{p.ID}, user.Posts)

	community, err := f.store.Communities().FindByID(f.ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{p.ID}, community.Posts)

	assert.Contains(t, f.pub.types(), events.PostCreated)
}

func TestCreatePostRejections(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "a@x.com", "alice")
	c := f.community(t, u, "golang")

	cases := []struct {
		name   string
		params models.ParamCreatePost
		err    error
	}{
		{"unknown author", models.ParamCreatePost{Title: "t", Email: "ghost@x.com", CommunityID: c.ID.Hex()}, apperr.ErrUserNotFound},
		{"unknown community", models.ParamCreatePost{Title: "t", Email: u.Email, CommunityID: primitive.NewObjectID().Hex()}, apperr.ErrCommunityNotFound},
		{"bad community id", models.ParamCreatePost{Title: "t", Email: u.Email, CommunityID: "nope"}, apperr.ErrInvalidID},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			staged := f.staged(t)
			p := tc.params
			_, err := f.svc.Posts.Create(f.ctx, &p, staged)
			assert.ErrorIs(t, err, tc.err)
			assert.NoFileExists(t, staged.Path)
		})
	}

	_, err := f.svc.Posts.Create(f.ctx, &models.ParamCreatePost{Title: "t", Email: u.Email, CommunityID: c.ID.Hex()}, nil)
	assert.ErrorIs(t, err, apperr.ErrFileRequired)
}

func TestDeletePostKeepsCommentsAndVotes(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "a@x.com", "alice")
	c := f.community(t, u, "golang")
	p := f.post(t, u, c, "hello")

	_, err := f.svc.Comments.Add(f.ctx, &models.ParamAddComment{Content: "nice", PostID: p.ID.Hex(), AuthorID: u.ID.Hex()})
	require.NoError(t, err)
	_, err = f.svc.Votes.CastOrUpdateVote(f.ctx, u.ID, p.ID, models.VoteUp)
	require.NoError(t, err)

	require.NoError(t, f.svc.Posts.Delete(f.ctx, u.ID, p.ID))

	_, err = f.svc.Posts.Get(f.ctx, p.ID)
	assert.ErrorIs(t, err, apperr.ErrPostNotFound)

	user, err := f.store.Users().FindByID(f.ctx, u.ID)
	require.NoError(t, err)
	assert.NotContains(t, user.Posts, p.ID)
	community, err := f.store.Communities().FindByID(f.ctx, c.ID)
	require.NoError(t, err)
	assert.NotContains(t, community.Posts, p.ID)

	assert.Equal(t, 1, f.store.CommentsFor(p.ID))
	assert.Equal(t, 1, f.store.VotesFor(p.ID))

	require.Len(t, f.host.destroyed, 1)
	assert.Equal(t, p.ImagePublicID, f.host.destroyed[0].PublicID)
	assert.Contains(t, f.pub.types(), events.PostDeleted)
}

func TestNonAuthorCannotEditOrDelete(t *testing.T) {
	f := newFixture(t)
	author := f.user(t, "a@x.com", "alice")
	other := f.user(t, "b@x.com", "bob")
	c := f.community(t, author, "golang")
	p := f.post(t, author, c, "original")

	title := "hijacked"
	_, err := f.svc.Posts.Edit(f.ctx, other.ID, p.ID, &models.ParamEditPost{Title: &title})
	assert.ErrorIs(t, err, apperr.ErrNotPostAuthor)
	assert.Equal(t, apperr.Forbidden, apperr.KindOf(err))

	err = f.svc.Posts.Delete(f.ctx, other.ID, p.ID)
	assert.ErrorIs(t, err, apperr.ErrNotPostAuthor)

	stored, err := f.store.Posts().FindByID(f.ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "original", stored.Title)
	assert.Nil(t, stored.LastEditedAt)
	assert.Empty(t, f.host.destroyed)
}

func TestAuthorEditStampsLastEditedAt(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "a@x.com", "alice")
	c := f.community(t, u, "golang")
	p := f.post(t, u, c, "original")

	content := "now with content"
	edited, err := f.svc.Posts.Edit(f.ctx, u.ID, p.ID, &models.ParamEditPost{Content: &content})
	require.NoError(t, err)
	assert.Equal(t, "original", edited.Title)
	assert.Equal(t, content, edited.Content)
	require.NotNil(t, edited.LastEditedAt)

	_, err = f.svc.Posts.Edit(f.ctx, u.ID, p.ID, &models.ParamEditPost{})
	assert.ErrorIs(t, err, apperr.ErrNothingToEdit)

	blank := "  "
	_, err = f.svc.Posts.Edit(f.ctx, u.ID, p.ID, &models.ParamEditPost{Title: &blank})
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))

	_, err = f.svc.Posts.Edit(f.ctx, u.ID, primitive.NewObjectID(), &models.ParamEditPost{Content: &content})
	assert.ErrorIs(t, err, apperr.ErrPostNotFound)
}

func TestPostPagesAreWindowsOfTheFullList(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "a@x.com", "alice")
	c := f.community(t, u, "golang")
	for i := 0; i < 23; i++ {
		f.post(t, u, c, fmt.Sprintf("post %d", i))
	}

	full, err := f.store.Posts().List(f.ctx, models.PostFilter{}, 0, 0)
	require.NoError(t, err)
	require.Len(t, full, 23)

	for _, size := range []int64{1, 5, 7, 23, 50} {
		for page := int64(0); page*size <= 25; page++ {
			got, total, err := f.svc.Posts.List(f.ctx, models.Page{Page: page, Limit: size})
			require.NoError(t, err)
			assert.Equal(t, int64(23), total)

			lo := page * size
			hi := lo + size
			if lo > 23 {
				lo = 23
			}
			if hi > 23 {
				hi = 23
			}
			require.Len(t, got, int(hi-lo), "page %d size %d", page, size)
			for i := range got {
				assert.Equal(t, full[lo+int64(i)].ID, got[i].ID)
			}
		}
	}
}

func TestPostPageFarPastTheEndIsEmpty(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "a@x.com", "alice")
	c := f.community(t, u, "golang")
	f.post(t, u, c, "only")

	for _, page := range []int64{100000000000000000, math.MaxInt64} {
		got, total, err := f.svc.Posts.List(f.ctx, models.Page{Page: page, Limit: models.MaxPageSize})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Empty(t, got, "page %d", page)
	}
}

func TestListByCommunity(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "a@x.com", "alice")
	golang := f.community(t, u, "golang")
	rust := f.community(t, u, "rustlang")
	f.post(t, u, golang, "one")
	f.post(t, u, golang, "two")
	f.post(t, u, rust, "three")

	posts, err := f.svc.Posts.ListByCommunity(f.ctx, golang.ID)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "two", posts[0].Title)
	require.NotNil(t, posts[0].Author)
	assert.Equal(t, "alice", posts[0].Author.Username)

	_, err = f.svc.Posts.ListByCommunity(f.ctx, primitive.NewObjectID())
	assert.ErrorIs(t, err, apperr.ErrCommunityNotFound)
}

func TestRecentPostsCacheIsInvalidatedOnCreate(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "a@x.com", "alice")
	c := f.community(t, u, "golang")
	f.post(t, u, c, "one")

	recent, err := f.svc.Posts.Recent(f.ctx)
	require.NoError(t, err)
	require.Len(t, recent, 1)

	f.post(t, u, c, "two")
	f.post(t, u, c, "three")
	f.post(t, u, c, "four")

	recent, err = f.svc.Posts.Recent(f.ctx)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, "four", recent[0].Title)
}

func TestRecentPostsCacheFollowsVotesAndComments(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "a@x.com", "alice")
	c := f.community(t, u, "golang")
	p := f.post(t, u, c, "one")

	recent, err := f.svc.Posts.Recent(f.ctx)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, int64(0), recent[0].Score)

	_, err = f.svc.Votes.CastOrUpdateVote(f.ctx, u.ID, p.ID, models.VoteUp)
	require.NoError(t, err)

	recent, err = f.svc.Posts.Recent(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), recent[0].Score)
	single, err := f.svc.Posts.Get(f.ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, single.Score, recent[0].Score)

	_, err = f.svc.Votes.RemoveVote(f.ctx, u.ID, p.ID)
	require.NoError(t, err)
	recent, err = f.svc.Posts.Recent(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), recent[0].Score)
	assert.Empty(t, recent[0].Votes)

	_, err = f.svc.Comments.Add(f.ctx, &models.ParamAddComment{Content: "hi", PostID: p.ID.Hex(), AuthorID: u.ID.Hex()})
	require.NoError(t, err)
	cached, ok, err := f.svc.Posts.recent.cache.Get(f.ctx)
	require.NoError(t, err)
	assert.False(t, ok, "comment should drop the cached listing")
	assert.Nil(t, cached)
}

func TestCreatedSince(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "a@x.com", "alice")
	c := f.community(t, u, "golang")
	f.post(t, u, c, "one")

	posts, err := f.svc.Posts.CreatedSince(f.ctx, "2000-01-01")
	require.NoError(t, err)
	assert.Len(t, posts, 1)

	future := time.Now().Add(48 * time.Hour).Format(time.RFC3339)
	_, err = f.svc.Posts.CreatedSince(f.ctx, future)
	assert.ErrorIs(t, err, apperr.ErrNoPostsFound)

	_, err = f.svc.Posts.CreatedSince(f.ctx, "last tuesday")
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))
}

func TestGetPostOmitsCommentIDs(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "a@x.com", "alice")
	c := f.community(t, u, "golang")
	p := f.post(t, u, c, "hello")
	_, err := f.svc.Comments.Add(f.ctx, &models.ParamAddComment{Content: "hi", PostID: p.ID.Hex(), AuthorID: u.ID.Hex()})
	require.NoError(t, err)

	view, err := f.svc.Posts.Get(f.ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, view.Comments)
	assert.Equal(t, "alice", view.Author.Username)
}
