package logic

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"reddit/apperr"
	"reddit/cache"
	"reddit/dao/memory"
	"reddit/database"
	"reddit/events"
	"reddit/media"
	"reddit/models"
	"reddit/settings"
)

type fakeHost struct {
	mu        sync.Mutex
	failNext  bool
	uploads   []media.Asset
	destroyed []media.Asset
}

func (h *fakeHost) Upload(_ context.Context, f *media.Staged, folder string) (media.Asset, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.failNext {
		h.failNext = false
		return media.Asset{}, errors.WithStack(apperr.ErrMediaUpload)
	}
	name := folder + "/" + filepath.Base(f.Path)
	a := media.Asset{
		URL:          "https://res.cloudinary.com/demo/" + f.ResourceType() + "/upload/v1/" + name,
		PublicID:     name,
		ResourceType: f.ResourceType(),
	}
	h.uploads = append(h.uploads, a)
	return a, nil
}

func (h *fakeHost) Destroy(_ context.Context, a media.Asset) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.destroyed = append(h.destroyed, a)
	return nil
}

type recorder struct {
	mu  sync.Mutex
	got []events.Event
}

func (r *recorder) Publish(e events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, e)
}

func (r *recorder) types() []events.Type {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.Type, 0, len(r.got))
	for _, e := range r.got {
		out = append(out, e.Type)
	}
	return out
}

type fixture struct {
	ctx   context.Context
	store *memory.Store
	host  *fakeHost
	pub   *recorder
	svc   *Services
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := memory.New()
	f := &fixture{
		ctx:   context.Background(),
		store: st,
		host:  &fakeHost{},
		pub:   &recorder{},
	}
	f.svc = New(Deps{
		Stores: Stores{
			Users:       st.Users(),
			Communities: st.Communities(),
			Posts:       st.Posts(),
			Comments:    st.Comments(),
			Votes:       st.Votes(),
			Refs:        st.Refs(),
			Tx:          database.NewTxRunner(nil, false),
		},
		Host:   f.host,
		Cache:  cache.NewLocal(4, time.Minute),
		Events: f.pub,
		Media: settings.MediaConfig{
			PostsFolder:     "reddit/posts",
			CommunityFolder: "reddit/community",
		},
		RecentLimit: 3,
	})
	return f
}

var pngBytes = []byte("\x89PNG\r\n\x1a\n")

// staged drops a file into a temp staging dir the way the stager would.
func (f *fixture) staged(t *testing.T) *media.Staged {
	t.Helper()
	path := filepath.Join(t.TempDir(), "upload.png")
	require.NoError(t, os.WriteFile(path, pngBytes, 0o644))
	return &media.Staged{Path: path, ContentType: "image/png", Size: int64(len(pngBytes))}
}

func (f *fixture) user(t *testing.T, email, username string) *models.User {
	t.Helper()
	u, err := f.svc.Users.Create(f.ctx, &models.ParamCreateUser{Email: email, Username: username})
	require.NoError(t, err)
	return u
}

func (f *fixture) community(t *testing.T, author *models.User, name string) *models.Community {
	t.Helper()
	c, err := f.svc.Communities.Create(f.ctx, &models.ParamCreateCommunity{
		Name:        name,
		Description: "a place to talk about " + name,
		Email:       author.Email,
	}, f.staged(t))
	require.NoError(t, err)
	return c
}

func (f *fixture) post(t *testing.T, author *models.User, c *models.Community, title string) *models.Post {
	t.Helper()
	p, err := f.svc.Posts.Create(f.ctx, &models.ParamCreatePost{
		Title:       title,
		Email:       author.Email,
		CommunityID: c.ID.Hex(),
	}, f.staged(t))
	require.NoError(t, err)
	return p
}
