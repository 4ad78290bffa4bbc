package logic

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/singleflight"

	"reddit/apperr"
	"reddit/events"
	"reddit/media"
	"reddit/models"
)

type PostService struct {
	users       UserStore
	communities CommunityStore
	posts       PostStore
	linker      *Linker
	tx          TxRunner
	host        media.Host
	recent      *recentPosts
	pub         events.Publisher
	folder      string
	recentLimit int64

	group singleflight.Group
}

func NewPostService(d Deps) *PostService {
	d.fill()
	return &PostService{
		users:       d.Users,
		communities: d.Communities,
		posts:       d.Posts,
		linker:      NewLinker(d.Refs),
		tx:          d.Tx,
		host:        d.Host,
		recent:      d.recent,
		pub:         d.Events,
		folder:      d.Media.PostsFolder,
		recentLimit: int64(d.RecentLimit),
	}
}

// Create uploads the staged media and stores the post under its community.
// staged is released on every path.
func (s *PostService) Create(ctx context.Context, p *models.ParamCreatePost, staged *media.Staged) (*models.Post, error) {
	defer staged.Release()

	title := strings.TrimSpace(p.Title)
	if title == "" {
		return nil, apperr.Invalid("Title is required")
	}
	communityID, err := ParseID(p.CommunityID)
	if err != nil {
		return nil, err
	}
	if staged == nil {
		return nil, errors.WithStack(apperr.ErrFileRequired)
	}

	author, err := s.users.FindByEmail(ctx, strings.TrimSpace(p.Email))
	if err != nil {
		return nil, err
	}
	if _, err := s.communities.FindByID(ctx, communityID); err != nil {
		return nil, err
	}

	asset, err := s.host.Upload(ctx, staged, s.folder)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	post := &models.Post{
		ID:            primitive.NewObjectID(),
		Title:         title,
		Content:       strings.TrimSpace(p.Description),
		ImageURL:      asset.URL,
		ImagePublicID: asset.PublicID,
		ResourceType:  asset.ResourceType,
		CommunityID:   communityID,
		AuthorID:      author.ID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	err = s.tx.RunInTx(ctx, "create post", func(ctx context.Context) error {
		if err := s.posts.Create(ctx, post); err != nil {
			return err
		}
		return s.linker.LinkChild(ctx, post.ID,
			models.UserRef(author.ID, models.FieldPosts),
			models.CommunityRef(communityID))
	})
	if err != nil {
		destroy(ctx, s.host, asset)
		return nil, err
	}

	s.invalidate(ctx)
	s.pub.Publish(events.Event{Type: events.PostCreated, Payload: events.PostCreatedPayload{
		PostID:      post.ID.Hex(),
		CommunityID: communityID.Hex(),
		AuthorID:    author.ID.Hex(),
		Title:       post.Title,
		ImageURL:    post.ImageURL,
		CreatedAt:   post.CreatedAt,
	}})
	return post, nil
}

// Edit changes title and/or content. Only the author may edit.
func (s *PostService) Edit(ctx context.Context, requesterID, postID primitive.ObjectID, p *models.ParamEditPost) (*models.Post, error) {
	if p.Title == nil && p.Content == nil {
		return nil, errors.WithStack(apperr.ErrNothingToEdit)
	}
	edit := models.PostEdit{EditedAt: time.Now().UTC()}
	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if title == "" {
			return nil, apperr.Invalid("Title must not be empty")
		}
		edit.Title = &title
	}
	if p.Content != nil {
		content := strings.TrimSpace(*p.Content)
		edit.Content = &content
	}

	if _, err := s.ownedPost(ctx, requesterID, postID); err != nil {
		return nil, err
	}
	post, err := s.posts.Update(ctx, postID, edit)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return post, nil
}

// Delete removes the post and its back-references. The remote media goes
// first, best-effort. Comments and votes on the post are kept.
func (s *PostService) Delete(ctx context.Context, requesterID, postID primitive.ObjectID) error {
	post, err := s.ownedPost(ctx, requesterID, postID)
	if err != nil {
		return err
	}

	if post.ImageURL != "" || post.ImagePublicID != "" {
		destroy(ctx, s.host, media.Asset{URL: post.ImageURL, PublicID: post.ImagePublicID, ResourceType: post.ResourceType})
	}

	err = s.tx.RunInTx(ctx, "delete post", func(ctx context.Context) error {
		err := s.linker.UnlinkChild(ctx, post.ID,
			models.UserRef(post.AuthorID, models.FieldPosts),
			models.CommunityRef(post.CommunityID))
		if err != nil {
			return err
		}
		return s.posts.Delete(ctx, post.ID)
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx)
	s.pub.Publish(events.Event{Type: events.PostDeleted, Payload: events.PostDeletedPayload{
		PostID:      post.ID.Hex(),
		CommunityID: post.CommunityID.Hex(),
	}})
	return nil
}

func (s *PostService) ownedPost(ctx context.Context, requesterID, postID primitive.ObjectID) (*models.Post, error) {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != requesterID {
		return nil, errors.WithStack(apperr.ErrNotPostAuthor)
	}
	return post, nil
}

func (s *PostService) ListByCommunity(ctx context.Context, communityID primitive.ObjectID) ([]*models.PostView, error) {
	if _, err := s.communities.FindByID(ctx, communityID); err != nil {
		return nil, err
	}
	return s.posts.List(ctx, models.PostFilter{CommunityID: communityID}, 0, 0)
}

// List returns one page of all posts, newest first, and the total count.
func (s *PostService) List(ctx context.Context, page models.Page) ([]*models.PostView, int64, error) {
	page = page.Normalize()
	posts, err := s.posts.List(ctx, models.PostFilter{}, page.Skip(), page.Limit)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.posts.Count(ctx, models.PostFilter{})
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (s *PostService) Get(ctx context.Context, id primitive.ObjectID) (*models.PostView, error) {
	return s.posts.FindView(ctx, id)
}

// Recent serves the newest posts from cache. Concurrent misses share one
// store query.
func (s *PostService) Recent(ctx context.Context) ([]*models.PostView, error) {
	if posts, ok := s.recent.get(ctx); ok {
		return posts, nil
	}

	v, err, _ := s.group.Do("recent", func() (interface{}, error) {
		gen := s.recent.generation()
		posts, err := s.posts.List(ctx, models.PostFilter{}, 0, s.recentLimit)
		if err != nil {
			return nil, err
		}
		s.recent.fill(ctx, gen, posts)
		return posts, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]*models.PostView), nil
}

var dateLayouts = []string{time.RFC3339, "2006-01-02"}

// CreatedSince lists posts created at or after date, ErrNoPostsFound when
// there are none.
func (s *PostService) CreatedSince(ctx context.Context, date string) ([]*models.PostView, error) {
	since, err := parseDate(date)
	if err != nil {
		return nil, err
	}
	posts, err := s.posts.List(ctx, models.PostFilter{CreatedSince: since}, 0, 0)
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, errors.WithStack(apperr.ErrNoPostsFound)
	}
	return posts, nil
}

func parseDate(date string) (time.Time, error) {
	date = strings.TrimSpace(date)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, date); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, apperr.Invalid("Invalid date")
}

func (s *PostService) invalidate(ctx context.Context) {
	s.recent.invalidate(ctx)
}
