package logic

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"reddit/apperr"
	"reddit/logger"
	"reddit/media"
	"reddit/models"
)

const (
	communityNameMin = 3
	communityNameMax = 21
	communityDescMin = 10
	communityDescMax = 500
	searchLimit      = 5
)

type CommunityService struct {
	users       UserStore
	communities CommunityStore
	host        media.Host
	folder      string
}

func NewCommunityService(d Deps) *CommunityService {
	d.fill()
	return &CommunityService{
		users:       d.Users,
		communities: d.Communities,
		host:        d.Host,
		folder:      d.Media.CommunityFolder,
	}
}

// Create releases staged whatever the outcome. Nothing is uploaded unless
// the author exists and the name is free.
func (s *CommunityService) Create(ctx context.Context, p *models.ParamCreateCommunity, staged *media.Staged) (*models.Community, error) {
	defer staged.Release()

	p.Trim()
	if err := validateCommunity(p); err != nil {
		return nil, err
	}
	if staged == nil {
		return nil, errors.WithStack(apperr.ErrFileRequired)
	}

	author, err := s.users.FindByEmail(ctx, p.Email)
	if err != nil {
		return nil, err
	}
	taken, err := s.communities.ExistsByName(ctx, p.Name)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, errors.WithStack(apperr.ErrCommunityExists)
	}

	asset, err := s.host.Upload(ctx, staged, s.folder)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	c := &models.Community{
		Name:          p.Name,
		Description:   p.Description,
		ImageURL:      asset.URL,
		ImagePublicID: asset.PublicID,
		AuthorID:      author.ID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.communities.Create(ctx, c); err != nil {
		// lost a race for the name, or the write failed: the asset is unreferenced
		destroy(ctx, s.host, asset)
		return nil, err
	}
	return c, nil
}

func validateCommunity(p *models.ParamCreateCommunity) error {
	if n := utf8.RuneCountInString(p.Name); n < communityNameMin || n > communityNameMax {
		return apperr.Invalid("Community name must be between 3 and 21 characters")
	}
	if n := utf8.RuneCountInString(p.Description); n < communityDescMin || n > communityDescMax {
		return apperr.Invalid("Description must be between 10 and 500 characters")
	}
	return nil
}

func (s *CommunityService) ListByEmail(ctx context.Context, email string) ([]*models.Community, error) {
	u, err := s.users.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, err
	}
	return s.communities.ListByAuthor(ctx, u.ID)
}

func (s *CommunityService) Get(ctx context.Context, id primitive.ObjectID) (*models.Community, error) {
	return s.communities.FindByID(ctx, id)
}

// Search returns up to five communities whose name contains query,
// ignoring case.
func (s *CommunityService) Search(ctx context.Context, query string) ([]*models.CommunitySummary, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperr.Invalid("Search query is required")
	}
	return s.communities.Search(ctx, query, searchLimit)
}

// UpdateImage swaps the community image. The old asset is removed only after
// the new URL is stored, and a failure to remove it is logged.
func (s *CommunityService) UpdateImage(ctx context.Context, id primitive.ObjectID, staged *media.Staged) (*models.Community, error) {
	defer staged.Release()

	if staged == nil {
		return nil, errors.WithStack(apperr.ErrFileRequired)
	}
	c, err := s.communities.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	asset, err := s.host.Upload(ctx, staged, s.folder)
	if err != nil {
		return nil, err
	}
	if err := s.communities.UpdateImage(ctx, id, asset.URL, asset.PublicID); err != nil {
		destroy(ctx, s.host, asset)
		return nil, err
	}

	if c.ImageURL != "" || c.ImagePublicID != "" {
		destroy(ctx, s.host, media.Asset{URL: c.ImageURL, PublicID: c.ImagePublicID, ResourceType: "image"})
	}
	c.ImageURL = asset.URL
	c.ImagePublicID = asset.PublicID
	return c, nil
}

// destroy removes a remote asset best-effort.
func destroy(ctx context.Context, host media.Host, a media.Asset) {
	if err := host.Destroy(ctx, a); err != nil {
		logger.Errorf("logic: destroy media %s (%s): %v", a.PublicID, a.URL, err)
	}
}
