package logic

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"reddit/apperr"
	"reddit/models"
)

type UserService struct {
	users UserStore
}

func NewUserService(d Deps) *UserService {
	return &UserService{users: d.Users}
}

func (s *UserService) Create(ctx context.Context, p *models.ParamCreateUser) (*models.User, error) {
	email := strings.TrimSpace(p.Email)
	username := strings.TrimSpace(p.Username)
	if email == "" || username == "" {
		return nil, apperr.Invalid("Email and username are required")
	}

	// the unique index settles races; this gives the common case a clean answer
	_, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return nil, errors.WithStack(apperr.ErrUserExists)
	}
	if !errors.Is(err, apperr.ErrUserNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	u := &models.User{
		Email:     email,
		Username:  username,
		ImageURL:  p.ImageURL,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) Get(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.users.FindByID(ctx, id)
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.users.FindByEmail(ctx, strings.TrimSpace(email))
}
