package services

import (
	"context"

	"github.com/alphafinance/backend/internal/errs"
	"github.com/alphafinance/backend/internal/models"
	"github.com/alphafinance/backend/pkg/logger"
)

type userUSStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	UpdateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, uid string) (*models.User, error)
}

type userService struct {
	store userUSStore
}

func NewUserService(store userUSStore) *userService {
	return &userService{store: store}
}

// Register creates the profile document for an authenticated identity.
func (s *userService) Register(ctx context.Context, uid, username, email string) (*models.User, error) {
	if username == "" {
		return nil, errs.NewValidationError("username is required")
	}

	user := &models.User{
		UID:      uid,
		Username: username,
		Email:    email,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("user registered", "username", username)
	return user, nil
}

func (s *userService) Get(ctx context.Context, uid string) (*models.User, error) {
	return s.store.GetUser(ctx, uid)
}

func (s *userService) Update(ctx context.Context, uid, username, email string) (*models.User, error) {
	user, err := s.store.GetUser(ctx, uid)
	if err != nil {
		return nil, err
	}
	if username != "" {
		user.Username = username
	}
	if email != "" {
		user.Email = email
	}
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
