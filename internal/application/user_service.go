package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-account-service/internal/domain/entity"
	"github.com/oksasatya/go-account-service/internal/domain/repository"
	"github.com/oksasatya/go-account-service/pkg/apperror"
	"github.com/oksasatya/go-account-service/pkg/helpers"
	"github.com/oksasatya/go-account-service/pkg/validation"
)

// UserService holds the operator-side account operations.
type UserService struct {
	store  repository.Store
	hasher *helpers.PasswordHasher
	logger *logrus.Logger
	now    func() time.Time
}

func NewUserService(store repository.Store, hasher *helpers.PasswordHasher, logger *logrus.Logger) *UserService {
	return &UserService{store: store, hasher: hasher, logger: logger, now: time.Now}
}

// FindByEmail looks a user up by (normalized) email.
func (s *UserService) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	u, err := s.store.Users().GetByEmail(ctx, NormalizeEmail(email))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.NotFound(msgUserNotFound)
	}
	return u, err
}

// Provision creates an already verified account, or returns the existing one.
func (s *UserService) Provision(ctx context.Context, email, password, name, username string) (*entity.User, bool, error) {
	email = NormalizeEmail(email)
	if u, err := s.store.Users().GetByEmail(ctx, email); err == nil {
		return u, false, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, false, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, false, hashError(err)
	}
	id, err := uuid.NewV7()
	if err != nil {
		return nil, false, err
	}
	now := s.now()
	u := &entity.User{ID: id.String(), Email: email, Name: name, Username: username, PasswordHash: hash, VerifiedAt: &now}
	if err := s.store.Users().Create(ctx, u); err != nil {
		return nil, false, fmt.Errorf("create user: %w", err)
	}
	return u, true, nil
}

func (s *UserService) Suspend(ctx context.Context, userID string) error {
	now := s.now()
	if err := s.setSuspended(ctx, userID, &now); err != nil {
		return err
	}
	s.logger.WithField("user_id", userID).Info("user suspended")
	return nil
}

func (s *UserService) Unsuspend(ctx context.Context, userID string) error {
	if err := s.setSuspended(ctx, userID, nil); err != nil {
		return err
	}
	s.logger.WithField("user_id", userID).Info("user unsuspended")
	return nil
}

func (s *UserService) setSuspended(ctx context.Context, userID string, at *time.Time) error {
	err := s.store.Users().SetSuspended(ctx, userID, at)
	if errors.Is(err, repository.ErrNotFound) {
		return apperror.NotFound(msgUserNotFound)
	}
	return err
}

// UpdatePassword replaces the password hash and stamps password_updated_at.
func (s *UserService) UpdatePassword(ctx context.Context, userID, password string) error {
	if !validation.StrongPassword(password) {
		return apperror.UnprocessableEntity("", map[string]string{"password": "password is not strong enough"})
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return hashError(err)
	}
	err = s.store.Users().UpdatePassword(ctx, userID, hash, s.now())
	if errors.Is(err, repository.ErrNotFound) {
		return apperror.NotFound(msgUserNotFound)
	}
	return err
}
