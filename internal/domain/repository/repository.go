package repository

import (
	"context"
	"errors"
	"time"

	"github.com/oksasatya/go-account-service/internal/domain/entity"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

// UserRepository defines the persistence operations on users.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	MarkVerified(ctx context.Context, id string, at time.Time) error
	SetSuspended(ctx context.Context, id string, at *time.Time) error
	UpdateName(ctx context.Context, id, name string) error
	UpdateUsername(ctx context.Context, id, username string) error
	UpdatePassword(ctx context.Context, id, hash string, at time.Time) error
	SetAvatar(ctx context.Context, id, fileID string) error
}

type SessionRepository interface {
	Create(ctx context.Context, s *entity.Session) error
	GetByIDAndUser(ctx context.Context, id, userID string) (*entity.Session, error)
	MarkInvoked(ctx context.Context, id string, at time.Time) error
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

type VerificationTokenRepository interface {
	Create(ctx context.Context, t *entity.VerificationToken) error
	Get(ctx context.Context, token string) (*entity.VerificationToken, error)
	Delete(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

type FileRepository interface {
	Create(ctx context.Context, f *entity.File) error
	GetByID(ctx context.Context, id string) (*entity.File, error)
}

// Store is the unit of work. Repositories obtained from the Store passed to
// WithTx's callback share one transaction; a nested WithTx joins it.
type Store interface {
	Users() UserRepository
	Sessions() SessionRepository
	VerificationTokens() VerificationTokenRepository
	Files() FileRepository
	WithTx(ctx context.Context, fn func(Store) error) error
}
