package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-account-service/internal/domain/entity"
	"github.com/oksasatya/go-account-service/internal/domain/repository"
	"github.com/oksasatya/go-account-service/pkg/apperror"
)

// MaxAvatarSize is the largest accepted avatar upload.
const MaxAvatarSize = 1 << 20

const (
	msgFileTooLarge  = "File size is too large. Only files up to 1MB are allowed."
	msgFileType      = "Invalid file type. Only JPEG and PNG are allowed."
	msgUserNotFound  = "User not found"
	defaultPageSize  = 10
	maxSearchResults = 50
)

var avatarTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
}

// ProfileIndex mirrors profiles into a search backend. Optional.
type ProfileIndex interface {
	Index(ctx context.Context, u *entity.User) error
	Search(ctx context.Context, q string, size int) ([]entity.Profile, error)
}

type ProfileService struct {
	store  repository.Store
	files  *FileService
	index  ProfileIndex
	logger *logrus.Logger
}

// NewProfileService builds the service. index may be nil when search is disabled.
func NewProfileService(store repository.Store, files *FileService, index ProfileIndex, logger *logrus.Logger) *ProfileService {
	return &ProfileService{store: store, files: files, index: index, logger: logger}
}

func (s *ProfileService) GetMe(ctx context.Context, userID string) (entity.Profile, error) {
	u, err := s.getUser(ctx, s.store, userID)
	if err != nil {
		return entity.Profile{}, err
	}
	return u.Profile(), nil
}

// Setup sets name and username in one step after registration.
func (s *ProfileService) Setup(ctx context.Context, userID, name, username string) (entity.Profile, error) {
	name = strings.TrimSpace(name)
	username = strings.ToLower(strings.TrimSpace(username))

	var u *entity.User
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		if err := s.ensureUsernameFree(ctx, tx, userID, username); err != nil {
			return err
		}
		if err := tx.Users().UpdateName(ctx, userID, name); err != nil {
			return s.mapUpdateErr(err)
		}
		if err := tx.Users().UpdateUsername(ctx, userID, username); err != nil {
			return s.mapUpdateErr(err)
		}
		var err error
		u, err = s.getUser(ctx, tx, userID)
		return err
	})
	if err != nil {
		return entity.Profile{}, err
	}
	s.reindex(ctx, u)
	return u.Profile(), nil
}

func (s *ProfileService) UpdateUsername(ctx context.Context, userID, username string) error {
	username = strings.ToLower(strings.TrimSpace(username))
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		if err := s.ensureUsernameFree(ctx, tx, userID, username); err != nil {
			return err
		}
		return s.mapUpdateErr(tx.Users().UpdateUsername(ctx, userID, username))
	})
	if err != nil {
		return err
	}
	s.reindexByID(ctx, userID)
	return nil
}

func (s *ProfileService) UpdateName(ctx context.Context, userID, name string) error {
	if err := s.mapUpdateErr(s.store.Users().UpdateName(ctx, userID, strings.TrimSpace(name))); err != nil {
		return err
	}
	s.reindexByID(ctx, userID)
	return nil
}

// UpdateAvatar validates size and content type before anything is written,
// then uploads to the public bucket and points the user at the new file.
func (s *ProfileService) UpdateAvatar(ctx context.Context, userID string, size int64, data []byte) (string, error) {
	if size < int64(len(data)) {
		size = int64(len(data))
	}
	if size > MaxAvatarSize {
		return "", apperror.UnprocessableEntity(msgFileTooLarge, nil)
	}
	mime := mimetype.Detect(data)
	ext, ok := avatarTypes[mime.String()]
	if !ok {
		return "", apperror.UnprocessableEntity(msgFileType, nil)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	key := "avatars/" + id.String() + ext

	var url string
	err = s.store.WithTx(ctx, func(tx repository.Store) error {
		if _, err := s.getUser(ctx, tx, userID); err != nil {
			return err
		}
		f, err := s.files.UploadPublic(ctx, tx, userID, key, mime.String(), data)
		if err != nil {
			return err
		}
		if err := tx.Users().SetAvatar(ctx, userID, f.ID); err != nil {
			return fmt.Errorf("set avatar: %w", err)
		}
		url = f.URL
		return nil
	})
	if err != nil {
		return "", err
	}
	metricAvatarUploads.Add(1)
	s.logger.WithFields(logrus.Fields{"user_id": userID, "key": key}).Info("avatar updated")
	s.reindexByID(ctx, userID)
	return url, nil
}

// Search returns at most size profiles matching q. Empty when search is disabled.
func (s *ProfileService) Search(ctx context.Context, q string, size int) ([]entity.Profile, error) {
	q = strings.TrimSpace(q)
	if s.index == nil || q == "" {
		return []entity.Profile{}, nil
	}
	if size <= 0 || size > maxSearchResults {
		size = defaultPageSize
	}
	return s.index.Search(ctx, q, size)
}

func (s *ProfileService) ensureUsernameFree(ctx context.Context, tx repository.Store, userID, username string) error {
	owner, err := tx.Users().GetByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("lookup username: %w", err)
	}
	if owner.ID != userID {
		return apperror.Conflict("", map[string]string{"username": msgUsernameConflict})
	}
	return nil
}

func (s *ProfileService) mapUpdateErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrDuplicate):
		return apperror.Conflict("", map[string]string{"username": msgUsernameConflict})
	case errors.Is(err, repository.ErrNotFound):
		return apperror.NotFound(msgUserNotFound)
	default:
		return fmt.Errorf("update user: %w", err)
	}
}

func (s *ProfileService) getUser(ctx context.Context, store repository.Store, userID string) (*entity.User, error) {
	u, err := store.Users().GetByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.NotFound(msgUserNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	return u, nil
}

func (s *ProfileService) reindexByID(ctx context.Context, userID string) {
	if s.index == nil {
		return
	}
	u, err := s.store.Users().GetByID(ctx, userID)
	if err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Warn("reload for index failed")
		return
	}
	s.reindex(ctx, u)
}

func (s *ProfileService) reindex(ctx context.Context, u *entity.User) {
	if s.index == nil {
		return
	}
	if err := s.index.Index(ctx, u); err != nil {
		s.logger.WithError(err).WithField("user_id", u.ID).Warn("es index failed")
	}
}
