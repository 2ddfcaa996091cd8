package handlers

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-account-service/internal/application"
	"github.com/oksasatya/go-account-service/internal/domain/entity"
	"github.com/oksasatya/go-account-service/pkg/apperror"
	"github.com/oksasatya/go-account-service/pkg/validation"
)

// AuthUsecase is implemented by *application.AuthService.
type AuthUsecase interface {
	Register(ctx context.Context, email, password string) error
	Verify(ctx context.Context, token string) (application.TokenPair, error)
	Login(ctx context.Context, email, password string) (application.TokenPair, error)
	Refresh(ctx context.Context, userID, sessionID string) (application.TokenPair, error)
	Logout(ctx context.Context, userID, sessionID string) error
}

// ProfileUsecase is implemented by *application.ProfileService.
type ProfileUsecase interface {
	GetMe(ctx context.Context, userID string) (entity.Profile, error)
	Setup(ctx context.Context, userID, name, username string) (entity.Profile, error)
	UpdateUsername(ctx context.Context, userID, username string) error
	UpdateName(ctx context.Context, userID, name string) error
	UpdateAvatar(ctx context.Context, userID string, size int64, data []byte) (string, error)
	Search(ctx context.Context, q string, size int) ([]entity.Profile, error)
}

// bindJSON binds the body into dst; on failure the 422 is queued for the error handler.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		abortWith(c, unprocessable(err))
		return false
	}
	return true
}

func unprocessable(err error) error {
	return apperror.UnprocessableEntity("", validation.ToDetails(err)).WithCause(err)
}

func abortWith(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// trimmed drops surrounding whitespace while decoding, before binding tags run.
type trimmed string

func (t *trimmed) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*t = trimmed(strings.TrimSpace(s))
	return nil
}

func (t trimmed) String() string { return string(t) }
