package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-account-service/pkg/apperror"
	"github.com/oksasatya/go-account-service/pkg/helpers"
)

const (
	CtxUserIDKey    = "userID"
	CtxSessionIDKey = "sessionID"
)

// TokenGuard requires a valid access token in the token cookie.
func TokenGuard(jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(helpers.AccessCookie)
		if err != nil || token == "" {
			fail(c, apperror.Forbidden("Data access not allowed"))
			return
		}
		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			fail(c, apperror.Unauthorized("Invalid token or session expired").WithCause(err))
			return
		}
		c.Set(CtxUserIDKey, claims.UserID)
		c.Next()
	}
}

// RefreshGuard requires a valid refresh token in the refreshToken cookie.
func RefreshGuard(jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(helpers.RefreshCookie)
		if err != nil || token == "" {
			fail(c, apperror.Forbidden("Refresh token not found"))
			return
		}
		claims, err := jwt.ParseRefreshToken(token)
		if err != nil {
			fail(c, apperror.Unauthorized("Invalid refresh token or session expired").WithCause(err))
			return
		}
		c.Set(CtxUserIDKey, claims.UserID)
		c.Set(CtxSessionIDKey, claims.SessionID)
		c.Next()
	}
}

// UserID returns the user id set by a guard.
func UserID(c *gin.Context) string { return c.GetString(CtxUserIDKey) }

// SessionID returns the session id set by RefreshGuard.
func SessionID(c *gin.Context) string { return c.GetString(CtxSessionIDKey) }

func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
