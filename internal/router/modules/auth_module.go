package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/go-account-service/internal/interface/http"
	"github.com/oksasatya/go-account-service/internal/interface/middleware"
	"github.com/oksasatya/go-account-service/pkg/helpers"
)

// AuthModule wires registration, verification and session routes.
// Public: POST /api/auth/register, GET /api/auth/verify/:token, POST /api/auth/login
// Access token: POST /api/auth/setup
// Refresh token: POST /api/auth/refresh, POST /api/auth/logout
type AuthModule struct {
	Handler *handlers.AuthHandler
	JWT     *helpers.JWTManager
	RDB     *redis.Client // nil disables rate limiting
}

func NewAuthModule(h *handlers.AuthHandler, jwt *helpers.JWTManager, rdb *redis.Client) *AuthModule {
	return &AuthModule{Handler: h, JWT: jwt, RDB: rdb}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	registerLimiter := middleware.RateLimit(m.RDB, 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	verifyLimiter := middleware.RateLimit(m.RDB, 30, time.Minute, middleware.KeyByIPAndPath(), nil)
	loginLimiter := middleware.RateLimit(m.RDB, 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	refreshLimiter := middleware.RateLimit(m.RDB, 60, time.Minute, middleware.KeyByIPAndPath(), nil)

	auth := rg.Group("/auth")
	auth.POST("/register", registerLimiter, m.Handler.Register)
	auth.GET("/verify/:token", verifyLimiter, m.Handler.Verify)
	auth.POST("/login", loginLimiter, m.Handler.Login)
	auth.POST("/setup", middleware.TokenGuard(m.JWT), m.Handler.Setup)
	auth.POST("/refresh", refreshLimiter, middleware.RefreshGuard(m.JWT), m.Handler.Refresh)
	auth.POST("/logout", middleware.RefreshGuard(m.JWT), m.Handler.Logout)
}
