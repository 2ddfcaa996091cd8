package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/go-account-service/internal/interface/http"
	"github.com/oksasatya/go-account-service/internal/interface/middleware"
	"github.com/oksasatya/go-account-service/pkg/helpers"
)

type UsersModule struct {
	Handler *handlers.UserHandler
	JWT     *helpers.JWTManager
	RDB     *redis.Client
}

func NewUsersModule(h *handlers.UserHandler, jwt *helpers.JWTManager, rdb *redis.Client) *UsersModule {
	return &UsersModule{Handler: h, JWT: jwt, RDB: rdb}
}

func (m *UsersModule) Register(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	users.Use(
		middleware.TokenGuard(m.JWT),
		middleware.RateLimit(m.RDB, 60, time.Minute, middleware.KeyByUserID(), nil),
	)
	users.GET("/search", m.Handler.Search)
}
