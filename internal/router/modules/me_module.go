package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/go-account-service/internal/interface/http"
	"github.com/oksasatya/go-account-service/internal/interface/middleware"
	"github.com/oksasatya/go-account-service/pkg/helpers"
)

// MeModule serves the signed-in user's own profile under /api/me.
type MeModule struct {
	Handler *handlers.MeHandler
	JWT     *helpers.JWTManager
	RDB     *redis.Client
}

func NewMeModule(h *handlers.MeHandler, jwt *helpers.JWTManager, rdb *redis.Client) *MeModule {
	return &MeModule{Handler: h, JWT: jwt, RDB: rdb}
}

func (m *MeModule) Register(rg *gin.RouterGroup) {
	me := rg.Group("/me")
	me.Use(
		middleware.TokenGuard(m.JWT),
		middleware.RateLimit(m.RDB, 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		me.GET("", m.Handler.Get)
		me.PATCH("/username", m.Handler.UpdateUsername)
		me.PATCH("/name", m.Handler.UpdateName)
		me.PATCH("/avatar", middleware.RateLimit(m.RDB, 10, time.Minute, middleware.KeyByUserID(), nil), m.Handler.UpdateAvatar)
	}
}
