package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-account-service/internal/application"
	"github.com/oksasatya/go-account-service/internal/container"
	"github.com/oksasatya/go-account-service/internal/infrastructure/search"
	handlers "github.com/oksasatya/go-account-service/internal/interface/http"
	"github.com/oksasatya/go-account-service/internal/router/modules"
)

// Services groups the application services built from the container.
type Services struct {
	Auth     *application.AuthService
	Profiles *application.ProfileService
}

// BuildServices constructs the application services from container singletons.
func BuildServices() Services {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	store := container.GetStore()

	auth := application.NewAuthService(
		store,
		container.GetJWT(),
		container.GetHasher(),
		container.GetMailer(),
		logger,
		application.AuthConfig{RefreshTTL: cfg.RefreshTTL, VerifyEmailTTL: cfg.VerifyEmailTTL},
	)

	files := application.NewFileService(container.GetPublicBucket(), container.GetPrivateBucket())

	// a nil interface, not a typed nil, keeps search disabled
	var index application.ProfileIndex
	if es := container.GetES(); es != nil {
		index = search.NewUserIndex(es, cfg.ESUsersIndex)
	}
	profiles := application.NewProfileService(store, files, index, logger)

	return Services{Auth: auth, Profiles: profiles}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry, svc Services) {
	cfg := container.GetConfig()
	jwt := container.GetJWT()

	var rdb *redis.Client
	if cfg.RateLimitEnabled {
		rdb = container.GetRedis()
	}

	authHandler := handlers.NewAuthHandler(svc.Auth, svc.Profiles, container.GetCookies(), container.GetLogger())
	r.Add(modules.NewAuthModule(authHandler, jwt, rdb))
	r.Add(modules.NewMeModule(handlers.NewMeHandler(svc.Profiles), jwt, rdb))
	r.Add(modules.NewUsersModule(handlers.NewUserHandler(svc.Profiles), jwt, rdb))

	r.Add(ModuleFunc(func(rg *gin.RouterGroup) {
		rg.GET("/health", healthHandler)
	}))

	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(rdb))
	}
}

// healthHandler reports whether postgres answers within a second.
func healthHandler(c *gin.Context) {
	pool := container.GetPGPool()
	if pool == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "down"})
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "down"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
