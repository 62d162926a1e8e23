package router

import (
	"padel-backend/internal/api/handlers"
	"padel-backend/internal/api/middleware"
	"padel-backend/internal/config"
	"padel-backend/internal/infrastructure/cache"
	"padel-backend/internal/infrastructure/repository"
	"padel-backend/internal/service"
	"padel-backend/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// NewRouter wires the repositories, the optional read-side cache and the
// registration service into the gin engine.
func NewRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(cors.Default())
	r.Use(gin.Recovery())

	cfg := config.Get()

	registrationRepo := repository.NewRegistrationRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	playerRepo := repository.NewPlayerRepository(db)

	var redisCache *cache.RedisCache
	var collaboratorCache service.CollaboratorCache
	if cfg.Cache.Enabled {
		redisCache = cache.NewRedisCacheWithConfig(&cfg.Cache)
		collaboratorCache = redisCache
		logger.Info("Collaborator cache enabled at %s:%d", cfg.Cache.Host, cfg.Cache.Port)
	} else {
		logger.Info("Collaborator cache disabled, lookups go straight to the database")
	}

	registrationService := service.NewRegistrationService(
		registrationRepo,
		categoryRepo,
		playerRepo,
		collaboratorCache,
		cfg.Registration,
	)

	registrationHandler := handlers.NewRegistrationHandler(registrationService)
	healthHandler := handlers.NewHealthHandler(db, redisCache)

	r.GET("/health", healthHandler.HealthCheck)
	r.GET("/ready", healthHandler.ReadinessCheck)
	r.GET("/live", healthHandler.LivenessCheck)

	v1 := r.Group("/api/v1")
	{
		registrations := v1.Group("/registrations")
		{
			registrations.GET("", registrationHandler.List)
			registrations.POST("", registrationHandler.Create)
			registrations.GET("/:id", registrationHandler.Get)
			registrations.PATCH("/:id", registrationHandler.Update)
			registrations.DELETE("/:id", registrationHandler.Delete)
		}
	}

	return r
}
