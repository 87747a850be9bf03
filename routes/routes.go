package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gotours/internal/config"
	"gotours/internal/handlers"
	"gotours/internal/middleware"
	"gotours/internal/repositories/interfaces"
	"gotours/internal/utils"
	"gotours/pkg/logger"
)

// Handlers bundles everything the router needs.
type Handlers struct {
	Auth   *handlers.AuthHandler
	Tour   *handlers.TourHandler
	User   *handlers.UserHandler
	Review *handlers.ReviewHandler
}

// Setup builds the gin engine with the global middleware chain and
// every API route mounted under /api/v1.
func Setup(cfg *config.Config, log *logger.Logger, h *Handlers, userRepo interfaces.UserRepository, limiter middleware.RateLimitStore) *gin.Engine {
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.ErrorHandler(log, cfg.App.IsDevelopment()))
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CORS(cfg.Security.CORSAllowedOrigins))

	protect := middleware.Protect(userRepo, cfg.Security.JWTSecret)

	api := router.Group("/api/v1")
	api.Use(middleware.BodySizeLimit(utils.MaxBodyBytes))
	if limiter != nil {
		api.Use(middleware.RateLimit(limiter, log, cfg.Security.RateLimitRequests, cfg.Security.RateLimitWindow))
	}
	{
		SetupTourRoutes(api, h.Tour, h.Review, protect)
		SetupUserRoutes(api, h.Auth, h.User, protect)
		SetupReviewRoutes(api, h.Review, protect)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"name":    cfg.App.Name,
			"version": cfg.App.Version,
		})
	})

	router.NoRoute(middleware.NotFoundHandler())

	return router
}
