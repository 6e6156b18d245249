package routes

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xyz-asif/todoapi/internal/config"
	"github.com/xyz-asif/todoapi/internal/features/todos"
	"github.com/xyz-asif/todoapi/internal/logging"
	"github.com/xyz-asif/todoapi/internal/middleware"
	"github.com/xyz-asif/todoapi/internal/pkg/ratelimit"
	"github.com/xyz-asif/todoapi/internal/pkg/response"
)

const APIPrefix = "/api/v1"

// NewRouter builds the engine with the middleware stack. Order matters:
// recovery is outermost, the access log sees the final status, and the
// error handler wraps everything that may fail a request.
func NewRouter(cfg *config.Config, logger logging.Logger) *gin.Engine {
	router := gin.New()
	router.HandleMethodNotAllowed = true

	router.Use(response.Recovery(logger, cfg.IsDevelopment()))
	router.Use(middleware.Logger(logger))
	router.Use(response.ErrorHandler(logger, cfg.IsDevelopment()))
	router.Use(middleware.CORS(cfg.FrontendURL))
	router.Use(middleware.TrustedHosts(cfg.AllowedHosts))

	router.NoRoute(response.NoRoute)
	router.NoMethod(response.NoMethod)

	return router
}

// SetupRoutes mounts the health check and the versioned API. Background
// workers started here stop when ctx is done.
func SetupRoutes(ctx context.Context, router *gin.Engine, cfg *config.Config, db *sql.DB, logger logging.Logger) {
	router.GET("/health", Health(db))

	api := router.Group(APIPrefix)
	if cfg.RateLimit > 0 {
		limiter := ratelimit.New(cfg.RateLimit, time.Minute)
		limiter.StartCleanup(ctx, 5*time.Minute)
		api.Use(ratelimit.Middleware(limiter))
	}

	todos.RegisterRoutes(api, db, logger)
}

type pinger interface {
	PingContext(ctx context.Context) error
}

// Health reports liveness and whether the database answers a ping.
func Health(db pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		code, status, dbStatus := http.StatusOK, "ok", "ok"
		if err := db.PingContext(ctx); err != nil {
			code, status, dbStatus = http.StatusServiceUnavailable, "degraded", "unavailable"
		}

		c.JSON(code, gin.H{
			"status":   status,
			"database": dbStatus,
			"time":     time.Now().Unix(),
		})
	}
}
