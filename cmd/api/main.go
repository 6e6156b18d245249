// ================== cmd/api/main.go ==================
//
// @title Todo list
// @version v1
// @description A backend api for a todo list app
// @host localhost:8080
// @BasePath /api/v1
// @schemes http
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	docs "github.com/xyz-asif/todoapi/docs"
	"github.com/xyz-asif/todoapi/internal/config"
	"github.com/xyz-asif/todoapi/internal/database"
	"github.com/xyz-asif/todoapi/internal/logging"
	"github.com/xyz-asif/todoapi/internal/routes"
	apperrors "github.com/xyz-asif/todoapi/pkg/errors"
)

func main() {
	cfg := config.Load()

	logger := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})

	err := run(cfg, logger)
	if err != nil {
		logger.Error(context.Background(), "Error during server startup", "error", err)
	}
	logger.Info(context.Background(), "Server has been stopped.")

	// flush before exiting
	_ = logger.Close()
	if err != nil {
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger logging.Logger) error {
	ctx := context.Background()
	logger.Info(ctx, "Server is starting...", "env", cfg.Env, "port", cfg.Port)

	// Configure Swagger metadata at runtime
	docs.SwaggerInfo.Host = "localhost:" + cfg.Port
	docs.SwaggerInfo.BasePath = routes.APIPrefix
	docs.SwaggerInfo.Schemes = []string{"http"}

	db, err := database.Connect(cfg.DSN())
	if err != nil {
		return apperrors.Database(err)
	}
	defer db.Close()

	if err := db.RunMigrations(ctx); err != nil {
		return apperrors.Database(err)
	}
	logger.Info(ctx, "Database initialized successfully.")

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := routes.NewRouter(cfg, logger)

	if !cfg.IsProduction() {
		router.GET(
			"/swagger/*any",
			ginSwagger.WrapHandler(
				swaggerFiles.Handler,
				ginSwagger.URL("/swagger/doc.json"),
				ginSwagger.DeepLinking(true),
				ginSwagger.DefaultModelsExpandDepth(-1),
				ginSwagger.DocExpansion("none"),
			),
		)
	}

	workers, stopWorkers := context.WithCancel(ctx)
	defer stopWorkers()
	routes.SetupRoutes(workers, router, cfg, db.DB, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info(ctx, "Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
	case <-quit:
	}

	logger.Info(ctx, "Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	return nil
}
