// @title           Task Manager API
// @version         1.0
// @description     To-do list API with cookie sessions and shared default tasks.
// @host            localhost:8080
// @BasePath        /
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskmanager/internal/app"
	"taskmanager/internal/config"
	"taskmanager/internal/logging"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.New(os.Stdout, cfg.App.Env, cfg.App.LogLevel)
	if cfg.App.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "config loaded, connecting to DB and Redis", "env", cfg.App.Env)
	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "app init failed", "error", err)
		os.Exit(1)
	}

	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.HTTP.Port,
		Handler:      application.Router(),
		ReadTimeout:  cfg.HTTP.ReadTimeout.Duration(),
		WriteTimeout: cfg.HTTP.WriteTimeout.Duration(),
		IdleTimeout:  cfg.HTTP.IdleTimeout.Duration(),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info(ctx, "HTTP server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		logger.Error(ctx, "HTTP server error", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error(shutdownCtx, "HTTP shutdown", "error", err)
	}
	if err := application.Close(shutdownCtx); err != nil {
		logger.Error(shutdownCtx, "app close", "error", err)
	}
	logger.Info(shutdownCtx, "stopped")
}
