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
	"go.uber.org/zap"

	"github.com/jengzang/routescore-backend-go/internal/api"
	"github.com/jengzang/routescore-backend-go/internal/config"
	"github.com/jengzang/routescore-backend-go/internal/database"
	"github.com/jengzang/routescore-backend-go/internal/logger"
	"github.com/jengzang/routescore-backend-go/internal/tuning"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer log.Sync()

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Default scoring preset
	params, err := tuning.LoadFileOrDefault(cfg.TuningFile)
	if err != nil {
		return err
	}

	// Initialize database
	if err := database.Init(database.Config{Path: cfg.DBPath}, log); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	handlers := api.NewHandlers(database.GetDB(), cfg, params, log)
	router := api.SetupRouter(ctx, cfg, handlers, log)

	srv := &http.Server{
		Addr:              cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", zap.String("addr", cfg.Port), zap.String("tuning_file", cfg.TuningFile))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ExtractionTimeout+5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
