package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/shiraDuek/OOP-EX1-2025-Ariel/internal/app"
	"github.com/shiraDuek/OOP-EX1-2025-Ariel/internal/config"
	"github.com/shiraDuek/OOP-EX1-2025-Ariel/internal/store"
	"github.com/shiraDuek/OOP-EX1-2025-Ariel/internal/web"
)

// main starts the Othello HTTP server.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	db, err := store.OpenSQLite(store.SQLiteConfig{
		Path:            cfg.DatabasePath,
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Hour,
	})
	if err != nil {
		logger.Fatal("open database", zap.String("path", cfg.DatabasePath), zap.Error(err))
	}
	defer db.Close()
	if err := store.EnsureSchema(ctx, db); err != nil {
		logger.Fatal("ensure schema", zap.Error(err))
	}

	svc := app.NewService(
		app.WithLogger(logger.Named("service")),
		app.WithRepository(store.NewSQLiteRecordRepository(db)),
		app.WithAllowance(cfg.Allowance),
	)

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: web.NewServer(svc, logger.Named("web")),
	}

	go func() {
		logger.Info("server started", zap.String("addr", "http://0.0.0.0:"+cfg.ServerPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger(level string) (*zap.Logger, error) {
	if level == "debug" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
