package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/jewelrystore/pkg/cache"
	"github.com/example/jewelrystore/pkg/config"
	"github.com/example/jewelrystore/pkg/store"
	"github.com/example/jewelrystore/server"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	logger, err := newLogger(&cfg.Log)
	if err != nil {
		panic(fmt.Sprintf("Failed to create logger: %v", err))
	}
	defer logger.Sync()

	logger.Info("Starting Jewelry Store backend",
		zap.Int("port", cfg.Server.Port),
		zap.String("database", cfg.Mongo.Database))

	// The server starts even when the database is unreachable so the
	// diagnostic endpoint can report the failure.
	var st store.Store
	mongoStore, err := store.NewMongoStore(&cfg.Mongo)
	if err != nil {
		logger.Warn("Failed to connect to database, continuing without it", zap.Error(err))
	} else {
		st = mongoStore
	}

	productCache := cache.New(&cfg.Redis, logger)
	if productCache != nil {
		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := productCache.Ping(pingCtx); err != nil {
			logger.Warn("Redis unreachable, listings will not be cached", zap.Error(err))
		}
		cancel()
	}

	srv := server.New(cfg, logger, st, productCache)
	srv.SetupRoutes()

	srvErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			srvErr <- err
		}
	}()

	logger.Info("Server started successfully")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigCh:
		logger.Info("Received shutdown signal")
	case err := <-srvErr:
		logger.Fatal("Server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if st != nil {
		if err := st.Close(shutdownCtx); err != nil {
			logger.Warn("Failed to close store", zap.Error(err))
		}
	}
	if err := productCache.Close(); err != nil {
		logger.Warn("Failed to close cache", zap.Error(err))
	}

	logger.Info("Server stopped")
}

func newLogger(cfg *config.LogConfig) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if cfg.Level != "" {
		level, err := zap.ParseAtomicLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		zcfg.Level = level
	}
	return zcfg.Build()
}
