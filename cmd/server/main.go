package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/99minutos/backend-boilerplate/internal/api"
	"github.com/99minutos/backend-boilerplate/internal/api/handler"
	"github.com/99minutos/backend-boilerplate/internal/core/service"
	"github.com/99minutos/backend-boilerplate/internal/infrastructure/config"
	mongodb "github.com/99minutos/backend-boilerplate/internal/infrastructure/db/mongo"
	redisdb "github.com/99minutos/backend-boilerplate/internal/infrastructure/db/redis"
	"github.com/99minutos/backend-boilerplate/pkg/logger"
)

const serviceName = "users-api"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", serviceName, err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: serviceName,
		Env:     cfg.Env,
	})

	// --- Infrastructure ---
	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		Timeout:  cfg.Mongo.Timeout,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect failed")
		}
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		Timeout:  cfg.Redis.Timeout,
	})
	if err != nil {
		return err
	}
	defer rdb.Close()

	users := mongodb.NewUserRepository(db, logger.Component("repository"))
	if err := users.EnsureIndexes(ctx); err != nil {
		return err
	}

	// --- Services / HTTP ---
	userService := service.NewUserService(
		users,
		redisdb.NewStatsCache(rdb, cfg.Redis.StatsTTL),
		service.Pagination{DefaultLimit: cfg.Pagination.DefaultLimit, MaxLimit: cfg.Pagination.MaxLimit},
		logger.Component("user_service"),
	)

	e := api.NewRouter(api.Dependencies{
		Users:  userService,
		Checks: []handler.DependencyCheck{handler.MongoCheck(db), handler.RedisCheck(rdb)},
		Logger: logger.Component("http"),
	})

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}

	log.Info().Msg("server stopped")
	return nil
}
