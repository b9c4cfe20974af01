package main

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4/middleware"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/inkwell/blog-api/internal/api"
	"github.com/inkwell/blog-api/internal/api/handler"
	apimiddleware "github.com/inkwell/blog-api/internal/api/middleware"
	"github.com/inkwell/blog-api/internal/core/service"
	"github.com/inkwell/blog-api/internal/infrastructure/config"
	"github.com/inkwell/blog-api/internal/infrastructure/db/mongo"
	"github.com/inkwell/blog-api/internal/infrastructure/db/redis"
	"github.com/inkwell/blog-api/internal/infrastructure/queue"
	"github.com/inkwell/blog-api/pkg/logger"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	}
}

func serve(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.IsDevelopment()})

	client, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		Timeout:  cfg.Mongo.Timeout,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect")
		}
	}()
	log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")

	if err := mongo.EnsureIndexes(ctx, db); err != nil {
		if errors.Is(err, mongo.ErrDuplicateUsernames) {
			log.Error().Err(err).Msg("deduplicate the users collection, then run \"blogapi indexes\"")
		}
		return err
	}

	checks := map[string]handler.DependencyCheck{
		"mongodb": func(ctx context.Context) error { return client.Ping(ctx, nil) },
	}

	store, rdb, err := rateLimitStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	if rdb != nil {
		defer rdb.Close()
		checks["redis"] = redis.Ping(rdb)
	}

	// --- Core services ---
	tokens := service.NewTokenService(cfg.JWTSecret, cfg.Auth.TokenTTL)
	authService := service.NewAuthService(mongo.NewUserRepository(db, cfg.Mongo.Timeout), tokens, cfg.Auth.BcryptCost, log)

	activity := service.NewActivityService(mongo.NewActivityRepository(db, cfg.Mongo.Timeout), log)
	dispatcher := queue.NewDispatcher(cfg.ActivityWorkers, activity, log)
	dispatcher.Start(context.WithoutCancel(ctx))
	defer dispatcher.Close()

	postService := service.NewPostService(mongo.NewPostRepository(db, cfg.Mongo.Timeout), dispatcher, log)

	e := api.NewRouter(api.Deps{
		Auth:           authService,
		Tokens:         tokens,
		Posts:          postService,
		Health:         checks,
		RateLimitStore: store,
		HTTP:           cfg.HTTP,
		Logger:         log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

// rateLimitStore picks the shared Redis limiter when REDIS_ADDR is set and the
// in-process one otherwise.
func rateLimitStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (middleware.RateLimiterStore, *goredis.Client, error) {
	if cfg.Redis.Addr == "" {
		log.Info().Msg("REDIS_ADDR not set, rate limiting in memory")
		return apimiddleware.MemoryRateLimitStore(cfg.Limits.Max, cfg.Limits.Window), nil, nil
	}

	rdb, err := redis.Connect(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, nil, err
	}
	log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to redis")
	return redis.NewRateLimitStore(rdb, cfg.Limits.Max, cfg.Limits.Window, log), rdb, nil
}
