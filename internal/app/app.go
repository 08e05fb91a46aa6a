package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/httplog/v2"
	"golang.org/x/sync/errgroup"

	"github.com/akarpov/shortener/internal/config"
	"github.com/akarpov/shortener/internal/entity"
	"github.com/akarpov/shortener/internal/usecase"
	"github.com/akarpov/shortener/pkg/postgres"
	"github.com/akarpov/shortener/pkg/redis"

	delivery "github.com/akarpov/shortener/internal/adapter/delivery/http"
	postgresrepo "github.com/akarpov/shortener/internal/adapter/repository/postgres"
	redisrepo "github.com/akarpov/shortener/internal/adapter/repository/redis"
)

// urlRepository is the storage contract the wiring selects a backend for;
// both the Redis and the Postgres repository satisfy it.
type urlRepository interface {
	Save(ctx context.Context, originalURL string) (*entity.URL, error)
	RetrieveByShortCode(ctx context.Context, shortCode string) (*entity.URL, error)
}

func setupRepository(ctx context.Context, g *errgroup.Group, cfg *config.Config) (urlRepository, error) {
	const op = "app.setupRepository"

	switch cfg.Storage {
	case config.StoragePostgres:
		db, err := postgres.New(
			ctx,
			cfg.Postgres.DSN(),
			postgres.WithConnMaxIdleTime(cfg.Postgres.ConnMaxIdleTime),
			postgres.WithConnMaxLifetime(cfg.Postgres.ConnMaxLifetime),
			postgres.WithMaxIdleConns(cfg.Postgres.MaxIdleConns),
			postgres.WithMaxOpenConns(cfg.Postgres.MaxOpenConns),
		)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to connect to database: %w", op, err)
		}
		g.Go(func() error {
			<-ctx.Done()
			return db.Close()
		})

		if err := postgres.RunMigrations("file://migrations", cfg.Postgres.DSN()); err != nil {
			return nil, fmt.Errorf("%s: failed to run migrations: %w", op, err)
		}

		return postgresrepo.NewURLRepository(ctx, db, cfg.Counter.Key, cfg.Counter.Offset)
	default:
		client, err := redis.New(
			ctx,
			cfg.Redis.Addr(),
			redis.WithPassword(cfg.Redis.Password),
			redis.WithDB(cfg.Redis.DB),
			redis.WithDialTimeout(cfg.Redis.DialTimeout),
			redis.WithReadTimeout(cfg.Redis.ReadTimeout),
			redis.WithWriteTimeout(cfg.Redis.WriteTimeout),
			redis.WithPoolSize(cfg.Redis.PoolSize),
		)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to connect to redis: %w", op, err)
		}
		g.Go(func() error {
			<-ctx.Done()
			return client.Close()
		})

		return redisrepo.NewURLRepository(ctx, client, cfg.Counter.Key, cfg.Counter.Offset)
	}
}

func Run(ctx context.Context, cfg *config.Config) error {
	const op = "app.Run"

	g, ctx := errgroup.WithContext(ctx)

	urlRepo, err := setupRepository(ctx, g, cfg)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	urlUseCase := usecase.New(urlRepo)

	logger := httplog.NewLogger("shortener", httplog.Options{
		JSON:     cfg.Env == config.EnvProd,
		LogLevel: slog.LevelInfo,
		Concise:  cfg.Env != config.EnvProd,
	})

	r := delivery.NewRouter(logger, urlUseCase)

	server := &http.Server{
		Addr:           cfg.HTTPServer.Addr(),
		Handler:        r,
		ReadTimeout:    cfg.HTTPServer.ReadTimeout,
		WriteTimeout:   cfg.HTTPServer.WriteTimeout,
		IdleTimeout:    cfg.HTTPServer.IdleTimeout,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	g.Go(func() error {
		var err error

		switch cfg.Env {
		case config.EnvProd:
			err = server.ListenAndServeTLS(cfg.HTTPServer.CertFile, cfg.HTTPServer.KeyFile)
		default:
			err = server.ListenAndServe()
		}

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("%s: server error occurred: %w", op, err)
		}

		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		if err := server.Shutdown(context.Background()); err != nil {
			return fmt.Errorf("%s: failed to shutdown server: %w", op, err)
		}

		return nil
	})

	return g.Wait()
}
