package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/retailcatalog/admin-console/internal/api"
	"github.com/retailcatalog/admin-console/internal/api/handler"
	"github.com/retailcatalog/admin-console/internal/core/listing"
	"github.com/retailcatalog/admin-console/internal/core/ports"
	"github.com/retailcatalog/admin-console/internal/core/service"
	"github.com/retailcatalog/admin-console/internal/core/session"
	"github.com/retailcatalog/admin-console/internal/infrastructure/catalogapi"
	"github.com/retailcatalog/admin-console/internal/infrastructure/db/memory"
	mongodb "github.com/retailcatalog/admin-console/internal/infrastructure/db/mongo"
	redisdb "github.com/retailcatalog/admin-console/internal/infrastructure/db/redis"
	"github.com/retailcatalog/admin-console/internal/pkg/config"
	"github.com/retailcatalog/admin-console/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "catalog-admin-console",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("console stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	repo, closeRepo, err := openSessionRepository(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeRepo()

	catalog, err := catalogapi.New(cfg.Catalog.BaseURL,
		catalogapi.WithTimeout(cfg.Catalog.Timeout),
		catalogapi.WithLogger(logger.Component("catalogapi")),
	)
	if err != nil {
		return err
	}

	tokens := service.NewTokenIssuer(cfg.Session.Secret, cfg.Session.TTL)
	auth := service.NewAuthService(catalog, tokens, logger.Component("auth"))

	screens := listing.NewRegistry(catalog, logger.Component("listing"))
	sessions := session.NewManager(repo, logger.Component("session"))
	sessions.OnEvict(screens.Drop)
	sessions.Start(ctx, time.Minute, cfg.Session.IdleTimeout)

	e, err := api.NewRouter(api.Deps{
		Auth:         auth,
		Sessions:     sessions,
		Tokens:       tokens,
		Screens:      screens,
		Logger:       logger.Component("http"),
		Dependencies: map[string]handler.Pinger{"sessions": repo},
		CookieSecure: cfg.Session.CookieSecure,
		SessionTTL:   cfg.Session.TTL,
	})
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("catalog_api", cfg.Catalog.BaseURL).
			Str("session_backend", cfg.Session.Backend).
			Msg("console listening")
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
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func openSessionRepository(ctx context.Context, cfg *config.Config, log zerolog.Logger) (ports.SessionRepository, func(), error) {
	switch cfg.Session.Backend {
	case config.BackendRedis:
		client, err := redisdb.Connect(ctx, redisdb.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, nil, err
		}
		return redisdb.NewSessionRepository(client, cfg.Session.TTL), func() {
			if err := client.Close(); err != nil {
				log.Warn().Err(err).Msg("redis close failed")
			}
		}, nil

	case config.BackendMongo:
		client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, nil, err
		}
		repo := mongodb.NewSessionRepository(db, cfg.Session.TTL)
		if err := repo.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, nil, err
		}
		return repo, func() {
			if err := client.Disconnect(context.Background()); err != nil {
				log.Warn().Err(err).Msg("mongo disconnect failed")
			}
		}, nil
	}

	log.Warn().Msg("sessions are kept in memory and will not survive a restart")
	return memory.NewSessionRepository(cfg.Session.TTL), func() {}, nil
}
