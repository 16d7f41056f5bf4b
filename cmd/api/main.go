package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/berneytech/helpdesk/internal/api"
	"github.com/berneytech/helpdesk/internal/infrastructure/billing"
	"github.com/berneytech/helpdesk/internal/infrastructure/config"
	mongodb "github.com/berneytech/helpdesk/internal/infrastructure/db/mongo"
	redisdb "github.com/berneytech/helpdesk/internal/infrastructure/db/redis"
	"github.com/berneytech/helpdesk/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, db, err := mongodb.Connect(ctx, cfg.Mongo, log)
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongodb disconnect failed")
		}
	}()

	rdb, err := redisdb.Connect(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("redis close failed")
		}
	}()

	sessionStore := mongodb.NewSessionStore(db, []byte(cfg.Session.Secret), cfg.Session.TTL, cfg.Session.SecureCookies)

	if err := ensureIndexes(ctx, db, sessionStore); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}

	stripeProvider := billing.NewStripeProvider(cfg.Stripe.APIKey)

	e := api.NewRouter(cfg, db, rdb, stripeProvider, sessionStore, log)

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting helpdesk api")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
}

// ensureIndexes creates the indexes the repositories and the session TTL
// reaper depend on. Idempotent; runs once per startup.
func ensureIndexes(ctx context.Context, db *mongo.Database, store *mongodb.SessionStore) error {
	if err := mongodb.NewTicketRepository(db).EnsureIndexes(ctx); err != nil {
		return err
	}
	if err := mongodb.NewMessageRepository(db).EnsureIndexes(ctx); err != nil {
		return err
	}
	return store.EnsureIndexes(ctx)
}
