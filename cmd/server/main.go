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

	"github.com/eventbook/server/internal/api"
	"github.com/eventbook/server/internal/config"
	"github.com/eventbook/server/internal/domain/events"
	"github.com/eventbook/server/internal/domain/users"
	"github.com/eventbook/server/internal/graph"
	mongostore "github.com/eventbook/server/internal/storage/mongo"
	"github.com/eventbook/server/internal/telemetry"
	"github.com/rs/zerolog"
)

const version = "0.1.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger := config.NewLogger(cfg.Logging)
	logger.Info().Str("version", version).Msg("starting eventbook server")

	ctx := context.Background()

	shutdownTracing, err := telemetry.InitTracing(ctx, cfg.Tracing, version)
	if err != nil {
		logger.Error().Err(err).Msg("failed to initialize tracing")
		os.Exit(1)
	}

	client, err := mongostore.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error().Err(err).Msg("database connection failed")
		os.Exit(1)
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Error().Err(err).Msg("mongo disconnect error")
		}
	}()

	db := client.Database(cfg.Database.Name)
	userRepo := mongostore.NewUserRepository(db)
	eventRepo := mongostore.NewEventRepository(db)

	indexCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	if err := userRepo.EnsureIndexes(indexCtx); err != nil {
		logger.Error().Err(err).Msg("index setup failed")
	}
	cancel()

	userSvc := users.NewService(userRepo, cfg.Auth.BcryptCost, logger)
	eventSvc := events.NewService(eventRepo, userRepo, mongostore.NewTxRunner(client), logger)

	resolver := graph.NewResolver(userSvc, eventSvc, logger)
	schema, err := graph.NewSchema(resolver)
	if err != nil {
		logger.Error().Err(err).Msg("schema construction failed")
		os.Exit(1)
	}

	graphqlHandler := graph.NewHandler(&schema, cfg.Environment != "production")

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           api.NewRouter(cfg, logger, graphqlHandler),
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		logger.Info().Str("addr", server.Addr).Msg("listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	shutdown(server, logger)

	if err := shutdownTracing(context.Background()); err != nil {
		logger.Error().Err(err).Msg("tracing shutdown error")
	}
}

func shutdown(server *http.Server, logger zerolog.Logger) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	logger.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("shutdown error")
	}
}
