package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/joshua-takyi/snapvent/internal/config"
	"github.com/joshua-takyi/snapvent/internal/connect"
	"github.com/joshua-takyi/snapvent/internal/container"
	"github.com/joshua-takyi/snapvent/internal/helpers"
	"github.com/joshua-takyi/snapvent/internal/logger"
	"github.com/joshua-takyi/snapvent/internal/models"
	"github.com/joshua-takyi/snapvent/internal/routes"
	"github.com/joshua-takyi/snapvent/internal/workers"
	"github.com/rs/zerolog"
)

func main() {
	// Load environment variables
	_ = godotenv.Load(".env.local")

	cfg, err := config.LoadConfig()
	if err != nil {
		bootLog := logger.New("production", "info")
		bootLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(cfg.Environment, cfg.LogLevel)
	log.Info().Str("environment", cfg.Environment).Msg("Starting Snapvent API server")

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("Server stopped with error")
	}
	log.Info().Msg("Server exited")
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	supaClient, err := connect.InitSupabase(cfg)
	if err != nil {
		return err
	}
	log.Info().Msg("Connected to Supabase successfully")

	mongoClient, err := connect.MongoDBConnect(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := connect.MongoDBDisconnect(mongoClient); err != nil {
			log.Error().Err(err).Msg("Error disconnecting from MongoDB")
		}
	}()
	log.Info().Msg("Connected to MongoDB successfully")

	blobs, err := connect.BlobStore(ctx, cfg)
	if err != nil {
		return err
	}
	log.Info().Str("provider", cfg.BlobProvider).Msg("Blob store ready")

	publisher, closePublisher, err := connect.Publisher(cfg, log)
	if err != nil {
		return err
	}
	defer closePublisher()

	tokens, err := helpers.NewTokenValidator(ctx, cfg.JWKSEndpoint(), cfg.JWTSecret, log)
	if err != nil {
		return err
	}
	defer tokens.Close()

	mongoRepo := models.MongodbNewRepo(mongoClient, cfg.MongoDBDatabase)
	setupCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := mongoRepo.EnsureIndexes(setupCtx); err != nil {
		return err
	}

	appContainer := container.NewContainer(
		cfg,
		log,
		container.MongoRepos(mongoRepo, models.SupabaseNewRepo(supaClient)),
		blobs,
		publisher,
		tokens,
	)
	if err := appContainer.CatalogService.SeedDefaults(setupCtx); err != nil {
		return err
	}

	statusWorker := workers.NewStatusWorker(appContainer.EventService, cfg.StatusSyncEvery, log)
	statusWorker.Start(ctx)
	defer statusWorker.Stop()

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      routes.SetupRoutes(appContainer),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("Server is shutting down...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	return nil
}
