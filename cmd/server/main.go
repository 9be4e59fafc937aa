package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/dronedeck/media-api/internal/config"
	domain "github.com/dronedeck/media-api/internal/domain/media"
	"github.com/dronedeck/media-api/internal/infrastructure/database"
	"github.com/dronedeck/media-api/internal/infrastructure/logger"
	"github.com/dronedeck/media-api/internal/infrastructure/observability"
	repo "github.com/dronedeck/media-api/internal/infrastructure/repository/media"
	"github.com/dronedeck/media-api/internal/infrastructure/storage"
	"github.com/dronedeck/media-api/internal/infrastructure/vision"
	"github.com/dronedeck/media-api/internal/interfaces/httpserver"
	"github.com/dronedeck/media-api/internal/interfaces/httpserver/handlers"
)

const version = "1.0.0"

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown telemetry")
		}
	}()

	db, err := database.Connect(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("connect document store")
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := db.Close(closeCtx); err != nil {
			log.Error().Err(err).Msg("disconnect document store")
		}
	}()

	objectStore, err := storage.NewS3Storage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize object storage")
	}

	var analyzer domain.Analyzer
	if cfg.VisionConfigured() {
		analyzer = vision.NewClient(cfg, log)
	} else {
		log.Warn().Msg("VISION_ENDPOINT or VISION_KEY not set; analysis endpoint disabled")
	}

	mediaRepository := repo.NewRepository(db)
	mediaService := domain.NewService(mediaRepository, objectStore, analyzer, cfg.MaxMediaBytes, log)

	handlerProvider := handlers.NewProvider(mediaService, db, objectStore, version, log)
	server := httpserver.New(cfg, log, handlerProvider)

	if err := server.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}

	log.Info().Msg("server exited cleanly")
}

func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
