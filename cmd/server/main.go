package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"imageoptimizer/internal/config"
	httphandler "imageoptimizer/internal/http"
	"imageoptimizer/internal/imageproc"
	"imageoptimizer/internal/staging"
	"imageoptimizer/internal/store"
	"imageoptimizer/internal/upload"
)

func main() {
	// Configure logger
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logger := log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Load configuration
	cfg := config.Load()
	logger.Info().Str("upload_dir", cfg.UploadDir).Msg("starting image optimizer server")

	// Initialize staging and artifact storage in the configured upload directory
	stagingDir, err := staging.New(cfg.UploadDir, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize staging directory")
	}

	artifactStore, err := store.New(cfg.UploadDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize artifact store")
	}

	// Initialize the transcode pipeline
	transcoder := imageproc.NewTranscoder(cfg.UseJpegli, logger)
	uploadService := upload.NewService(stagingDir, transcoder, artifactStore, logger)
	uploadHandler := upload.NewHandler(uploadService, int64(cfg.MaxUploadMB)<<20, cfg.DefaultQuality, logger)

	// Initialize HTTP server
	server := httphandler.NewServer(cfg, logger, uploadHandler, artifactStore)

	httpServer := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        server.Routes(),
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   30 * time.Second,
		IdleTimeout:    120 * time.Second,
		MaxHeaderBytes: 1 << 20, // 1MB
	}

	// Start server in a goroutine
	go func() {
		logger.Info().Str("port", cfg.Port).Msg("server starting")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("server shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("server exited")
}
