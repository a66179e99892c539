package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/Alias1177/CryptoPredict/internal/config"
	"github.com/Alias1177/CryptoPredict/internal/di"
	"github.com/Alias1177/CryptoPredict/internal/logger"
	"github.com/rs/zerolog/log"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logger.Setup(cfg.Log.Level, cfg.Log.Format, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	core, err := di.InitializeCore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize services")
	}
	defer core.Close()

	if os.Getenv(cfg.OpenAI.APIKeyEnv) == "" {
		log.Warn().Str("env", cfg.OpenAI.APIKeyEnv).Msg("Completions API key is not set, predictions will fall back")
	}

	srv := di.ProvideHTTPServer(cfg, core)
	if err := srv.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start HTTP server")
	}
	log.Info().Str("env", cfg.Environment).Int("port", cfg.Server.Port).Msg("CryptoPredict API started")

	<-ctx.Done()
	log.Info().Msg("Shutdown signal received")

	if err := srv.Stop(context.Background()); err != nil {
		log.Error().Err(err).Msg("HTTP shutdown error")
	}
	log.Info().Msg("Shutdown complete")
}
