package main

import (
	"fmt"
	"os"

	"github.com/wanderly-dev/storefront/internal/config"
	"github.com/wanderly-dev/storefront/internal/logger"
	"github.com/wanderly-dev/storefront/internal/server"
)

var version = "dev" // Will be set during build with -ldflags

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	log := logger.GetLogger()

	srv, err := server.New(cfg, log, version)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create server")
	}

	log.Info().
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Bool("backend_configured", cfg.Backend.Configured()).
		Msg("Starting storefront server...")

	// Blocks until SIGINT/SIGTERM
	if err := srv.Start(); err != nil {
		log.Fatal().Err(err).Msg("Server failed to start")
	}
}
