package main

import (
	"github.com/spf13/cobra"

	"reelbox/internal/config"
	"reelbox/internal/logging"
)

func newRootCmd() *cobra.Command {
	serve := newServeCmd()

	root := &cobra.Command{
		Use:           "reelbox",
		Short:         "reelbox is a small HTTP API for movie playlists.",
		SilenceUsage:  true,
		SilenceErrors: true,
		// Running the bare binary starts the server.
		RunE: serve.RunE,
	}

	root.AddCommand(serve, newPingCmd(), newMigrateCmd(), newSeedCmd())
	return root
}

// setup loads configuration and installs the global logger.
// The returned logger must be closed by the caller.
func setup() (*config.Config, *logging.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	logger := logging.New(logging.Config{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		File:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
		Compress:   true,
	})
	logging.SetGlobalLogger(logger)
	return cfg, logger, nil
}
