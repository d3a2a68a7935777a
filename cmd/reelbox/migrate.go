package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"reelbox/internal/config"
	"reelbox/internal/repository"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down]",
		Short:     "Apply the PostgreSQL schema migrations",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{string(repository.MigrateUp), string(repository.MigrateDown)},
		RunE: func(cmd *cobra.Command, args []string) error {
			direction := repository.MigrateUp
			if len(args) == 1 {
				direction = repository.MigrateDirection(args[0])
			}

			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			defer logger.Close()

			if cfg.Store.Driver != config.DriverPostgres {
				return fmt.Errorf("migrations apply to the postgres store only (STORE_DRIVER=%s)", cfg.Store.Driver)
			}

			db, err := openPostgres(cmd.Context(), cfg.Postgres.URL)
			if err != nil {
				return err
			}

			// MigratePostgres closes db.
			if err := repository.MigratePostgres(db, direction); err != nil {
				return err
			}

			log.Info().Str("direction", string(direction)).Msg("migrations applied")
			return nil
		},
	}
}
