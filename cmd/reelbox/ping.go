package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newPingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check connectivity to the configured store and Redis",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			defer logger.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()

			st, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer st.close(context.Background())

			if err := st.repo.Ping(ctx); err != nil {
				return fmt.Errorf("%s store: %w", cfg.Store.Driver, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s store: ok\n", cfg.Store.Driver)

			if !cfg.Events.Enabled() {
				return nil
			}
			_, closePublisher, err := openPublisher(ctx, cfg.Events)
			if err != nil {
				return err
			}
			closePublisher()
			fmt.Fprintln(cmd.OutOrStdout(), "redis: ok")
			return nil
		},
	}
}
