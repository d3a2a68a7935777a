package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"reelbox/internal/models"
	"reelbox/internal/repository"
)

var demoPlaylists = []models.Playlist{
	{Name: "Mind Benders", Movies: []string{"Inception", "The Prestige", "Memento"}},
	{Name: "Spoof Night", Movies: []string{"Airplane!", "Hot Shots!", "The Naked Gun"}},
	{Name: "Space Operas", Movies: []string{"Dune", "Interstellar"}},
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert demo playlists into an empty store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			defer logger.Close()

			st, err := openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer st.close(context.Background())

			created, err := seedDemoPlaylists(cmd.Context(), st.repo)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d playlists\n", created)
			return nil
		},
	}
}

// seedDemoPlaylists inserts the demo set when the store holds no playlists.
func seedDemoPlaylists(ctx context.Context, repo repository.PlaylistRepository) (int, error) {
	existing, err := repo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list playlists: %w", err)
	}
	if len(existing) > 0 {
		log.Info().Int("existing", len(existing)).Msg("store already has playlists, skipping seed")
		return 0, nil
	}

	for _, demo := range demoPlaylists {
		playlist := &models.Playlist{
			Name:   demo.Name,
			Movies: append([]string(nil), demo.Movies...),
		}
		if _, err := repo.Create(ctx, playlist); err != nil {
			return 0, fmt.Errorf("seed playlist %q: %w", demo.Name, err)
		}
	}
	return len(demoPlaylists), nil
}
