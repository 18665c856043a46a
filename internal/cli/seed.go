package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"reqgen/internal/repository"
	"reqgen/internal/seed"
)

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the demo accounts",
		Long: `Create the analyst, admin and client demo accounts.

Accounts that already exist are left untouched, so running seed twice is safe.
With the memory driver the result is written to the snapshot file.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), rootOpts, cmd)
		},
	}

	return cmd
}

func runSeed(ctx context.Context, opts *RootOptions, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := opts.config()
	logger := opts.logger(cmd.ErrOrStderr())

	repos, err := repository.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer repos.Close()

	created, err := seed.NewUserSeeder(repos.Users, logger).Seed(ctx)
	if err != nil {
		return err
	}

	if repos.Memory != nil {
		if cfg.SnapshotPath == "" {
			return fmt.Errorf("memory storage needs --snapshot or STORAGE_SNAPSHOT_PATH to persist seeded users")
		}
		if err := repos.Memory.SaveFile(cfg.SnapshotPath); err != nil {
			return err
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "created %d demo user(s)\n", created)
	return nil
}
