package cli

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/yakoovad/teamquery/internal/repository"
	"github.com/yakoovad/teamquery/internal/service"
)

type SeedOptions struct {
	*RootOptions
	Members int
}

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SeedOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert sample teams and members",
		Long: `Insert teamA, teamB and --members members into the configured storage.
Nothing is inserted when the storage already has teams.

Example:
  STORAGE_DSN=./teams.db teamquery seed --members 1000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Members, "members", -1, "number of members to insert (default seed.members)")

	return cmd
}

func runSeed(cmd *cobra.Command, opts *SeedOptions) error {
	n := opts.Members
	if n < 0 {
		n = opts.cfg.Seed.Members
	}

	backend, err := repository.Open(cmd.Context(), opts.cfg.Storage, opts.log)
	if err != nil {
		return errors.Wrap(err, "open storage")
	}
	defer backend.Close()

	seeded, err := service.NewSeeder(backend.Transactor).
		WithTeamRepo(backend.Teams).
		WithMemberRepo(backend.Members).
		Seed(cmd.Context(), n)
	if err != nil {
		return err
	}

	if !seeded {
		fmt.Fprintln(cmd.OutOrStdout(), "storage already seeded")
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "seeded %d teams and %d members\n", len(service.SeedTeams), n)
	return nil
}
