package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/yakoovad/teamquery/internal/model"
)

type SearchOptions struct {
	*RootOptions
	Username string
	TeamName string
	AgeGoe   int
	AgeLoe   int
	Offset   int64
	Limit    int64
}

// NewSearchCommand creates the search command.
func NewSearchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SearchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search members and print one page as JSON",
		Long: `Load the configured storage into a record store and run a member search
against it. Unset filters are ignored.

Example:
  teamquery search --team teamA --age-goe 30 --limit 5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Username, "username", "", "exact username")
	cmd.Flags().StringVar(&opts.TeamName, "team", "", "exact team name")
	cmd.Flags().IntVar(&opts.AgeGoe, "age-goe", 0, "minimum age, inclusive")
	cmd.Flags().IntVar(&opts.AgeLoe, "age-loe", 0, "maximum age, inclusive")
	cmd.Flags().Int64Var(&opts.Offset, "offset", 0, "rows to skip")
	cmd.Flags().Int64Var(&opts.Limit, "limit", 20, "page size")

	return cmd
}

func runSearch(cmd *cobra.Command, opts *SearchOptions) error {
	a, err := newApp(cmd.Context(), opts.cfg, opts.log)
	if err != nil {
		return err
	}
	defer a.Close()

	cond := &model.MemberSearchCondition{Username: opts.Username, TeamName: opts.TeamName}
	if cmd.Flags().Changed("age-goe") {
		cond.AgeGoe = &opts.AgeGoe
	}
	if cmd.Flags().Changed("age-loe") {
		cond.AgeLoe = &opts.AgeLoe
	}

	page, serr := a.member.SearchPage(cmd.Context(), cond, model.PageRequest{Offset: opts.Offset, Limit: opts.Limit})
	if serr != nil {
		return serr
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(page)
}
