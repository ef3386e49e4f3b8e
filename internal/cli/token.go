package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/yakoovad/teamquery/internal/auth"
)

type TokenOptions struct {
	*RootOptions
	Type string
	TTL  time.Duration
}

// NewTokenCommand creates the token command.
func NewTokenCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TokenOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an API token signed with auth.secret",
		Long: `Print a bearer token for the HTTP API. User tokens may read, admin
tokens may also add teams and members.

Example:
  AUTH_SECRET=s3cret teamquery token --type admin --ttl 1h`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runToken(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Type, "type", string(auth.TokenTypeUser), "token type (user|admin)")
	cmd.Flags().DurationVar(&opts.TTL, "ttl", 0, "token lifetime (default auth.token_ttl)")

	return cmd
}

func runToken(cmd *cobra.Command, opts *TokenOptions) error {
	tokenType, err := auth.ParseTokenType(opts.Type)
	if err != nil {
		return err
	}

	ttl := opts.TTL
	if ttl <= 0 {
		ttl = opts.cfg.Auth.TokenTTL
	}

	token, err := auth.NewSigner(opts.cfg.Auth.Secret).GenerateToken(tokenType, ttl)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
