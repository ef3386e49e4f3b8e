package cli

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yakoovad/teamquery/config"
	"github.com/yakoovad/teamquery/pkg/logger"
)

// RootOptions holds global flags and the state every command shares.
type RootOptions struct {
	LogLevel string

	cfg *config.Config
	log *zap.Logger
}

// NewRootCommand creates the root command.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "teamquery",
		Short: "Typed queries over teams and members",
		Long: `teamquery keeps teams and members in an in-memory record store, loaded
from SQLite or PostgreSQL, and answers typed queries over it.

Configuration is read from the environment and an optional .env file
(SERVER_PORT, STORAGE_DRIVER, STORAGE_DSN, SEED_MEMBERS, AUTH_SECRET, ...).`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.log != nil {
				_ = opts.log.Sync()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "override logging.level (debug|info|warn|error)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(NewSearchCommand(opts))
	cmd.AddCommand(NewTokenCommand(opts))

	return cmd
}

func (o *RootOptions) init() error {
	cfg, err := config.NewConfig()
	if err != nil {
		return errors.Wrap(err, "load config")
	}
	if o.LogLevel != "" {
		cfg.Logging.Level = o.LogLevel
	}

	l, err := logger.NewLogger(cfg.Logging.Level)
	if err != nil {
		return errors.Wrap(err, "create logger")
	}
	zap.ReplaceGlobals(l)

	o.cfg = cfg
	o.log = l
	return nil
}
