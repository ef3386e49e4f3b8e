package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/yakoovad/teamquery/internal/api"
	"github.com/yakoovad/teamquery/internal/auth"
)

const version = "v0.1.0"

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Open storage, seed it if enabled, load the record store and serve the
member search and team endpoints until SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), rootOpts)
		},
	}
}

func runServe(parent context.Context, opts *RootOptions) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	l := opts.log
	l.Info("starting application", zap.String("version", version))

	a, err := newApp(ctx, opts.cfg, l)
	if err != nil {
		return err
	}
	defer a.Close()

	health, err := api.NewHealthChecker(version,
		api.PingCheck(opts.cfg.Storage.Driver, a.backend.Ping),
		api.StoreCheck(a.store),
	)
	if err != nil {
		return err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	api.NewHandler(l).
		WithTeamService(a.team).
		WithMemberService(a.member).
		WithSigner(auth.NewSigner(opts.cfg.Auth.Secret)).
		WithHealthChecker(health).
		RegisterRoutes(e)

	addr := opts.cfg.ServerAddr()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		l.Info("server starting", zap.String("addr", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "start server")
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		l.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), opts.cfg.Server.ShutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
