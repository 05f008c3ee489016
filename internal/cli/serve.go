package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/roach88/eventdash/internal/server"
	"github.com/roach88/eventdash/internal/session"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Listen string
	Debug  bool

	// IDs overrides the session ID generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	IDs session.IDGenerator
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve [data]",
		Short: "Serve the dashboard API over HTTP",
		Long: `Load a CSV or SQLite table and serve the dashboard API.

The data file may be given as an argument or as data.path in the config.
Clients create a session, change controls and send pointer events; every
change recomputes the charts that depend on it.

Exit codes:
  0 - Server stopped cleanly
  2 - Data or config could not be loaded

Example:
  eventdash serve ./dielectron.csv
  eventdash serve ./events.db --listen :8080 --verbose`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var dataPath string
			if len(args) == 1 {
				dataPath = args[0]
			}
			return runServe(opts, dataPath, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Listen, "listen", "", "listen address (default from config, :1234)")
	cmd.Flags().BoolVar(&opts.Debug, "debug", false, "run gin in debug mode")

	return cmd
}

func runServe(opts *ServeOptions, dataPath string, cmd *cobra.Command) error {
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	dash, err := LoadDashboard(ctx, opts.RootOptions, dataPath)
	if err != nil {
		return err
	}
	cfg := dash.Config

	listen := cfg.Server.Listen
	if opts.Listen != "" {
		listen = opts.Listen
	}
	if opts.Debug || cfg.Server.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	sessions := session.NewManager(dash.Graph, opts.IDs, cfg.SessionOptions())
	if _, err := sessions.DefaultControls(); err != nil {
		return WrapExitError(ExitCommandError, "no valid default selections for this table", err)
	}
	srv := server.New(sessions, listen)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			slog.Info("received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	slog.Info("server starting",
		"data", cfg.Data.Path,
		"rows", dash.Table.Len(),
		"runs", len(dash.Graph.Runs()),
		"trigger", sessions.Trigger(),
	)
	fmt.Fprintf(cmd.OutOrStdout(), "Serving %s on %s\n", cfg.Data.Path, listen)
	fmt.Fprintln(cmd.OutOrStdout(), "Press Ctrl-C to stop.")

	if err := srv.Run(ctx); err != nil {
		return WrapExitError(ExitFailure, "server error", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}
