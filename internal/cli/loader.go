package cli

import (
	"context"
	"log/slog"

	"github.com/roach88/eventdash/internal/config"
	"github.com/roach88/eventdash/internal/engine"
	"github.com/roach88/eventdash/internal/store"
)

// Dashboard is everything a command needs: the resolved configuration, the
// loaded table and the view-state graph built over it.
type Dashboard struct {
	Config *config.Config
	Table  *store.Table
	Graph  *engine.Graph
}

// LoadConfig reads the --config file, or the defaults when none is given.
// Failures are command errors (exit code 2).
func LoadConfig(opts *RootOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load config", err)
	}
	return cfg, nil
}

// LoadDashboard loads the configuration, the table at dataPath (or the
// configured data.path when dataPath is empty) and builds the graph.
//
// Every failure is a command error (exit code 2) wrapping the cause, so
// callers can still classify it with store.IsLoadError and friends.
func LoadDashboard(ctx context.Context, opts *RootOptions, dataPath string) (*Dashboard, error) {
	cfg, err := LoadConfig(opts)
	if err != nil {
		return nil, err
	}
	if dataPath != "" {
		cfg.Data.Path = dataPath
	}
	if cfg.Data.Path == "" {
		return nil, NewExitError(ExitCommandError, "no data file: pass one as an argument or set data.path in the config")
	}

	slog.Debug("loading data", "path", cfg.Data.Path, "key_column", cfg.Data.KeyColumn)
	tbl, err := store.Load(ctx, cfg.Data.Path, cfg.StoreOptions())
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load data", err)
	}
	slog.Debug("data loaded", "rows", tbl.Len(), "columns", len(tbl.Columns()))

	g, err := engine.New(tbl, cfg.EngineOptions())
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to build charts", err)
	}
	return &Dashboard{Config: cfg, Table: tbl, Graph: g}, nil
}

// report writes err through the formatter and returns it unchanged, so the
// exit code it carries survives.
func report(f *OutputFormatter, err error) error {
	if outErr := f.Error(errorCodeOf(err), err.Error(), nil); outErr != nil {
		return outErr
	}
	return err
}
