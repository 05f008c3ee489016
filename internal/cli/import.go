package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/eventdash/internal/store"
)

// ImportOptions holds flags for the import command.
type ImportOptions struct {
	*RootOptions
	Database string
	Table    string
}

// ImportResult describes a completed import.
type ImportResult struct {
	Source   string `json:"source"`
	Database string `json:"database"`
	Table    string `json:"table"`
	Rows     int    `json:"rows"`
	Columns  int    `json:"columns"`
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ImportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "import <csv>",
		Short: "Copy a CSV file into a SQLite database",
		Long: `Load a CSV file and write it to a SQLite table.

Numeric columns become REAL and text columns TEXT; row order is kept, so
serving the database gives the same charts as serving the CSV. An existing
table of the same name is replaced.

Example:
  eventdash import ./dielectron.csv --db ./events.db
  eventdash import ./dielectron.csv --db ./events.db --table dielectron`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().StringVar(&opts.Table, "table", store.DefaultTable, "table name")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runImport(opts *ImportOptions, csvPath string, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd)

	cfg, err := LoadConfig(opts.RootOptions)
	if err != nil {
		return report(f, err)
	}

	tbl, err := store.Load(cmd.Context(), csvPath, cfg.StoreOptions())
	if err != nil {
		return report(f, WrapExitError(ExitCommandError, "failed to load data", err))
	}
	f.VerboseLog("Loaded %d rows from %s", tbl.Len(), csvPath)

	if err := store.WriteSQLite(cmd.Context(), opts.Database, opts.Table, tbl); err != nil {
		if outErr := f.Error(ErrCodeWriteFailed, err.Error(), nil); outErr != nil {
			return outErr
		}
		return WrapExitError(ExitCommandError, "failed to write database", err)
	}

	result := ImportResult{
		Source:   csvPath,
		Database: opts.Database,
		Table:    opts.Table,
		Rows:     tbl.Len(),
		Columns:  len(tbl.Columns()),
	}
	return f.Result(result, func(w io.Writer) {
		fmt.Fprintf(w, "✓ Imported %d rows into %s (table %s)\n", result.Rows, result.Database, result.Table)
	})
}
