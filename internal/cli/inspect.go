package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/eventdash/internal/engine"
	"github.com/roach88/eventdash/internal/ir"
)

// ColumnInfo describes one table column.
type ColumnInfo struct {
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	Key     bool   `json:"key,omitempty"`
	Missing int    `json:"missing,omitempty"`
}

// RunInfo is one run with its row count.
type RunInfo struct {
	Run  string `json:"run"`
	Rows int    `json:"rows"`
}

// InspectResult is the output of the inspect command.
type InspectResult struct {
	Source    string         `json:"source"`
	Columns   []ColumnInfo   `json:"columns"`
	Runs      []RunInfo      `json:"runs"`
	Artifacts []string       `json:"artifacts"`
	Defaults  ir.Controls    `json:"defaults"`
	Summary   engine.Summary `json:"summary"`
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <data>",
		Short: "Describe a data file",
		Long: `Load a data file and print its columns, runs and summary figures.

Example:
  eventdash inspect ./dielectron.csv
  eventdash inspect ./events.db --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runInspect(opts *RootOptions, dataPath string, cmd *cobra.Command) error {
	f := newFormatter(opts, cmd)

	dash, err := LoadDashboard(cmd.Context(), opts, dataPath)
	if err != nil {
		return report(f, err)
	}
	tbl := dash.Table

	result := InspectResult{
		Source:    tbl.Source(),
		Artifacts: dash.Graph.Names(),
		Summary:   dash.Graph.Summary(),
	}

	for _, name := range tbl.Columns() {
		col, _ := tbl.Column(name)
		info := ColumnInfo{Name: name, Kind: col.Kind().String(), Key: name == tbl.KeyColumn()}
		for i := 0; i < tbl.Len(); i++ {
			if col.Text(i) == "" {
				info.Missing++
			}
		}
		result.Columns = append(result.Columns, info)
	}

	for _, run := range dash.Graph.Runs() {
		rows, _ := tbl.RowsWhere(tbl.KeyColumn(), run)
		result.Runs = append(result.Runs, RunInfo{Run: run, Rows: len(rows)})
	}

	defaults, err := dash.Graph.DefaultControls(dash.Config.Interaction.Defaults)
	if err != nil {
		f.VerboseLog("No valid default selections: %v", err)
	} else {
		result.Defaults = defaults
	}

	return f.Result(result, func(w io.Writer) { writeInspectText(w, &result) })
}

func writeInspectText(w io.Writer, r *InspectResult) {
	s := r.Summary
	fmt.Fprintf(w, "Source: %s\n", r.Source)
	fmt.Fprintf(w, "Rows: %d, runs: %d, avg rows per run: %.2f\n", s.Rows, s.Runs, s.AvgRowsPerRun)

	fmt.Fprintln(w, "\nColumns:")
	for _, c := range r.Columns {
		line := fmt.Sprintf("  %-12s %-6s", c.Name, c.Kind)
		if c.Key {
			line += " key"
		}
		if m, ok := s.Mean(c.Name); ok {
			line += fmt.Sprintf(" mean=%g", m)
		}
		if c.Missing > 0 {
			line += fmt.Sprintf(" missing=%d", c.Missing)
		}
		fmt.Fprintln(w, line)
	}

	fmt.Fprintln(w, "\nRuns:")
	for _, run := range r.Runs {
		fmt.Fprintf(w, "  %-12s %d rows\n", run.Run, run.Rows)
	}

	fmt.Fprintf(w, "\nArtifacts: %v\n", r.Artifacts)
	if r.Defaults != (ir.Controls{}) {
		d := r.Defaults
		fmt.Fprintf(w, "Defaults: run_filter=%s attribute=%s x=%s y=%s z=%s\n", d.RunFilter, d.Attribute, d.X, d.Y, d.Z)
	}
}
