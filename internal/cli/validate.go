package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/eventdash/internal/store"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid   bool              `json:"valid"`
	Source  string            `json:"source"`
	Rows    int               `json:"rows,omitempty"`
	Columns int               `json:"columns,omitempty"`
	Runs    int               `json:"runs,omitempty"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

// ValidationError is one problem found in the data or config.
type ValidationError struct {
	Code    string `json:"code"`
	Reason  string `json:"reason,omitempty"` // store.LoadErrorCode for data errors
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <data>",
		Short: "Check that a data file and config load",
		Long: `Load the config and data file and build every chart once.

Reports the first problem found: an invalid config, an unreadable or
malformed data file, a missing key column, or a table with no valid
default selections.

Exit codes:
  0 - Data and config are valid
  2 - Something failed to load`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, dataPath string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)
	result := ValidationResult{Source: dataPath}

	dash, err := LoadDashboard(cmd.Context(), opts, dataPath)
	if err != nil {
		result.Errors = []ValidationError{toValidationError(err)}
		return outputValidation(formatter, result, err)
	}
	result.Rows = dash.Table.Len()
	result.Columns = len(dash.Table.Columns())
	result.Runs = len(dash.Graph.Runs())
	formatter.VerboseLog("Loaded %d rows, %d columns, %d runs from %s", result.Rows, result.Columns, result.Runs, dataPath)

	if _, err := dash.Graph.DefaultControls(dash.Config.Interaction.Defaults); err != nil {
		result.Errors = []ValidationError{toValidationError(err)}
		return outputValidation(formatter, result, WrapExitError(ExitCommandError, "no valid default selections", err))
	}

	result.Valid = true
	return outputValidation(formatter, result, nil)
}

func toValidationError(err error) ValidationError {
	ve := ValidationError{Code: errorCodeOf(err), Message: err.Error()}
	var le *store.LoadError
	if errors.As(err, &le) {
		ve.Reason = string(le.Code)
		ve.Line = le.Line
	}
	return ve
}

func outputValidation(f *OutputFormatter, result ValidationResult, err error) error {
	if f.Format == "json" {
		resp := CLIResponse{Status: "ok", Data: result}
		if !result.Valid {
			resp.Status = "error"
			resp.Error = &CLIError{
				Code:    result.Errors[0].Code,
				Message: result.Errors[0].Message,
				Details: result.Errors,
			}
		}
		if encErr := f.encode(resp); encErr != nil {
			return encErr
		}
		return err
	}

	w := f.Writer
	if result.Valid {
		writeValidText(w, result)
		return nil
	}
	for _, e := range result.Errors {
		fmt.Fprintf(w, "✗ Error [%s]: %s\n", e.Code, e.Message)
	}
	return err
}

func writeValidText(w io.Writer, r ValidationResult) {
	fmt.Fprintf(w, "✓ %s is valid: %d rows, %d columns, %d runs\n", r.Source, r.Rows, r.Columns, r.Runs)
}
