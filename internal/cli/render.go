package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/eventdash/internal/engine"
	"github.com/roach88/eventdash/internal/ir"
	"github.com/roach88/eventdash/internal/render"
)

// RenderOptions holds flags for the render command.
type RenderOptions struct {
	*RootOptions
	Controls ir.Controls
	Curve    int // scatter curve for the drill-down; negative means the default
	Out      string
	Width    int
	Height   int
}

// RenderResult describes a rendered artifact.
type RenderResult struct {
	Artifact string          `json:"artifact"`
	Kind     ir.ArtifactKind `json:"kind"`
	Title    string          `json:"title"`
	Key      string          `json:"key"`
	Out      string          `json:"out"`
	Bytes    int             `json:"bytes"`
}

// NewRenderCommand creates the render command.
func NewRenderCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RenderOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "render <data> <artifact>",
		Short: "Compute one chart from control selections",
		Long: `Compute one chart artifact from the given selections.

Without --out the artifact is described (text) or printed in full (--format
json). With --out it is drawn as a PNG; 2D scatters, histograms and pies
have a PNG form.

Artifacts: scatter, drill, histogram, heatmap and one per configured pie
(pie, pie2 by default).

Exit codes:
  0 - Artifact computed
  1 - Selection rejected, too little data, or no PNG form
  2 - Data or config could not be loaded

Examples:
  eventdash render events.csv scatter --x E1 --y E2 --z M
  eventdash render events.csv drill --curve 2 --out drill.png
  eventdash render events.csv histogram --run 147115 --attribute M --format json`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Controls.RunFilter, "run", "", "run filter (a run value or Total)")
	cmd.Flags().StringVar(&opts.Controls.Attribute, "attribute", "", "histogram attribute")
	cmd.Flags().StringVar(&opts.Controls.X, "x", "", "x axis column")
	cmd.Flags().StringVar(&opts.Controls.Y, "y", "", "y axis column")
	cmd.Flags().StringVar(&opts.Controls.Z, "z", "", "z axis column or None")
	cmd.Flags().IntVar(&opts.Curve, "curve", -1, "scatter curve number the drill-down follows")
	cmd.Flags().StringVarP(&opts.Out, "out", "o", "", "write a PNG to this path")
	cmd.Flags().IntVar(&opts.Width, "width", render.DefaultWidth, "PNG width in pixels")
	cmd.Flags().IntVar(&opts.Height, "height", render.DefaultHeight, "PNG height in pixels")

	return cmd
}

func runRender(opts *RenderOptions, dataPath, name string, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd)

	dash, err := LoadDashboard(cmd.Context(), opts.RootOptions, dataPath)
	if err != nil {
		return report(f, err)
	}

	controls, err := dash.Graph.DefaultControls(dash.Config.Interaction.Defaults.Merge(opts.Controls))
	if err != nil {
		return f.Fail(ExitFailure, "invalid selection", err)
	}

	var pointer *ir.PointerEvent
	if opts.Curve >= 0 {
		pointer = &ir.PointerEvent{Source: engine.ArtifactScatter, Kind: ir.PointerClick, CurveNumber: opts.Curve}
	}

	f.VerboseLog("Computing %s with %+v", name, controls)
	a, err := dash.Graph.Recompute(name, controls, pointer)
	if err != nil {
		return f.Fail(ExitFailure, fmt.Sprintf("failed to compute %s", name), err)
	}

	if opts.Out == "" {
		return f.Result(a, func(w io.Writer) { describeArtifact(w, a) })
	}

	if !render.Supports(a.Kind) {
		err := fmt.Errorf("%w: %s has no PNG form", render.ErrUnsupportedKind, a.Kind)
		if outErr := f.Error(ErrCodeRender, err.Error(), nil); outErr != nil {
			return outErr
		}
		return WrapExitError(ExitFailure, "render failed", err)
	}

	var buf bytes.Buffer
	if err := render.PNG(&buf, a, opts.Width, opts.Height); err != nil {
		if outErr := f.Error(ErrCodeRender, err.Error(), nil); outErr != nil {
			return outErr
		}
		return WrapExitError(ExitFailure, "render failed", err)
	}
	if err := os.WriteFile(opts.Out, buf.Bytes(), 0o644); err != nil {
		if outErr := f.Error(ErrCodeWriteFailed, err.Error(), nil); outErr != nil {
			return outErr
		}
		return WrapExitError(ExitCommandError, "failed to write PNG", err)
	}

	result := RenderResult{
		Artifact: a.Name,
		Kind:     a.Kind,
		Title:    a.Title,
		Key:      a.Key,
		Out:      opts.Out,
		Bytes:    buf.Len(),
	}
	return f.Result(result, func(w io.Writer) {
		fmt.Fprintf(w, "✓ Rendered %s (%s) to %s\n", a.Name, a.Title, opts.Out)
	})
}

// describeArtifact writes a human-readable summary of a.
func describeArtifact(w io.Writer, a *ir.Artifact) {
	fmt.Fprintf(w, "%s (%s): %s\n", a.Name, a.Kind, a.Title)
	fmt.Fprintf(w, "  rows: %d", a.Rows)
	if a.Omitted > 0 {
		fmt.Fprintf(w, ", omitted: %d", a.Omitted)
	}
	fmt.Fprintln(w)

	switch {
	case a.Series != nil:
		for _, s := range a.Series {
			fmt.Fprintf(w, "  series %-12s %d points\n", s.Name, len(s.X))
		}
	case a.Histogram != nil:
		h := a.Histogram
		fmt.Fprintf(w, "  %d bins over [%g, %g], %d values", len(h.Counts), h.Edges[0], h.Edges[len(h.Edges)-1], h.Total())
		if h.Missing > 0 {
			fmt.Fprintf(w, ", %d missing", h.Missing)
		}
		fmt.Fprintln(w)
	case a.Heatmap != nil:
		hm := a.Heatmap
		fmt.Fprintf(w, "  %dx%d correlation of %s\n", len(hm.Labels), len(hm.Labels), strings.Join(hm.Labels, ", "))
		if len(hm.Degenerate) > 0 {
			fmt.Fprintf(w, "  undefined for: %s\n", strings.Join(hm.Degenerate, ", "))
		}
	case a.Slices != nil:
		for _, s := range a.Slices {
			fmt.Fprintf(w, "  %-12s %10.2f  %5.1f%%\n", s.Label, s.Value, 100*s.Proportion)
		}
	}
	fmt.Fprintf(w, "  key: %s\n", a.Key)
}
