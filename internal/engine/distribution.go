package engine

import (
	"fmt"
	"slices"

	"github.com/roach88/eventdash/internal/ir"
	"github.com/roach88/eventdash/internal/stats"
)

// restrict returns the rows selected by the run filter and the phrase
// naming the selection in titles.
func (g *Graph) restrict(artifact, runFilter string) ([]int, string, error) {
	if ir.IsTotal(runFilter) {
		return g.table.AllRows(), "All Runs", nil
	}
	if !slices.Contains(g.runs, runFilter) {
		return nil, "", NewInvalidSelection(artifact, fmt.Sprintf("unknown run %q", runFilter),
			map[string]string{"control": string(ir.ControlRunFilter), "value": runFilter})
	}
	rows, _ := g.table.RowsWhere(g.table.KeyColumn(), runFilter)
	return rows, "Run " + runFilter, nil
}

// histogramRule bins the attribute over the rows the run filter selects.
func histogramRule(g *Graph, c ir.Controls, _ *ir.PointerEvent) (*ir.Artifact, error) {
	col, ok := g.table.Column(c.Attribute)
	if !ok || !col.IsNumeric() || c.Attribute == g.table.KeyColumn() {
		return nil, NewInvalidSelection(ArtifactHistogram,
			fmt.Sprintf("attribute %q is not a numeric column", c.Attribute),
			map[string]string{"control": string(ir.ControlAttribute), "value": c.Attribute})
	}

	rows, label, err := g.restrict(ArtifactHistogram, c.RunFilter)
	if err != nil {
		return nil, err
	}

	bins := stats.Histogram(col.Floats(rows), g.opts.Bins)
	if present := len(rows) - bins.Missing; present == 0 {
		return nil, NewInsufficientData(ArtifactHistogram, present, 1)
	}

	return &ir.Artifact{
		Name:  ArtifactHistogram,
		Kind:  ir.KindHistogram,
		Title: fmt.Sprintf("Histogram of %s for %s", c.Attribute, label),
		Rows:  len(rows),
		Histogram: &ir.Histogram{
			Column:  c.Attribute,
			Edges:   bins.Edges,
			Counts:  bins.Counts,
			Missing: bins.Missing,
		},
	}, nil
}

// heatmapRule correlates every numeric non-key column over the rows the
// run filter selects.
func heatmapRule(g *Graph, c ir.Controls, _ *ir.PointerEvent) (*ir.Artifact, error) {
	rows, label, err := g.restrict(ArtifactHeatmap, c.RunFilter)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, NewInsufficientData(ArtifactHeatmap, len(rows), 2)
	}

	labels := g.table.NumericColumns()
	if len(labels) == 0 {
		return nil, &RuleError{
			Code:     ErrCodeInsufficientData,
			Message:  "table has no numeric columns to correlate",
			Artifact: ArtifactHeatmap,
		}
	}

	columns := make([][]float64, len(labels))
	for i, name := range labels {
		col, _ := g.table.Column(name)
		columns[i] = col.Floats(rows)
	}
	corr := stats.CorrelationMatrix(columns)

	var degenerate []string
	for i, d := range corr.Degenerate {
		if d {
			degenerate = append(degenerate, labels[i])
		}
	}

	return &ir.Artifact{
		Name:  ArtifactHeatmap,
		Kind:  ir.KindHeatmap,
		Title: "Correlation Matrix for " + label,
		Rows:  len(rows),
		Heatmap: &ir.Heatmap{
			Labels:     labels,
			Values:     corr.Values,
			ZMin:       -1,
			ZMax:       1,
			ColorScale: g.opts.HeatmapColorScale,
			Degenerate: degenerate,
		},
	}, nil
}
