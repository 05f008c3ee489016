package engine

import (
	"fmt"
	"math"

	"github.com/roach88/eventdash/internal/ir"
)

// drillRule restricts the projection to the run under the last scatter
// pointer event and colors it by the drill color column.
func drillRule(g *Graph, c ir.Controls, p *ir.PointerEvent) (*ir.Artifact, error) {
	curve := g.opts.DefaultCurve
	if p != nil {
		if p.Source != "" && p.Source != ArtifactScatter {
			return nil, NewInvalidSelection(ArtifactDrill,
				fmt.Sprintf("pointer source %q does not feed the drill-down", p.Source),
				map[string]string{"source": p.Source})
		}
		curve = p.CurveNumber
	}
	if curve < 0 || curve >= len(g.runs) {
		return nil, NewInvalidSelection(ArtifactDrill,
			fmt.Sprintf("curve number %d out of range [0, %d)", curve, len(g.runs)),
			map[string]string{
				"curve_number": fmt.Sprintf("%d", curve),
				"runs":         fmt.Sprintf("%d", len(g.runs)),
			})
	}

	proj, err := g.projection(ArtifactDrill, c)
	if err != nil {
		return nil, err
	}

	run := g.runs[curve]
	rows, _ := g.table.RowsWhere(g.table.KeyColumn(), run)

	art := &ir.Artifact{
		Name:  ArtifactDrill,
		Kind:  proj.kind(),
		Title: fmt.Sprintf("%s for Run %s", proj.title(), run),
		Rows:  len(rows),
	}

	colorName := g.opts.DrillColor
	colorCol, ok := g.table.Column(colorName)
	if colorName == ir.None {
		ok = false
	}
	switch {
	case !ok:
		art.Axes = proj.axes("")
		s := proj.newSeries(run, g.color(curve))
		for _, row := range rows {
			if !proj.appendRow(&s, row) {
				art.Omitted++
			}
		}
		art.Series = []ir.Series{s}

	case colorCol.IsNumeric():
		art.Axes = proj.axes(colorName)
		s := proj.newSeries(run, "")
		s.ColorScale = g.opts.DrillColorScale
		s.ColorValues = []float64{}
		for _, row := range rows {
			v := colorCol.Float(row)
			if math.IsNaN(v) || !proj.appendRow(&s, row) {
				art.Omitted++
				continue
			}
			s.ColorValues = append(s.ColorValues, v)
		}
		art.Series = []ir.Series{s}

	default:
		art.Axes = proj.axes(colorName)
		index := make(map[string]int)
		for _, row := range rows {
			v := colorCol.Text(row)
			i, seen := index[v]
			if !seen {
				i = len(art.Series)
				index[v] = i
				art.Series = append(art.Series, proj.newSeries(v, g.color(i)))
			}
			if !proj.appendRow(&art.Series[i], row) {
				art.Omitted++
			}
		}
	}
	return art, nil
}
