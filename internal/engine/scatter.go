package engine

import (
	"github.com/roach88/eventdash/internal/ir"
)

// scatterRule projects the full table onto x, y (and z), one series per
// run in first-occurrence order. Series i is curve number i.
func scatterRule(g *Graph, c ir.Controls, _ *ir.PointerEvent) (*ir.Artifact, error) {
	proj, err := g.projection(ArtifactScatter, c)
	if err != nil {
		return nil, err
	}

	key := g.table.KeyColumn()
	art := &ir.Artifact{
		Name:   ArtifactScatter,
		Kind:   proj.kind(),
		Title:  proj.title(),
		Rows:   g.table.Len(),
		Axes:   proj.axes(key),
		Series: make([]ir.Series, len(g.runs)),
	}

	for i, run := range g.runs {
		rows, _ := g.table.RowsWhere(key, run)
		s := proj.newSeries(run, g.color(i))
		for _, row := range rows {
			if !proj.appendRow(&s, row) {
				art.Omitted++
			}
		}
		art.Series[i] = s
	}
	return art, nil
}
