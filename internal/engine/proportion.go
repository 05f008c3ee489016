package engine

import (
	"fmt"

	"github.com/roach88/eventdash/internal/ir"
	"github.com/roach88/eventdash/internal/stats"
)

// proportionRule sums p.Column per run over the full table.
func proportionRule(p Proportion) rule {
	return func(g *Graph, _ ir.Controls, _ *ir.PointerEvent) (*ir.Artifact, error) {
		col, _ := g.table.Column(p.Column)
		key := g.table.KeyColumn()

		sums := make([]float64, len(g.runs))
		for i, run := range g.runs {
			rows, _ := g.table.RowsWhere(key, run)
			sums[i] = stats.Sum(col.Floats(rows))
		}

		var total float64
		for _, s := range sums {
			total += s
		}
		if total == 0 {
			return nil, &RuleError{
				Code:     ErrCodeInsufficientData,
				Message:  fmt.Sprintf("column %q sums to zero", p.Column),
				Artifact: p.Name,
				Details:  map[string]string{"column": p.Column},
			}
		}

		wedges := make([]ir.Slice, len(g.runs))
		for i, run := range g.runs {
			wedges[i] = ir.Slice{
				Label:      run,
				Value:      sums[i],
				Proportion: sums[i] / total,
				Color:      p.Colors[i%len(p.Colors)],
			}
		}

		return &ir.Artifact{
			Name:   p.Name,
			Kind:   ir.KindPie,
			Title:  fmt.Sprintf("%s by %s", p.Column, key),
			Rows:   g.table.Len(),
			Slices: wedges,
		}, nil
	}
}
