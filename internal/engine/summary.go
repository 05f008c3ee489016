package engine

import (
	"github.com/roach88/eventdash/internal/stats"
	"github.com/roach88/eventdash/internal/store"
)

// Summary holds the headline figures of the loaded table.
type Summary struct {
	Rows          int          `json:"rows"`
	Runs          int          `json:"runs"`
	AvgRowsPerRun float64      `json:"avg_rows_per_run"`
	Means         []ColumnMean `json:"means"`
}

// ColumnMean is the mean of one numeric column over its present values.
type ColumnMean struct {
	Column string  `json:"column"`
	Mean   float64 `json:"mean"`
	Count  int     `json:"count"`
}

// Mean looks up the mean of a column.
func (s Summary) Mean(column string) (float64, bool) {
	for _, m := range s.Means {
		if m.Column == column {
			return m.Mean, true
		}
	}
	return 0, false
}

// Summary returns the figures computed when the graph was built.
func (g *Graph) Summary() Summary {
	s := g.summary
	s.Means = append([]ColumnMean(nil), s.Means...)
	return s
}

func computeSummary(t *store.Table, runs []string) Summary {
	s := Summary{Rows: t.Len(), Runs: len(runs), Means: []ColumnMean{}}
	if len(runs) > 0 {
		s.AvgRowsPerRun = float64(t.Len()) / float64(len(runs))
	}
	for _, name := range t.NumericColumns() {
		col, _ := t.Column(name)
		mean, n := stats.Mean(col.Floats(nil))
		if n == 0 {
			continue
		}
		s.Means = append(s.Means, ColumnMean{Column: name, Mean: mean, Count: n})
	}
	return s
}
