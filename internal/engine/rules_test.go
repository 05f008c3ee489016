package engine

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/eventdash/internal/ir"
)

func TestScatter_SeriesPerRun(t *testing.T) {
	g := newGraph(t)
	a, err := g.Recompute("scatter", defaults(t, g), nil)
	require.NoError(t, err)

	assert.Equal(t, ir.KindScatter2D, a.Kind)
	assert.Equal(t, "E1 vs E2", a.Title)
	assert.Equal(t, 6, a.Rows)
	assert.Equal(t, 6, a.Points())
	require.Len(t, a.Series, 3)

	for i, run := range g.Runs() {
		assert.Equal(t, run, a.Series[i].Name, "series %d must be run %d", i, i)
		assert.Equal(t, DefaultPalette[i], a.Series[i].Color)
		assert.Nil(t, a.Series[i].Z)
	}
	assert.Equal(t, []float64{58.71, 6.61, 25.54}, a.Series[0].X)
	assert.Equal(t, []float64{11.28, 17.15, 15.82}, a.Series[0].Y)
	assert.Equal(t, []int{3, 4}, a.Series[1].RowIndex)
	assert.Equal(t, "Run", a.Axes.Color)
}

func TestScatter_3D(t *testing.T) {
	g := newGraph(t)
	c := defaults(t, g)
	c.Z = "M"

	a, err := g.Recompute("scatter", c, nil)
	require.NoError(t, err)
	assert.Equal(t, ir.KindScatter3D, a.Kind)
	assert.Equal(t, "E1 vs E2 vs M", a.Title)
	assert.Equal(t, "M", a.Axes.Z)
	assert.Equal(t, []float64{8.94, 15.89, 38.39}, a.Series[0].Z)
}

func TestScatter_SameColumnBothAxes(t *testing.T) {
	g := newGraph(t)
	c := defaults(t, g)
	c.Y = c.X

	a, err := g.Recompute("scatter", c, nil)
	require.NoError(t, err)
	assert.Equal(t, "E1 vs E1", a.Title)
	assert.Equal(t, a.Series[0].X, a.Series[0].Y)
}

func TestScatter_UnknownColumn(t *testing.T) {
	g := newGraph(t)
	c := defaults(t, g)
	c.X = "nope"

	_, err := g.Recompute("scatter", c, nil)
	require.Error(t, err)
	assert.True(t, IsInvalidSelection(err))

	var re *RuleError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "scatter", re.Artifact)
	assert.Equal(t, "x", re.Details["control"])
}

func TestScatter_TextAxisIsCategoryCoded(t *testing.T) {
	g := newGraph(t)
	c := defaults(t, g)
	c.X = "Run"

	a, err := g.Recompute("scatter", c, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"147115", "146436", "148031"}, a.Axes.XCategories)
	assert.Equal(t, []float64{0, 0, 0}, a.Series[0].X)
	assert.Equal(t, []float64{2}, a.Series[2].X)
}

func TestScatter_MissingValuesOmitted(t *testing.T) {
	g, err := New(loadTable(t, "Run,a,b\n1,1,\n1,2,3\n2,,4\n"), Options{})
	require.NoError(t, err)

	a, err := g.Recompute("scatter", ir.Controls{X: "a", Y: "b", Z: "None"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, a.Omitted)
	assert.Equal(t, 1, a.Points())
	require.Len(t, a.Series, 2, "a run with no plottable rows keeps its curve")
	assert.Empty(t, a.Series[1].X)

	_, err = json.Marshal(a)
	assert.NoError(t, err, "artifact must serialize")
}

func TestDrill_DefaultCurve(t *testing.T) {
	g := newGraph(t)
	a, err := g.Recompute("drill", defaults(t, g), nil)
	require.NoError(t, err)

	assert.Equal(t, "E1 vs E2 for Run 147115", a.Title)
	assert.Equal(t, 3, a.Rows)
	require.Len(t, a.Series, 1)
	assert.Equal(t, []float64{366239, 366239, 366240}, a.Series[0].ColorValues)
	assert.Equal(t, DefaultDrillColorScale, a.Series[0].ColorScale)
	assert.Equal(t, "Event", a.Axes.Color)
}

func TestDrill_Pointer(t *testing.T) {
	g := newGraph(t)
	c := defaults(t, g)

	tests := []struct {
		curve   int
		run     string
		rows    int
		wantErr bool
	}{
		{0, "147115", 3, false},
		{1, "146436", 2, false},
		{2, "148031", 1, false},
		{3, "", 0, true},
		{-1, "", 0, true},
	}
	for _, tt := range tests {
		p := &ir.PointerEvent{Source: "scatter", Kind: ir.PointerClick, CurveNumber: tt.curve}
		a, err := g.Recompute("drill", c, p)
		if tt.wantErr {
			require.Error(t, err, "curve %d", tt.curve)
			assert.True(t, IsInvalidSelection(err))
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, "E1 vs E2 for Run "+tt.run, a.Title)
		assert.Equal(t, tt.rows, a.Rows)
		assert.Equal(t, tt.rows, a.Points())

		want, err := g.Table().RowsWhere("Run", tt.run)
		require.NoError(t, err)
		require.Len(t, a.Series, 1)
		assert.Equal(t, want, a.Series[0].RowIndex, "drill rows for curve %d", tt.curve)
	}
}

func TestDrill_3D(t *testing.T) {
	g := newGraph(t)
	c := defaults(t, g)
	c.Z = "M"

	a, err := g.Recompute("drill", c, &ir.PointerEvent{Source: "scatter", CurveNumber: 1})
	require.NoError(t, err)
	assert.Equal(t, ir.KindScatter3D, a.Kind)
	assert.Equal(t, "E1 vs E2 vs M for Run 146436", a.Title)
}

func TestDrill_WrongSource(t *testing.T) {
	g := newGraph(t)
	_, err := g.Recompute("drill", defaults(t, g), &ir.PointerEvent{Source: "histogram"})
	assert.True(t, IsInvalidSelection(err))
}

func TestDrill_TextColorColumn(t *testing.T) {
	tbl := loadTable(t, "Run,Tag,a,b\n1,x,1,2\n1,y,2,3\n1,x,3,4\n2,z,4,5\n")
	g, err := New(tbl, Options{DrillColor: "Tag"})
	require.NoError(t, err)

	a, err := g.Recompute("drill", ir.Controls{X: "a", Y: "b", Z: "None"}, nil)
	require.NoError(t, err)
	require.Len(t, a.Series, 2)
	assert.Equal(t, "x", a.Series[0].Name)
	assert.Equal(t, []float64{1, 3}, a.Series[0].X)
	assert.Equal(t, "y", a.Series[1].Name)
}

func TestDrill_NoColorColumn(t *testing.T) {
	g, err := New(loadTable(t, "Run,a,b\n1,1,2\n2,3,4\n"), Options{})
	require.NoError(t, err)

	a, err := g.Recompute("drill", ir.Controls{X: "a", Y: "b", Z: "None"}, &ir.PointerEvent{CurveNumber: 1})
	require.NoError(t, err)
	require.Len(t, a.Series, 1)
	assert.Equal(t, "2", a.Series[0].Name)
	assert.Empty(t, a.Axes.Color)
}

func TestDrill_ConfiguredDefaultCurve(t *testing.T) {
	g, err := New(loadTable(t, "Run,a,b\n1,1,2\n2,3,4\n"), Options{DefaultCurve: 1})
	require.NoError(t, err)

	a, err := g.Recompute("drill", ir.Controls{X: "a", Y: "b", Z: "None"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "a vs b for Run 2", a.Title)
}

func TestHistogram_AllRuns(t *testing.T) {
	g := newGraph(t)
	c := defaults(t, g)
	c.Attribute = "E1"

	a, err := g.Recompute("histogram", c, nil)
	require.NoError(t, err)
	assert.Equal(t, ir.KindHistogram, a.Kind)
	assert.Equal(t, "Histogram of E1 for All Runs", a.Title)
	require.NotNil(t, a.Histogram)
	assert.Len(t, a.Histogram.Counts, DefaultBins)
	assert.Len(t, a.Histogram.Edges, DefaultBins+1)
	assert.Equal(t, 6, a.Histogram.Total())
	assert.Equal(t, 6.61, a.Histogram.Edges[0])
	assert.Equal(t, 65.39, a.Histogram.Edges[DefaultBins])
}

func TestHistogram_SingleRun(t *testing.T) {
	g := newGraph(t)
	c := defaults(t, g)
	c.RunFilter = "148031"
	c.Attribute = "E1"

	a, err := g.Recompute("histogram", c, nil)
	require.NoError(t, err)
	assert.Equal(t, "Histogram of E1 for Run 148031", a.Title)
	assert.Equal(t, 1, a.Histogram.Total())
	assert.Equal(t, 1, a.Rows)
}

func TestHistogram_CountsPlusMissingEqualRows(t *testing.T) {
	g, err := New(loadTable(t, "Run,a\n1,1\n1,\n1,5\n2,7\n"), Options{Bins: 4})
	require.NoError(t, err)

	a, err := g.Recompute("histogram", ir.Controls{RunFilter: "1", Attribute: "a"}, nil)
	require.NoError(t, err)
	assert.Len(t, a.Histogram.Counts, 4)
	assert.Equal(t, 1, a.Histogram.Missing)
	assert.Equal(t, a.Rows, a.Histogram.Total()+a.Histogram.Missing)
}

func TestHistogram_Errors(t *testing.T) {
	g := newGraph(t)

	_, err := g.Recompute("histogram", ir.Controls{RunFilter: "999", Attribute: "E1"}, nil)
	assert.True(t, IsInvalidSelection(err))

	_, err = g.Recompute("histogram", ir.Controls{RunFilter: "Total", Attribute: "Run"}, nil)
	assert.True(t, IsInvalidSelection(err))

	_, err = g.Recompute("histogram", ir.Controls{RunFilter: "Total", Attribute: "nope"}, nil)
	assert.True(t, IsInvalidSelection(err))
}

func TestHistogram_AllMissingIsInsufficient(t *testing.T) {
	g, err := New(loadTable(t, "Run,a\n1,\n2,3\n"), Options{})
	require.NoError(t, err)

	_, err = g.Recompute("histogram", ir.Controls{RunFilter: "1", Attribute: "a"}, nil)
	require.Error(t, err)
	assert.True(t, IsInsufficientData(err))
}

func TestHistogram_ExtremeRange(t *testing.T) {
	g, err := New(loadTable(t, "Run,a\n1,-1e308\n1,1e308\n2,1e17\n2,1e17\n"), Options{})
	require.NoError(t, err)

	for _, run := range []string{"Total", "1", "2"} {
		var a *ir.Artifact
		require.NotPanics(t, func() {
			a, err = g.Recompute("histogram", ir.Controls{RunFilter: run, Attribute: "a"}, nil)
		}, "run filter %s", run)
		require.NoError(t, err)
		assert.Equal(t, a.Rows, a.Histogram.Total(), "run filter %s", run)

		_, err = json.Marshal(a)
		assert.NoError(t, err, "edges must be finite")
	}
}

func TestHeatmap_AllRuns(t *testing.T) {
	g := newGraph(t)
	a, err := g.Recompute("heatmap", defaults(t, g), nil)
	require.NoError(t, err)

	hm := a.Heatmap
	require.NotNil(t, hm)
	assert.Equal(t, "Correlation Matrix for All Runs", a.Title)
	assert.NotContains(t, hm.Labels, "Run")
	assert.Equal(t, g.Table().NumericColumns(), hm.Labels)
	assert.Equal(t, -1.0, hm.ZMin)
	assert.Equal(t, 1.0, hm.ZMax)
	assert.Equal(t, "Blues", hm.ColorScale)

	n := len(hm.Labels)
	require.Len(t, hm.Values, n)
	for i := 0; i < n; i++ {
		assert.Equal(t, 1.0, hm.Values[i][i])
		for j := 0; j < n; j++ {
			assert.Equal(t, hm.Values[i][j], hm.Values[j][i])
			assert.GreaterOrEqual(t, hm.Values[i][j], -1.0)
			assert.LessOrEqual(t, hm.Values[i][j], 1.0)
		}
	}
}

func TestHeatmap_TooFewRows(t *testing.T) {
	g := newGraph(t)
	c := defaults(t, g)
	c.RunFilter = "148031"

	_, err := g.Recompute("heatmap", c, nil)
	require.Error(t, err)
	assert.True(t, IsInsufficientData(err))
}

func TestHeatmap_EmptyTable(t *testing.T) {
	g, err := New(loadTable(t, "Run,a,b\n"), Options{})
	require.NoError(t, err)

	_, err = g.Recompute("heatmap", ir.Controls{RunFilter: "Total"}, nil)
	require.Error(t, err)
	assert.True(t, IsInsufficientData(err))

	var re *RuleError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "heatmap", re.Artifact)
}

func TestHeatmap_ZeroVariance(t *testing.T) {
	g, err := New(loadTable(t, "Run,a,k,b\n1,1,5,3\n1,2,5,1\n1,3,5,2\n"), Options{})
	require.NoError(t, err)

	a, err := g.Recompute("heatmap", ir.Controls{RunFilter: "Total"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"k"}, a.Heatmap.Degenerate)
	assert.Equal(t, 0.0, a.Heatmap.Values[0][1])

	_, err = json.Marshal(a)
	assert.NoError(t, err)
}

func TestHeatmap_ConfiguredColorScale(t *testing.T) {
	g, err := New(loadTable(t, "Run,a,b\n1,1,2\n1,2,1\n"), Options{HeatmapColorScale: "Viridis"})
	require.NoError(t, err)

	a, err := g.Recompute("heatmap", ir.Controls{RunFilter: "Total"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Viridis", a.Heatmap.ColorScale)
	assert.InDelta(t, -1.0, a.Heatmap.Values[0][1], 1e-12)
}

func TestProportion_Pies(t *testing.T) {
	g := newGraph(t)

	a, err := g.Recompute("pie", ir.Controls{}, nil)
	require.NoError(t, err)
	assert.Equal(t, ir.KindPie, a.Kind)
	assert.Equal(t, "E1 by Run", a.Title)
	require.Len(t, a.Slices, 3)

	total := 0.0
	for i, s := range a.Slices {
		assert.Equal(t, g.Runs()[i], s.Label)
		assert.Equal(t, DefaultPieColors[i%2], s.Color)
		total += s.Proportion
	}
	assert.InDelta(t, 1.0, total, 1e-9)
	assert.InDelta(t, 90.86, a.Slices[0].Value, 1e-9)
	assert.InDelta(t, 9.76/227.46, a.Slices[2].Proportion, 1e-9)

	b, err := g.Recompute("pie2", ir.Controls{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "E2 by Run", b.Title)
}

func TestProportion_EqualHalves(t *testing.T) {
	g, err := New(loadTable(t, "Run,E1\n1,10\n1,20\n2,30\n"), Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"scatter", "drill", "histogram", "heatmap", "pie"}, g.Names())

	a, err := g.Recompute("pie", ir.Controls{}, nil)
	require.NoError(t, err)
	require.Len(t, a.Slices, 2)
	assert.Equal(t, "1", a.Slices[0].Label)
	assert.InDelta(t, 30.0, a.Slices[0].Value, 1e-12)
	assert.InDelta(t, 0.5, a.Slices[0].Proportion, 1e-12)
	assert.Equal(t, "2", a.Slices[1].Label)
	assert.InDelta(t, 30.0, a.Slices[1].Value, 1e-12)
	assert.InDelta(t, 0.5, a.Slices[1].Proportion, 1e-12)
}

func TestProportion_IsStatic(t *testing.T) {
	g := newGraph(t)

	a1, err := g.Recompute("pie", ir.Controls{}, nil)
	require.NoError(t, err)
	a2, err := g.Recompute("pie", defaults(t, g), &ir.PointerEvent{Source: "scatter", CurveNumber: 2})
	require.NoError(t, err)
	assert.Same(t, a1, a2, "static artifacts are computed once")
}

func TestProportion_ZeroTotal(t *testing.T) {
	g, err := New(loadTable(t, "Run,E1,E2\n1,0,1\n2,0,2\n"), Options{})
	require.NoError(t, err)

	_, err = g.Recompute("pie", ir.Controls{}, nil)
	require.Error(t, err)
	assert.True(t, IsInsufficientData(err))

	b, err := g.Recompute("pie2", ir.Controls{}, nil)
	require.NoError(t, err)
	assert.InDelta(t, 2.0/3.0, b.Slices[1].Proportion, 1e-12)
}

func TestSummary(t *testing.T) {
	g := newGraph(t)
	s := g.Summary()

	assert.Equal(t, 6, s.Rows)
	assert.Equal(t, 3, s.Runs)
	assert.Equal(t, 2.0, s.AvgRowsPerRun)

	m, ok := s.Mean("E1")
	require.True(t, ok)
	assert.InDelta(t, 227.46/6, m, 1e-9)

	_, ok = s.Mean("Run")
	assert.False(t, ok)
}
