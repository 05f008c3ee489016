package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sum(xs []int) int {
	n := 0
	for _, x := range xs {
		n += x
	}
	return n
}

func TestHistogram_CountsEveryValue(t *testing.T) {
	values := []float64{1, 2, 2, 3, 4, 5, 5, 5, 9, 10}
	b := Histogram(values, 40)

	require.Len(t, b.Counts, 40)
	require.Len(t, b.Edges, 41)
	assert.Equal(t, len(values), sum(b.Counts))
	assert.Equal(t, 0, b.Missing)
	assert.Equal(t, 1.0, b.Edges[0])
	assert.Equal(t, 10.0, b.Edges[40])
	assert.Equal(t, 1, b.Counts[39], "max lands in the closed last bin")
}

func TestHistogram_EqualWidth(t *testing.T) {
	b := Histogram([]float64{0, 10}, 5)
	assert.InDeltaSlice(t, []float64{0, 2, 4, 6, 8, 10}, b.Edges, 1e-12)
	assert.Equal(t, []int{1, 0, 0, 0, 1}, b.Counts)
}

func TestHistogram_MissingValues(t *testing.T) {
	b := Histogram([]float64{1, math.NaN(), 3, math.NaN()}, 4)
	assert.Equal(t, 2, b.Missing)
	assert.Equal(t, 2, sum(b.Counts))
}

func TestHistogram_ConstantInput(t *testing.T) {
	b := Histogram([]float64{7, 7, 7}, 4)
	assert.Equal(t, 6.5, b.Edges[0])
	assert.Equal(t, 7.5, b.Edges[4])
	assert.Equal(t, 3, sum(b.Counts))
}

func TestHistogram_RangeOverflows(t *testing.T) {
	values := []float64{-1e308, 0, 1e308}
	var b Bins
	require.NotPanics(t, func() { b = Histogram(values, 40) })

	require.Len(t, b.Edges, 41)
	assert.Equal(t, -1e308, b.Edges[0])
	assert.Equal(t, 1e308, b.Edges[40])
	for i, e := range b.Edges {
		assert.False(t, math.IsNaN(e) || math.IsInf(e, 0), "edge %d = %g", i, e)
		if i > 0 {
			assert.GreaterOrEqual(t, e, b.Edges[i-1])
		}
	}
	assert.Equal(t, 3, sum(b.Counts))
	assert.Equal(t, 1, b.Counts[0])
	assert.Equal(t, 1, b.Counts[39])
}

func TestHistogram_ConstantLargeMagnitude(t *testing.T) {
	for _, v := range []float64{1e17, -1e17, math.MaxFloat64} {
		var b Bins
		require.NotPanics(t, func() { b = Histogram([]float64{v, v}, 4) })
		assert.Less(t, b.Edges[0], b.Edges[4], "value %g", v)
		assert.Equal(t, 2, sum(b.Counts), "value %g", v)
	}
}

func TestHistogram_Empty(t *testing.T) {
	b := Histogram(nil, 40)
	assert.Empty(t, b.Counts)
	assert.Empty(t, b.Edges)

	b = Histogram([]float64{math.NaN()}, 40)
	assert.Empty(t, b.Counts)
	assert.Equal(t, 1, b.Missing)
}

func TestMean(t *testing.T) {
	m, n := Mean([]float64{1, 2, math.NaN(), 3})
	assert.Equal(t, 2.0, m)
	assert.Equal(t, 3, n)

	m, n = Mean([]float64{math.NaN()})
	assert.True(t, math.IsNaN(m))
	assert.Zero(t, n)
}

func TestSum(t *testing.T) {
	assert.Equal(t, 6.0, Sum([]float64{1, math.NaN(), 5}))
	assert.Equal(t, 0.0, Sum(nil))
}

func TestCorrelationMatrix(t *testing.T) {
	a := []float64{1, 2, 3, 4}
	b := []float64{2, 4, 6, 8}
	c := []float64{4, 3, 2, 1}
	m := CorrelationMatrix([][]float64{a, b, c})

	for i := 0; i < 3; i++ {
		assert.Equal(t, 1.0, m.Values[i][i])
		for j := 0; j < 3; j++ {
			assert.Equal(t, m.Values[i][j], m.Values[j][i], "symmetric")
			assert.LessOrEqual(t, math.Abs(m.Values[i][j]), 1.0)
		}
	}
	assert.InDelta(t, 1.0, m.Values[0][1], 1e-12)
	assert.InDelta(t, -1.0, m.Values[0][2], 1e-12)
	assert.Equal(t, []bool{false, false, false}, m.Degenerate)
}

func TestCorrelationMatrix_ZeroVariance(t *testing.T) {
	m := CorrelationMatrix([][]float64{
		{1, 2, 3},
		{5, 5, 5},
		{3, 1, 2},
	})
	assert.Equal(t, []bool{false, true, false}, m.Degenerate)
	assert.Equal(t, 0.0, m.Values[0][1])
	assert.Equal(t, 1.0, m.Values[1][1])
}

func TestCorrelationMatrix_PairwiseComplete(t *testing.T) {
	nan := math.NaN()
	m := CorrelationMatrix([][]float64{
		{1, 2, nan, 4},
		{2, 4, 100, 8},
	})
	assert.InDelta(t, 1.0, m.Values[0][1], 1e-12)
}
