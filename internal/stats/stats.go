// Package stats wraps the gonum routines the recomputation rules need.
// Inputs may contain NaN for missing values; every function here skips
// them explicitly.
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Bins is the result of an equal-width histogram.
type Bins struct {
	Edges   []float64
	Counts  []int
	Missing int
}

// Histogram buckets values into n equal-width bins spanning [min, max].
// The last bin is closed so the maximum is counted. A constant input gets
// a unit-wide range centred on the value. NaN values count as missing.
func Histogram(values []float64, n int) Bins {
	if n < 1 {
		n = 1
	}
	present := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			present = append(present, v)
		}
	}
	missing := len(values) - len(present)
	if len(present) == 0 {
		return Bins{Edges: []float64{}, Counts: []int{}, Missing: missing}
	}
	sort.Float64s(present)

	lo, hi := present[0], present[len(present)-1]
	if lo == hi {
		w := math.Max(0.5, math.Abs(lo)*1e-9)
		lo = math.Max(lo-w, -math.MaxFloat64)
		hi = math.Min(hi+w, math.MaxFloat64)
	}
	edges := span(lo, hi, n)

	// stat.Histogram treats the upper divider as exclusive.
	dividers := make([]float64, len(edges))
	copy(dividers, edges)
	dividers[n] = math.Nextafter(hi, math.Inf(1))

	raw := stat.Histogram(nil, dividers, present, nil)
	counts := make([]int, n)
	for i, c := range raw {
		counts[i] = int(c)
	}
	return Bins{Edges: edges, Counts: counts, Missing: missing}
}

// span returns n+1 ascending edges from lo to hi. When hi-lo overflows the
// edges are interpolated from the endpoints instead.
func span(lo, hi float64, n int) []float64 {
	edges := make([]float64, n+1)
	if !math.IsInf(hi-lo, 0) {
		floats.Span(edges, lo, hi)
	} else {
		for i := range edges {
			t := float64(i) / float64(n)
			edges[i] = lo*(1-t) + hi*t
		}
	}
	edges[0], edges[n] = lo, hi
	for i := 1; i <= n; i++ {
		if edges[i] < edges[i-1] {
			edges[i] = edges[i-1]
		}
	}
	return edges
}

// Mean returns the mean of the non-NaN values and how many there were.
// The mean of nothing is NaN.
func Mean(values []float64) (float64, int) {
	present := dropNaN(values)
	if len(present) == 0 {
		return math.NaN(), 0
	}
	return stat.Mean(present, nil), len(present)
}

// Sum returns the sum of the non-NaN values.
func Sum(values []float64) float64 {
	return floats.Sum(dropNaN(values))
}

// Correlation is a Pearson correlation matrix.
type Correlation struct {
	Values [][]float64

	// Degenerate[i] is true when column i has no defined correlation with
	// any other column.
	Degenerate []bool
}

// CorrelationMatrix computes pairwise Pearson correlations between columns.
// Each pair uses the rows where both values are present. Undefined cells
// (zero variance, or fewer than two complete pairs) are 0 off the diagonal;
// the diagonal is always 1.
func CorrelationMatrix(columns [][]float64) Correlation {
	n := len(columns)
	values := make([][]float64, n)
	for i := range values {
		values[i] = make([]float64, n)
		values[i][i] = 1
	}
	defined := make([]bool, n)

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			r, ok := pairCorrelation(columns[i], columns[j])
			if !ok {
				continue
			}
			values[i][j], values[j][i] = r, r
			defined[i], defined[j] = true, true
		}
	}

	degenerate := make([]bool, n)
	for i := range degenerate {
		degenerate[i] = n > 1 && !defined[i]
	}
	return Correlation{Values: values, Degenerate: degenerate}
}

func pairCorrelation(a, b []float64) (float64, bool) {
	var x, y []float64
	for k := range a {
		if math.IsNaN(a[k]) || math.IsNaN(b[k]) {
			continue
		}
		x = append(x, a[k])
		y = append(y, b[k])
	}
	if len(x) < 2 || constant(x) || constant(y) {
		return 0, false
	}
	r := stat.Correlation(x, y, nil)
	if math.IsNaN(r) {
		return 0, false
	}
	return math.Max(-1, math.Min(1, r)), true
}

func constant(xs []float64) bool {
	for _, v := range xs[1:] {
		if v != xs[0] {
			return false
		}
	}
	return true
}

func dropNaN(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}
