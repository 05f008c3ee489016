// Package render draws artifacts as PNG images with go-chart.
//
// Only the flat chart kinds are supported: 2D scatter, histogram and pie.
// 3D scatters and heatmaps are left to the client, which receives the
// artifact as JSON.
package render

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/roach88/eventdash/internal/ir"
)

// Default image size.
const (
	DefaultWidth  = 1024
	DefaultHeight = 640
)

var (
	// ErrUnsupportedKind is returned for artifact kinds with no PNG form.
	ErrUnsupportedKind = errors.New("unsupported artifact kind")

	// ErrNoData is returned when an artifact has nothing to draw.
	ErrNoData = errors.New("artifact has no data to draw")

	// ErrDraw wraps failures from the chart library or the writer.
	ErrDraw = errors.New("draw failed")
)

// PNG renders a to w. Zero width or height selects the default.
func PNG(w io.Writer, a *ir.Artifact, width, height int) error {
	if a == nil {
		return ErrNoData
	}
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}

	var err error
	switch a.Kind {
	case ir.KindScatter2D:
		err = scatterPNG(w, a, width, height)
	case ir.KindHistogram:
		err = histogramPNG(w, a, width, height)
	case ir.KindPie:
		err = piePNG(w, a, width, height)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedKind, a.Kind)
	}
	if err != nil && !errors.Is(err, ErrNoData) {
		return fmt.Errorf("%w: %s: %w", ErrDraw, a.Name, err)
	}
	return err
}

// Supports reports whether kind has a PNG rendering.
func Supports(kind ir.ArtifactKind) bool {
	switch kind {
	case ir.KindScatter2D, ir.KindHistogram, ir.KindPie:
		return true
	}
	return false
}

// pointStyle returns a style that renders points only (no connecting line)
func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: 0,
		StrokeColor: drawing.ColorTransparent,
		DotWidth:    4,
		DotColor:    col,
	}
}

func scatterPNG(w io.Writer, a *ir.Artifact, width, height int) error {
	var series []chart.Series
	xr, yr := newSpan(), newSpan()
	for i, s := range a.Series {
		if len(s.X) == 0 {
			continue
		}
		for k := range s.X {
			xr.add(s.X[k])
			yr.add(s.Y[k])
		}
		series = append(series, chart.ContinuousSeries{
			Name:    s.Name,
			XValues: s.X,
			YValues: s.Y,
			Style:   pointStyle(parseColor(s.Color, i)),
		})
	}
	if len(series) == 0 {
		return ErrNoData
	}

	var xName, yName string
	if a.Axes != nil {
		xName, yName = a.Axes.X, a.Axes.Y
	}
	ch := chart.Chart{
		Title:      a.Title,
		Width:      width,
		Height:     height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16}},
		XAxis:      chart.XAxis{Name: xName, Range: xr.rangeOf()},
		YAxis:      chart.YAxis{Name: yName, Range: yr.rangeOf()},
		Series:     series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return ch.Render(chart.PNG, w)
}

func histogramPNG(w io.Writer, a *ir.Artifact, width, height int) error {
	h := a.Histogram
	if h == nil || len(h.Counts) == 0 {
		return ErrNoData
	}

	bars := make([]chart.Value, len(h.Counts))
	for i, c := range h.Counts {
		bars[i] = chart.Value{
			Value: float64(c),
			Label: binLabel(h, i),
			Style: chart.Style{FillColor: parseColor("#636EFA", 0), StrokeColor: drawing.ColorWhite},
		}
	}

	barWidth := (width - 80) / len(bars)
	if barWidth < 2 {
		barWidth = 2
	}
	bc := chart.BarChart{
		Title:      a.Title,
		Width:      width,
		Height:     height,
		BarWidth:   barWidth,
		BarSpacing: 1,
		Background: chart.Style{Padding: chart.Box{Top: 40}},
		Bars:       bars,
	}
	return bc.Render(chart.PNG, w)
}

// binLabel labels every fifth bin with its lower edge to keep the axis legible.
func binLabel(h *ir.Histogram, i int) string {
	if i%5 != 0 {
		return ""
	}
	return strconv.FormatFloat(h.Edges[i], 'g', 4, 64)
}

func piePNG(w io.Writer, a *ir.Artifact, width, height int) error {
	if len(a.Slices) == 0 {
		return ErrNoData
	}
	values := make([]chart.Value, len(a.Slices))
	for i, s := range a.Slices {
		values[i] = chart.Value{
			Value: s.Value,
			Label: fmt.Sprintf("%s (%.1f%%)", s.Label, 100*s.Proportion),
			Style: chart.Style{FillColor: parseColor(s.Color, i)},
		}
	}
	pc := chart.PieChart{
		Title:  a.Title,
		Width:  width,
		Height: height,
		Values: values,
	}
	return pc.Render(chart.PNG, w)
}

// parseColor reads "#RRGGBB". Anything else falls back to the default
// series color at index i.
func parseColor(hex string, i int) drawing.Color {
	s := strings.TrimPrefix(hex, "#")
	if len(s) == 6 {
		if v, err := strconv.ParseUint(s, 16, 32); err == nil {
			return drawing.Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}
		}
	}
	return chart.GetDefaultColor(i)
}

// span tracks the extent of plotted values so single-valued axes still get
// a non-zero range.
type span struct{ min, max float64 }

func newSpan() *span { return &span{min: math.Inf(1), max: math.Inf(-1)} }

func (s *span) add(v float64) {
	s.min = math.Min(s.min, v)
	s.max = math.Max(s.max, v)
}

func (s *span) rangeOf() *chart.ContinuousRange {
	lo, hi := s.min, s.max
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	pad := (hi - lo) * 0.05
	return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}
