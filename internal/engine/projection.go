package engine

import (
	"fmt"
	"math"

	"github.com/roach88/eventdash/internal/ir"
	"github.com/roach88/eventdash/internal/store"
)

// axis reads one plotted coordinate. Text columns are encoded as the index
// of the value in the column's category list.
type axis struct {
	col   *store.Column
	cats  []string
	codes map[string]int
}

func (g *Graph) axis(artifact string, control ir.ControlName, name string) (*axis, error) {
	col, ok := g.table.Column(name)
	if !ok {
		return nil, NewInvalidSelection(artifact, fmt.Sprintf("unknown column %q", name), map[string]string{
			"control": string(control),
			"value":   name,
		})
	}
	a := &axis{col: col}
	if col.IsNumeric() {
		return a, nil
	}

	values, _ := g.table.UniqueValues(name)
	a.codes = make(map[string]int, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		a.codes[v] = len(a.cats)
		a.cats = append(a.cats, v)
	}
	return a, nil
}

func (a *axis) value(row int) (float64, bool) {
	if a.col.IsNumeric() {
		v := a.col.Float(row)
		return v, !math.IsNaN(v)
	}
	code, ok := a.codes[a.col.Text(row)]
	return float64(code), ok
}

// projection maps rows to 2D or 3D points.
type projection struct {
	x, y, z *axis
	names   ir.Controls
}

func (g *Graph) projection(artifact string, c ir.Controls) (*projection, error) {
	p := &projection{names: c}
	var err error
	if p.x, err = g.axis(artifact, ir.ControlX, c.X); err != nil {
		return nil, err
	}
	if p.y, err = g.axis(artifact, ir.ControlY, c.Y); err != nil {
		return nil, err
	}
	if !ir.IsNone(c.Z) {
		if p.z, err = g.axis(artifact, ir.ControlZ, c.Z); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *projection) is3D() bool { return p.z != nil }

func (p *projection) kind() ir.ArtifactKind {
	if p.is3D() {
		return ir.KindScatter3D
	}
	return ir.KindScatter2D
}

func (p *projection) title() string {
	if p.is3D() {
		return fmt.Sprintf("%s vs %s vs %s", p.names.X, p.names.Y, p.names.Z)
	}
	return fmt.Sprintf("%s vs %s", p.names.X, p.names.Y)
}

func (p *projection) axes(color string) *ir.Axes {
	a := &ir.Axes{
		X:           p.names.X,
		Y:           p.names.Y,
		Color:       color,
		XCategories: p.x.cats,
		YCategories: p.y.cats,
	}
	if p.is3D() {
		a.Z = p.names.Z
		a.ZCategories = p.z.cats
	}
	return a
}

func (p *projection) newSeries(name, color string) ir.Series {
	s := ir.Series{
		Name:     name,
		Color:    color,
		X:        []float64{},
		Y:        []float64{},
		RowIndex: []int{},
	}
	if p.is3D() {
		s.Z = []float64{}
	}
	return s
}

// appendRow adds row to s, reporting false if any coordinate is missing.
func (p *projection) appendRow(s *ir.Series, row int) bool {
	x, okX := p.x.value(row)
	y, okY := p.y.value(row)
	if !okX || !okY {
		return false
	}
	if p.is3D() {
		z, ok := p.z.value(row)
		if !ok {
			return false
		}
		s.Z = append(s.Z, z)
	}
	s.X = append(s.X, x)
	s.Y = append(s.Y, y)
	s.RowIndex = append(s.RowIndex, row)
	return true
}

func (g *Graph) color(i int) string {
	return g.opts.Palette[i%len(g.opts.Palette)]
}
