package engine

import (
	"fmt"
	"slices"

	"github.com/roach88/eventdash/internal/ir"
)

// Default positions of the axis selectors in the column list.
const (
	defaultXIndex = 2
	defaultYIndex = 10
)

// ControlOptions returns the domain of every control, computed on demand
// from the table. Sentinels come first.
func (g *Graph) ControlOptions() map[ir.ControlName][]string {
	columns := g.table.Columns()
	return map[ir.ControlName][]string{
		ir.ControlRunFilter: append([]string{ir.Total}, g.runs...),
		ir.ControlAttribute: g.attributes(),
		ir.ControlX:         columns,
		ir.ControlY:         slices.Clone(columns),
		ir.ControlZ:         append([]string{ir.None}, columns...),
	}
}

// attributes lists the numeric non-key columns.
func (g *Graph) attributes() []string {
	return g.table.NumericColumns()
}

// ValidateControl reports whether value is in the domain of the named
// control. Out-of-domain values yield an INVALID_SELECTION RuleError.
func (g *Graph) ValidateControl(name ir.ControlName, value string) error {
	invalid := func(msg string) error {
		return NewInvalidSelection("", msg, map[string]string{
			"control": string(name),
			"value":   value,
		})
	}

	switch name {
	case ir.ControlRunFilter:
		if ir.IsTotal(value) || slices.Contains(g.runs, value) {
			return nil
		}
		return invalid(fmt.Sprintf("unknown run %q", value))
	case ir.ControlAttribute:
		if slices.Contains(g.attributes(), value) {
			return nil
		}
		return invalid(fmt.Sprintf("attribute %q is not a numeric column", value))
	case ir.ControlX, ir.ControlY:
		if g.table.HasColumn(value) {
			return nil
		}
		return invalid(fmt.Sprintf("unknown column %q", value))
	case ir.ControlZ:
		if ir.IsNone(value) || g.table.HasColumn(value) {
			return nil
		}
		return invalid(fmt.Sprintf("unknown column %q", value))
	}
	return invalid(fmt.Sprintf("unknown control %q", name))
}

// DefaultControls returns the initial selections with every non-empty
// field of overrides applied, validated against the table.
//
// Defaults: run_filter Total, attribute the first numeric column, x the
// third column, y the eleventh, z None. Short tables clamp to the last
// column. A table with no numeric column has no attribute; it stays empty
// and only the histogram rejects it.
func (g *Graph) DefaultControls(overrides ir.Controls) (ir.Controls, error) {
	columns := g.table.Columns()
	pick := func(i int) string {
		if i >= len(columns) {
			i = len(columns) - 1
		}
		return columns[i]
	}

	c := ir.Controls{
		RunFilter: ir.Total,
		X:         pick(defaultXIndex),
		Y:         pick(defaultYIndex),
		Z:         ir.None,
	}
	if attrs := g.attributes(); len(attrs) > 0 {
		c.Attribute = attrs[0]
	}
	c = c.Merge(overrides)

	for _, name := range ir.AllControls {
		v, _ := c.Get(name)
		if name == ir.ControlAttribute && v == "" && len(g.attributes()) == 0 {
			continue
		}
		if err := g.ValidateControl(name, v); err != nil {
			return c, err
		}
	}
	return normalize(c), nil
}
