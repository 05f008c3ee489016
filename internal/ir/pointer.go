package ir

import "fmt"

// PointerKind distinguishes an explicit click from a passive hover.
type PointerKind string

const (
	PointerClick PointerKind = "click"
	PointerHover PointerKind = "hover"
)

// ParsePointerKind validates a pointer kind. Empty means click.
func ParsePointerKind(s string) (PointerKind, error) {
	switch PointerKind(s) {
	case "", PointerClick:
		return PointerClick, nil
	case PointerHover:
		return PointerHover, nil
	}
	return "", fmt.Errorf("unknown pointer kind %q: must be click or hover", s)
}

// PointerEvent records which plotted element was last hovered or clicked.
// CurveNumber indexes the source artifact's series list.
type PointerEvent struct {
	Source      string      `json:"source" yaml:"source"`
	Kind        PointerKind `json:"kind" yaml:"kind"`
	CurveNumber int         `json:"curve_number" yaml:"curve_number"`
	PointNumber int         `json:"point_number,omitempty" yaml:"point_number,omitempty"`
}

// toIR converts the event to an IRObject for fingerprinting.
// PointNumber is left out: the drill-down only reads the curve.
func (p PointerEvent) toIR() IRObject {
	return IRObject{
		"source":       IRString(p.Source),
		"curve_number": IRInt(p.CurveNumber),
	}
}
