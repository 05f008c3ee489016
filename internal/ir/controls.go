package ir

import (
	"fmt"
	"strings"
)

// ControlName identifies one user-settable selector.
type ControlName string

// The control surface of the dashboard. One control per UI widget.
const (
	ControlRunFilter ControlName = "run_filter"
	ControlAttribute ControlName = "attribute"
	ControlX         ControlName = "x"
	ControlY         ControlName = "y"
	ControlZ         ControlName = "z"
)

// AllControls lists the controls in display order.
var AllControls = []ControlName{ControlRunFilter, ControlAttribute, ControlX, ControlY, ControlZ}

// Sentinel control values.
const (
	// None disables the z axis (2D projection).
	None = "None"

	// Total selects every run in the run filter.
	Total = "Total"
)

// IsNone reports whether v is the "no z axis" sentinel.
// Matching is case-insensitive and the empty string counts as None.
func IsNone(v string) bool {
	return v == "" || strings.EqualFold(v, None)
}

// IsTotal reports whether v selects all runs. "All" is accepted as an alias
// because the dashboard variants disagree on the label.
func IsTotal(v string) bool {
	return strings.EqualFold(v, Total) || strings.EqualFold(v, "All")
}

// Controls is a snapshot of every control value.
// Passed by value into recomputation rules; rules never mutate it.
type Controls struct {
	RunFilter string `json:"run_filter" yaml:"run_filter"`
	Attribute string `json:"attribute" yaml:"attribute"`
	X         string `json:"x" yaml:"x"`
	Y         string `json:"y" yaml:"y"`
	Z         string `json:"z" yaml:"z"`
}

// Get returns the value of the named control.
func (c Controls) Get(name ControlName) (string, bool) {
	switch name {
	case ControlRunFilter:
		return c.RunFilter, true
	case ControlAttribute:
		return c.Attribute, true
	case ControlX:
		return c.X, true
	case ControlY:
		return c.Y, true
	case ControlZ:
		return c.Z, true
	}
	return "", false
}

// With returns a copy of c with the named control set to value.
func (c Controls) With(name ControlName, value string) (Controls, error) {
	switch name {
	case ControlRunFilter:
		c.RunFilter = value
	case ControlAttribute:
		c.Attribute = value
	case ControlX:
		c.X = value
	case ControlY:
		c.Y = value
	case ControlZ:
		c.Z = value
	default:
		return c, fmt.Errorf("unknown control %q", name)
	}
	return c, nil
}

// Merge returns c with every non-empty field of o applied on top.
func (c Controls) Merge(o Controls) Controls {
	for _, name := range AllControls {
		if v, _ := o.Get(name); v != "" {
			c, _ = c.With(name, v)
		}
	}
	return c
}

// Normalized returns c with sentinel aliases replaced by their canonical
// spelling ("All" becomes Total, "none" becomes None).
func (c Controls) Normalized() Controls {
	if IsTotal(c.RunFilter) {
		c.RunFilter = Total
	}
	if IsNone(c.Z) {
		c.Z = None
	}
	return c
}

// Project returns the subset of controls named in names as an IRObject,
// suitable for fingerprinting.
func (c Controls) Project(names []ControlName) IRObject {
	obj := make(IRObject, len(names))
	for _, name := range names {
		v, _ := c.Get(name)
		obj[string(name)] = IRString(v)
	}
	return obj
}

// ParseControlName validates a control name from an external source.
func ParseControlName(s string) (ControlName, error) {
	for _, name := range AllControls {
		if string(name) == s {
			return name, nil
		}
	}
	return "", fmt.Errorf("unknown control %q", s)
}
