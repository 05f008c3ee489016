package engine

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/roach88/eventdash/internal/ir"
	"github.com/roach88/eventdash/internal/store"
)

// rule computes one artifact. The returned artifact's Key is filled in by
// Recompute.
type rule func(g *Graph, c ir.Controls, p *ir.PointerEvent) (*ir.Artifact, error)

// node is one artifact in the graph with its declared inputs.
type node struct {
	name     string
	controls []ir.ControlName
	pointer  string // source artifact whose pointer events feed this node
	static   bool
	rule     rule
}

type cached struct {
	artifact *ir.Artifact
	err      error
}

// Graph is the view-state graph over one table.
//
// Thread-safety: a Graph is immutable after New and safe for concurrent use.
type Graph struct {
	table *store.Table
	opts  Options
	runs  []string

	nodes  []*node // declaration order
	index  map[string]*node
	static map[string]cached

	summary Summary
}

// New builds the graph for table t. Static artifacts are computed here.
//
// New fails if an explicitly configured proportion or drill color column
// is not in the table.
func New(t *store.Table, opts Options) (*Graph, error) {
	if t == nil {
		return nil, fmt.Errorf("engine.New: nil table")
	}
	opts, err := resolveOptions(t, opts)
	if err != nil {
		return nil, err
	}

	runs, err := t.UniqueValues(t.KeyColumn())
	if err != nil {
		return nil, fmt.Errorf("engine.New: %w", err)
	}

	g := &Graph{
		table:  t,
		opts:   opts,
		runs:   runs,
		index:  make(map[string]*node),
		static: make(map[string]cached),
	}

	g.add(&node{
		name:     ArtifactScatter,
		controls: []ir.ControlName{ir.ControlX, ir.ControlY, ir.ControlZ},
		rule:     scatterRule,
	})
	g.add(&node{
		name:     ArtifactDrill,
		controls: []ir.ControlName{ir.ControlX, ir.ControlY, ir.ControlZ},
		pointer:  ArtifactScatter,
		rule:     drillRule,
	})
	g.add(&node{
		name:     ArtifactHistogram,
		controls: []ir.ControlName{ir.ControlRunFilter, ir.ControlAttribute},
		rule:     histogramRule,
	})
	g.add(&node{
		name:     ArtifactHeatmap,
		controls: []ir.ControlName{ir.ControlRunFilter},
		rule:     heatmapRule,
	})
	for _, p := range opts.Proportions {
		if _, dup := g.index[p.Name]; dup {
			return nil, fmt.Errorf("engine.New: duplicate artifact name %q", p.Name)
		}
		g.add(&node{name: p.Name, static: true, rule: proportionRule(p)})
	}

	for _, n := range g.nodes {
		if !n.static {
			continue
		}
		a, err := n.rule(g, ir.Controls{}, nil)
		if err == nil {
			a.Key = ir.MustArtifactKey(n.name, ir.IRObject{}, nil)
		} else {
			slog.Warn("static artifact unavailable", "artifact", n.name, "error", err)
		}
		g.static[n.name] = cached{artifact: a, err: err}
	}

	g.summary = computeSummary(t, runs)
	return g, nil
}

func (g *Graph) add(n *node) {
	g.nodes = append(g.nodes, n)
	g.index[n.name] = n
}

func resolveOptions(t *store.Table, opts Options) (Options, error) {
	if opts.Bins <= 0 {
		opts.Bins = DefaultBins
	}
	if opts.HeatmapColorScale == "" {
		opts.HeatmapColorScale = DefaultHeatmapColorScale
	}
	if opts.DrillColorScale == "" {
		opts.DrillColorScale = DefaultDrillColorScale
	}
	if len(opts.Palette) == 0 {
		opts.Palette = DefaultPalette
	}
	if opts.DefaultCurve < 0 {
		return opts, fmt.Errorf("engine.New: default curve %d is negative", opts.DefaultCurve)
	}

	switch {
	case opts.DrillColor == "":
		if t.HasColumn(DefaultDrillColor) {
			opts.DrillColor = DefaultDrillColor
		} else {
			opts.DrillColor = ir.None
		}
	case ir.IsNone(opts.DrillColor):
		opts.DrillColor = ir.None
	case !t.HasColumn(opts.DrillColor):
		return opts, fmt.Errorf("engine.New: drill color column %q: %w", opts.DrillColor, store.ErrUnknownColumn)
	}

	if opts.Proportions == nil {
		for _, p := range DefaultProportions() {
			if t.HasColumn(p.Column) {
				opts.Proportions = append(opts.Proportions, p)
			}
		}
	} else {
		for _, p := range opts.Proportions {
			if p.Name == "" {
				return opts, fmt.Errorf("engine.New: proportion for column %q has no name", p.Column)
			}
			c, ok := t.Column(p.Column)
			if !ok {
				return opts, fmt.Errorf("engine.New: proportion %q column %q: %w", p.Name, p.Column, store.ErrUnknownColumn)
			}
			if !c.IsNumeric() {
				return opts, fmt.Errorf("engine.New: proportion %q column %q is not numeric", p.Name, p.Column)
			}
		}
	}
	for i := range opts.Proportions {
		if len(opts.Proportions[i].Colors) == 0 {
			opts.Proportions[i].Colors = DefaultPieColors
		}
	}
	return opts, nil
}

// Table returns the table the graph reads.
func (g *Graph) Table() *store.Table { return g.table }

// Runs returns the distinct key values in first-occurrence order.
// Index i is curve number i of the scatter.
func (g *Graph) Runs() []string { return slices.Clone(g.runs) }

// Names returns the artifact names in declaration order.
func (g *Graph) Names() []string {
	names := make([]string, len(g.nodes))
	for i, n := range g.nodes {
		names[i] = n.name
	}
	return names
}

// Inputs returns the controls an artifact reads and the pointer source it
// consumes ("" if none).
func (g *Graph) Inputs(name string) ([]ir.ControlName, string, error) {
	n, ok := g.index[name]
	if !ok {
		return nil, "", newUnknownArtifact(name)
	}
	return slices.Clone(n.controls), n.pointer, nil
}

// IsStatic reports whether the artifact is computed once and never again.
func (g *Graph) IsStatic(name string) bool {
	n, ok := g.index[name]
	return ok && n.static
}

// Dependents returns the artifacts that read control, in declaration order.
func (g *Graph) Dependents(control ir.ControlName) []string {
	var names []string
	for _, n := range g.nodes {
		if slices.Contains(n.controls, control) {
			names = append(names, n.name)
		}
	}
	return names
}

// PointerDependents returns the artifacts that consume pointer events from
// source, in declaration order.
func (g *Graph) PointerDependents(source string) []string {
	var names []string
	for _, n := range g.nodes {
		if n.pointer != "" && n.pointer == source {
			names = append(names, n.name)
		}
	}
	return names
}

// Recompute produces the named artifact from the controls and the last
// pointer event. Only the controls the artifact reads are consulted; a
// pointer is ignored by artifacts that do not consume one.
//
// Static artifacts return their cached result, error included.
func (g *Graph) Recompute(name string, c ir.Controls, p *ir.PointerEvent) (*ir.Artifact, error) {
	n, ok := g.index[name]
	if !ok {
		return nil, newUnknownArtifact(name)
	}
	if n.static {
		s := g.static[name]
		return s.artifact, s.err
	}

	c = normalize(c)
	if n.pointer == "" {
		p = nil
	}
	a, err := n.rule(g, c, p)
	if err != nil {
		return nil, err
	}

	var keyPointer *ir.PointerEvent
	if n.pointer != "" {
		eff := g.effectivePointer(n, p)
		keyPointer = &eff
	}
	a.Key = ir.MustArtifactKey(name, c.Project(n.controls), keyPointer)
	return a, nil
}

// effectivePointer returns the event the node actually used, substituting
// the default curve when none was given.
func (g *Graph) effectivePointer(n *node, p *ir.PointerEvent) ir.PointerEvent {
	if p == nil {
		return ir.PointerEvent{Source: n.pointer, Kind: ir.PointerClick, CurveNumber: g.opts.DefaultCurve}
	}
	eff := *p
	eff.Source = n.pointer
	return eff
}

// normalize canonicalizes sentinel aliases so equal selections fingerprint
// equally.
func normalize(c ir.Controls) ir.Controls {
	return c.Normalized()
}
