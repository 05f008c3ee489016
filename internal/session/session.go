package session

import (
	"log/slog"
	"maps"
	"sync"

	"github.com/roach88/eventdash/internal/engine"
	"github.com/roach88/eventdash/internal/ir"
)

// Failure records why an artifact could not be recomputed.
type Failure struct {
	Code    engine.RuleErrorCode `json:"code"`
	Message string               `json:"message"`
}

// Update reports the outcome of one control change or pointer event.
type Update struct {
	// Revision is the session revision after the change.
	Revision int64 `json:"revision"`

	// Ignored is set when a pointer event did not match the trigger mode
	// or had no dependents. Nothing changed.
	Ignored bool `json:"ignored,omitempty"`

	// Recomputed lists the artifacts that were recomputed, in graph order.
	Recomputed []string `json:"recomputed"`

	// Artifacts holds the new artifacts that succeeded.
	Artifacts map[string]*ir.Artifact `json:"artifacts"`

	// Failures holds the artifacts that kept their previous version.
	Failures map[string]Failure `json:"failures,omitempty"`
}

// State is a point-in-time copy of a session.
type State struct {
	ID         string                  `json:"id"`
	Revision   int64                   `json:"revision"`
	Controls   ir.Controls             `json:"controls"`
	Pointer    *ir.PointerEvent        `json:"pointer,omitempty"`
	Trigger    ir.PointerKind          `json:"trigger"`
	Artifacts  map[string]*ir.Artifact `json:"artifacts"`
	Failures   map[string]Failure      `json:"failures,omitempty"`
	Recomputes map[string]int          `json:"recomputes"`
}

// Session is one client's view state over a shared graph.
type Session struct {
	id      string
	graph   *engine.Graph
	trigger ir.PointerKind
	clock   RevisionClock

	mu         sync.Mutex
	controls   ir.Controls
	pointer    *ir.PointerEvent
	artifacts  map[string]*ir.Artifact
	failures   map[string]Failure
	recomputes map[string]int
}

func newSession(id string, g *engine.Graph, controls ir.Controls, trigger ir.PointerKind, clock RevisionClock) *Session {
	s := &Session{
		id:         id,
		graph:      g,
		trigger:    trigger,
		clock:      clock,
		controls:   controls,
		artifacts:  make(map[string]*ir.Artifact),
		failures:   make(map[string]Failure),
		recomputes: make(map[string]int),
	}
	s.recompute(g.Names(), controls, nil)
	s.clock.Next()
	return s
}

// ID returns the session ID.
func (s *Session) ID() string { return s.id }

// State returns a copy of the session's current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := State{
		ID:         s.id,
		Revision:   s.clock.Current(),
		Controls:   s.controls,
		Trigger:    s.trigger,
		Artifacts:  maps.Clone(s.artifacts),
		Recomputes: maps.Clone(s.recomputes),
	}
	if len(s.failures) > 0 {
		st.Failures = maps.Clone(s.failures)
	}
	if s.pointer != nil {
		p := *s.pointer
		st.Pointer = &p
	}
	return st
}

// Artifact returns the last good version of the named artifact.
func (s *Session) Artifact(name string) (*ir.Artifact, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.artifacts[name]
	return a, ok
}

// SetControl changes one control and recomputes its dependents.
//
// An out-of-domain value returns an INVALID_SELECTION error and leaves the
// session untouched, revision included. Dependents that fail keep their
// previous artifact and are listed in Update.Failures.
func (s *Session) SetControl(name ir.ControlName, value string) (*Update, error) {
	if err := s.graph.ValidateControl(name, value); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := s.controls.With(name, value)
	if err != nil {
		return nil, err
	}
	s.controls = next.Normalized()
	snapshot := s.controls

	deps := s.graph.Dependents(name)
	u := s.recompute(deps, snapshot, s.pointer)
	u.Revision = s.clock.Next()

	slog.Debug("control changed",
		"session", s.id,
		"control", name,
		"value", value,
		"revision", u.Revision,
		"recomputed", len(u.Recomputed),
		"failed", len(u.Failures),
	)
	return u, nil
}

// Point applies a pointer event.
//
// Events whose kind differs from the session's trigger mode, or whose
// source feeds no artifact, are ignored. Otherwise every pointer dependent
// is recomputed; if any rejects the event the error is returned and
// neither the stored pointer nor any artifact changes.
func (s *Session) Point(ev ir.PointerEvent) (*Update, error) {
	kind, err := ir.ParsePointerKind(string(ev.Kind))
	if err != nil {
		return nil, engine.NewInvalidSelection("", err.Error(), map[string]string{"kind": string(ev.Kind)})
	}
	ev.Kind = kind

	s.mu.Lock()
	defer s.mu.Unlock()

	deps := s.graph.PointerDependents(ev.Source)
	if kind != s.trigger || len(deps) == 0 {
		return &Update{Revision: s.clock.Current(), Ignored: true, Artifacts: map[string]*ir.Artifact{}}, nil
	}

	snapshot := s.controls
	fresh := make(map[string]*ir.Artifact, len(deps))
	for _, name := range deps {
		a, err := s.graph.Recompute(name, snapshot, &ev)
		if err != nil {
			return nil, err
		}
		fresh[name] = a
	}

	for _, name := range deps {
		s.artifacts[name] = fresh[name]
		delete(s.failures, name)
		s.recomputes[name]++
	}
	p := ev
	s.pointer = &p

	u := &Update{
		Revision:   s.clock.Next(),
		Recomputed: deps,
		Artifacts:  fresh,
	}
	slog.Debug("pointer accepted",
		"session", s.id,
		"source", ev.Source,
		"curve", ev.CurveNumber,
		"revision", u.Revision,
	)
	return u, nil
}

// recompute runs the named artifacts against a controls snapshot.
// Static artifacts are served from the graph cache. Caller holds s.mu or
// owns s exclusively.
func (s *Session) recompute(names []string, c ir.Controls, p *ir.PointerEvent) *Update {
	u := &Update{
		Recomputed: names,
		Artifacts:  make(map[string]*ir.Artifact, len(names)),
	}
	for _, name := range names {
		a, err := s.graph.Recompute(name, c, p)
		s.recomputes[name]++
		if err != nil {
			f := failureOf(err)
			s.failures[name] = f
			if u.Failures == nil {
				u.Failures = make(map[string]Failure)
			}
			u.Failures[name] = f
			slog.Debug("artifact kept previous version",
				"session", s.id,
				"artifact", name,
				"code", f.Code,
				"error", err,
			)
			continue
		}
		s.artifacts[name] = a
		delete(s.failures, name)
		u.Artifacts[name] = a
	}
	return u
}

func failureOf(err error) Failure {
	return Failure{Code: engine.CodeOf(err), Message: err.Error()}
}
