package session

import (
	"log/slog"
	"slices"
	"sync"

	"github.com/roach88/eventdash/internal/engine"
	"github.com/roach88/eventdash/internal/ir"
)

// Options configures a Manager.
type Options struct {
	// Trigger is the pointer kind that drives the drill-down. Empty means
	// click.
	Trigger ir.PointerKind

	// Defaults override the graph's default controls for new sessions.
	Defaults ir.Controls

	// NewClock creates each session's revision clock. Nil means NewClock.
	NewClock func() RevisionClock
}

// Manager creates and tracks sessions over one graph.
type Manager struct {
	graph    *engine.Graph
	ids      IDGenerator
	trigger  ir.PointerKind
	defaults ir.Controls
	newClock func() RevisionClock

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates a Manager. ids nil means UUIDv7Generator.
func NewManager(g *engine.Graph, ids IDGenerator, opts Options) *Manager {
	if ids == nil {
		ids = UUIDv7Generator{}
	}
	if opts.Trigger == "" {
		opts.Trigger = ir.PointerClick
	}
	if opts.NewClock == nil {
		opts.NewClock = func() RevisionClock { return NewClock() }
	}
	return &Manager{
		graph:    g,
		ids:      ids,
		trigger:  opts.Trigger,
		defaults: opts.Defaults,
		newClock: opts.NewClock,
		sessions: make(map[string]*Session),
	}
}

// Graph returns the shared graph.
func (m *Manager) Graph() *engine.Graph { return m.graph }

// Trigger returns the pointer kind sessions respond to.
func (m *Manager) Trigger() ir.PointerKind { return m.trigger }

// DefaultControls returns the controls a new session starts with.
func (m *Manager) DefaultControls() (ir.Controls, error) {
	return m.graph.DefaultControls(m.defaults)
}

// Create starts a session with the default controls, overridden by every
// non-empty field of overrides, and computes every artifact once.
func (m *Manager) Create(overrides ir.Controls) (*Session, error) {
	controls, err := m.graph.DefaultControls(m.defaults.Merge(overrides))
	if err != nil {
		return nil, err
	}

	id := m.ids.Generate()
	s := newSession(id, m.graph, controls, m.trigger, m.newClock())

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()

	slog.Debug("session created", "session", id, "trigger", m.trigger)
	return s, nil
}

// Get looks up a session.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, notFound(id)
	}
	return s, nil
}

// Delete removes a session.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return notFound(id)
	}
	delete(m.sessions, id)
	slog.Debug("session deleted", "session", id)
	return nil
}

// IDs returns the live session IDs, sorted.
func (m *Manager) IDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
