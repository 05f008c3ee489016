package harness

import (
	"fmt"
	"maps"
	"slices"
	"sort"

	"github.com/roach88/eventdash/internal/engine"
	"github.com/roach88/eventdash/internal/ir"
	"github.com/roach88/eventdash/internal/session"
	"github.com/roach88/eventdash/internal/testutil"
)

// Harness runs steps against one session.
type Harness struct {
	graph   *engine.Graph
	manager *session.Manager
	clock   *testutil.DeterministicClock
}

// Run executes a scenario and returns the result.
//
// Each scenario gets its own Manager over g, so scenarios never share
// sessions. The returned error reports a harness failure (the session
// could not be created, or a step failed with something other than a rule
// error); expectation and assertion failures land in Result.Errors.
func Run(g *engine.Graph, scenario *Scenario) (*Result, error) {
	trigger, err := ir.ParsePointerKind(scenario.Trigger)
	if err != nil {
		return nil, err
	}

	clock := testutil.NewDeterministicClock()
	h := &Harness{
		graph: g,
		clock: clock,
		manager: session.NewManager(g, testutil.NewSequentialIDGenerator(""), session.Options{
			Trigger:  trigger,
			NewClock: func() session.RevisionClock { return clock },
		}),
	}

	overrides := ir.Controls{}
	for _, name := range sortedKeys(scenario.Controls) {
		cn, err := ir.ParseControlName(name)
		if err != nil {
			return nil, err
		}
		if overrides, err = overrides.With(cn, scenario.Controls[name]); err != nil {
			return nil, err
		}
	}

	sess, err := h.manager.Create(overrides)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	result := NewResult()
	h.traceCreate(sess, result)

	for i, step := range scenario.Steps {
		if err := h.executeStep(sess, i, step, result); err != nil {
			return nil, fmt.Errorf("steps[%d]: %w", i, err)
		}
	}

	result.State = sess.State()
	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

// traceCreate records the initial computation of every artifact.
func (h *Harness) traceCreate(sess *session.Session, result *Result) {
	st := sess.State()
	ev := TraceEvent{
		Op:         OpCreate,
		Session:    sess.ID(),
		Revision:   st.Revision,
		Recomputed: h.graph.Names(),
	}
	if len(st.Failures) > 0 {
		ev.Failures = make(map[string]string, len(st.Failures))
		for name, f := range st.Failures {
			ev.Failures[name] = string(f.Code)
		}
	}
	describe(&ev, st.Artifacts)
	result.AddTrace(ev)
}

// executeStep applies one step, records it and checks its expect clause.
func (h *Harness) executeStep(sess *session.Session, i int, step Step, result *Result) error {
	var (
		ev  TraceEvent
		u   *session.Update
		err error
	)

	if step.Set != "" {
		name, perr := ir.ParseControlName(step.Set)
		if perr != nil {
			return perr
		}
		ev = TraceEvent{Op: OpSet, Control: step.Set, Value: step.Value}
		u, err = sess.SetControl(name, step.Value)
	} else {
		p := *step.Point
		ev = TraceEvent{
			Op:          OpPoint,
			Source:      p.Source,
			Kind:        string(p.Kind),
			CurveNumber: p.CurveNumber,
			PointNumber: p.PointNumber,
		}
		if ev.Kind == "" {
			ev.Kind = string(ir.PointerClick)
		}
		u, err = sess.Point(p)
	}

	if err != nil {
		code := engine.CodeOf(err)
		if code == "" {
			return err
		}
		ev.Error = string(code)
		ev.Revision = h.clock.Current()
	} else {
		ev.Revision = u.Revision
		ev.Ignored = u.Ignored
		if len(u.Recomputed) > 0 {
			ev.Recomputed = slices.Clone(u.Recomputed)
		}
		if len(u.Failures) > 0 {
			ev.Failures = make(map[string]string, len(u.Failures))
			for name, f := range u.Failures {
				ev.Failures[name] = string(f.Code)
			}
		}
		describe(&ev, u.Artifacts)
	}
	result.AddTrace(ev)

	for _, msg := range checkExpect(i, step.Expect, ev) {
		result.AddError(msg)
	}
	return nil
}

// describe fills the title and point summaries of freshly computed artifacts.
func describe(ev *TraceEvent, artifacts map[string]*ir.Artifact) {
	for name, a := range artifacts {
		if a == nil {
			continue
		}
		if ev.Titles == nil {
			ev.Titles = make(map[string]string)
		}
		ev.Titles[name] = a.Title
		if a.Kind == ir.KindScatter2D || a.Kind == ir.KindScatter3D {
			if ev.Points == nil {
				ev.Points = make(map[string]int)
			}
			ev.Points[name] = a.Points()
		}
	}
}

// checkExpect compares a traced step against its expect clause.
func checkExpect(i int, expect *ExpectClause, ev TraceEvent) []string {
	var errs []string
	if expect == nil {
		if ev.Error != "" {
			errs = append(errs, fmt.Sprintf("steps[%d]: unexpected error %s", i, ev.Error))
		}
		return errs
	}

	if ev.Error != expect.Error {
		errs = append(errs, fmt.Sprintf("steps[%d]: expected error %q, got %q", i, expect.Error, ev.Error))
	}
	if expect.Ignored != nil && *expect.Ignored != ev.Ignored {
		errs = append(errs, fmt.Sprintf("steps[%d]: expected ignored=%t, got %t", i, *expect.Ignored, ev.Ignored))
	}
	if expect.Recomputed != nil && !slices.Equal(expect.Recomputed, ev.Recomputed) {
		errs = append(errs, fmt.Sprintf("steps[%d]: expected recomputed %v, got %v", i, expect.Recomputed, ev.Recomputed))
	}
	if expect.Failures != nil && !maps.Equal(expect.Failures, ev.Failures) {
		errs = append(errs, fmt.Sprintf("steps[%d]: expected failures %v, got %v", i, expect.Failures, ev.Failures))
	}
	return errs
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
