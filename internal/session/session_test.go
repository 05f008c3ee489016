package session

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/eventdash/internal/engine"
	"github.com/roach88/eventdash/internal/ir"
	"github.com/roach88/eventdash/internal/store"
	"github.com/roach88/eventdash/internal/testutil"
)

func newManager(t *testing.T, opts Options) *Manager {
	t.Helper()
	tbl, err := store.LoadCSV(strings.NewReader(testutil.EventsCSV), "events.csv", store.Options{})
	require.NoError(t, err)
	g, err := engine.New(tbl, engine.Options{})
	require.NoError(t, err)
	if opts.NewClock == nil {
		opts.NewClock = func() RevisionClock { return testutil.NewDeterministicClock() }
	}
	return NewManager(g, testutil.NewSequentialIDGenerator("s"), opts)
}

func newSessionT(t *testing.T, opts Options) *Session {
	t.Helper()
	s, err := newManager(t, opts).Create(ir.Controls{})
	require.NoError(t, err)
	return s
}

func TestCreate_ComputesEverything(t *testing.T) {
	s := newSessionT(t, Options{})
	st := s.State()

	assert.Equal(t, "s-1", st.ID)
	assert.Equal(t, int64(1), st.Revision)
	assert.Equal(t, ir.PointerClick, st.Trigger)
	assert.Nil(t, st.Pointer)
	assert.Len(t, st.Artifacts, 6)
	assert.Empty(t, st.Failures)
	for name, n := range st.Recomputes {
		assert.Equal(t, 1, n, name)
	}
	assert.Equal(t, "E1 vs E2 for Run 147115", st.Artifacts["drill"].Title)
}

func TestCreate_InvalidOverride(t *testing.T) {
	m := newManager(t, Options{})
	_, err := m.Create(ir.Controls{X: "nope"})
	require.Error(t, err)
	assert.True(t, engine.IsInvalidSelection(err))
	assert.Equal(t, 0, m.Len())
}

func TestCreate_ManagerDefaults(t *testing.T) {
	m := newManager(t, Options{Defaults: ir.Controls{Attribute: "M"}})

	s, err := m.Create(ir.Controls{})
	require.NoError(t, err)
	assert.Equal(t, "M", s.State().Controls.Attribute)

	s2, err := m.Create(ir.Controls{Attribute: "E1"})
	require.NoError(t, err)
	assert.Equal(t, "E1", s2.State().Controls.Attribute)
}

func TestSetControl_RecomputesDependentsOnly(t *testing.T) {
	s := newSessionT(t, Options{})
	before := s.State()

	u, err := s.SetControl(ir.ControlZ, "M")
	require.NoError(t, err)
	assert.Equal(t, []string{"scatter", "drill"}, u.Recomputed)
	assert.Equal(t, int64(2), u.Revision)
	assert.Equal(t, ir.KindScatter3D, u.Artifacts["scatter"].Kind)

	after := s.State()
	assert.Equal(t, 2, after.Recomputes["scatter"])
	assert.Equal(t, 1, after.Recomputes["histogram"])
	assert.Same(t, before.Artifacts["histogram"], after.Artifacts["histogram"])
}

func TestSetControl_InvalidLeavesStateUnchanged(t *testing.T) {
	s := newSessionT(t, Options{})
	before := s.State()

	_, err := s.SetControl(ir.ControlRunFilter, "999")
	require.Error(t, err)
	assert.True(t, engine.IsInvalidSelection(err))

	assert.Equal(t, before, s.State())
}

func TestSetControl_FailureKeepsLastGood(t *testing.T) {
	s := newSessionT(t, Options{})
	good, _ := s.Artifact("heatmap")

	u, err := s.SetControl(ir.ControlRunFilter, "148031")
	require.NoError(t, err)

	require.Contains(t, u.Failures, "heatmap")
	assert.Equal(t, engine.ErrCodeInsufficientData, u.Failures["heatmap"].Code)
	assert.Contains(t, u.Artifacts, "histogram")

	kept, _ := s.Artifact("heatmap")
	assert.Same(t, good, kept)
	assert.Contains(t, s.State().Failures, "heatmap")

	_, err = s.SetControl(ir.ControlRunFilter, "Total")
	require.NoError(t, err)
	assert.Empty(t, s.State().Failures, "success clears the failure")
}

func TestPoint_Click(t *testing.T) {
	s := newSessionT(t, Options{})

	u, err := s.Point(ir.PointerEvent{Source: "scatter", Kind: ir.PointerClick, CurveNumber: 1})
	require.NoError(t, err)
	assert.False(t, u.Ignored)
	assert.Equal(t, []string{"drill"}, u.Recomputed)
	assert.Equal(t, "E1 vs E2 for Run 146436", u.Artifacts["drill"].Title)

	st := s.State()
	require.NotNil(t, st.Pointer)
	assert.Equal(t, 1, st.Pointer.CurveNumber)

	// Later axis changes keep drilling into the same run.
	_, err = s.SetControl(ir.ControlX, "M")
	require.NoError(t, err)
	drill, _ := s.Artifact("drill")
	assert.Equal(t, "M vs E2 for Run 146436", drill.Title)
}

func TestPoint_EmptyKindIsClick(t *testing.T) {
	s := newSessionT(t, Options{})
	u, err := s.Point(ir.PointerEvent{Source: "scatter", CurveNumber: 2})
	require.NoError(t, err)
	assert.False(t, u.Ignored)
}

func TestPoint_HoverIgnoredUnderClickTrigger(t *testing.T) {
	s := newSessionT(t, Options{})
	before := s.State()

	u, err := s.Point(ir.PointerEvent{Source: "scatter", Kind: ir.PointerHover, CurveNumber: 2})
	require.NoError(t, err)
	assert.True(t, u.Ignored)
	assert.Equal(t, before, s.State())
}

func TestPoint_HoverTrigger(t *testing.T) {
	s := newSessionT(t, Options{Trigger: ir.PointerHover})

	u, err := s.Point(ir.PointerEvent{Source: "scatter", Kind: ir.PointerHover, CurveNumber: 2})
	require.NoError(t, err)
	assert.False(t, u.Ignored)

	u, err = s.Point(ir.PointerEvent{Source: "scatter", Kind: ir.PointerClick, CurveNumber: 0})
	require.NoError(t, err)
	assert.True(t, u.Ignored)
}

func TestPoint_OutOfRangeRejected(t *testing.T) {
	s := newSessionT(t, Options{})
	_, err := s.Point(ir.PointerEvent{Source: "scatter", Kind: ir.PointerClick, CurveNumber: 1})
	require.NoError(t, err)
	before := s.State()

	_, err = s.Point(ir.PointerEvent{Source: "scatter", Kind: ir.PointerClick, CurveNumber: 3})
	require.Error(t, err)
	assert.True(t, engine.IsInvalidSelection(err))
	assert.Equal(t, before, s.State(), "rejected pointer must not be stored")
}

func TestPoint_UnknownSourceIgnored(t *testing.T) {
	s := newSessionT(t, Options{})
	u, err := s.Point(ir.PointerEvent{Source: "histogram", Kind: ir.PointerClick})
	require.NoError(t, err)
	assert.True(t, u.Ignored)
}

func TestPoint_BadKind(t *testing.T) {
	s := newSessionT(t, Options{})
	_, err := s.Point(ir.PointerEvent{Source: "scatter", Kind: "drag"})
	assert.True(t, engine.IsInvalidSelection(err))
}

func TestPies_NeverRecomputed(t *testing.T) {
	s := newSessionT(t, Options{})
	pie, _ := s.Artifact("pie")

	for _, name := range ir.AllControls {
		opts := s.graph.ControlOptions()[name]
		_, err := s.SetControl(name, opts[len(opts)-1])
		require.NoError(t, err)
	}
	_, err := s.Point(ir.PointerEvent{Source: "scatter", CurveNumber: 2})
	require.NoError(t, err)

	st := s.State()
	assert.Equal(t, 1, st.Recomputes["pie"])
	assert.Equal(t, 1, st.Recomputes["pie2"])
	assert.Same(t, pie, st.Artifacts["pie"])
}

func TestSession_ConcurrentUpdates(t *testing.T) {
	s := newSessionT(t, Options{})
	const n = 20

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			col := "E1"
			if i%2 == 0 {
				col = "M"
			}
			_, err := s.SetControl(ir.ControlX, col)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int64(n+1), s.State().Revision)
}
