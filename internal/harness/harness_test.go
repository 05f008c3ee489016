package harness

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/eventdash/internal/engine"
	"github.com/roach88/eventdash/internal/ir"
	"github.com/roach88/eventdash/internal/store"
	"github.com/roach88/eventdash/internal/testutil"
)

// scenariosDir holds the bundled scenarios shipped with the repository.
const scenariosDir = "../../testdata/scenarios"

func newGraph(t *testing.T) *engine.Graph {
	t.Helper()
	tbl, err := store.LoadCSV(strings.NewReader(testutil.EventsCSV), "events.csv", store.Options{})
	require.NoError(t, err)
	g, err := engine.New(tbl, engine.Options{})
	require.NoError(t, err)
	return g
}

func minimalScenario(steps ...Step) *Scenario {
	return &Scenario{
		Name:        "minimal",
		Description: "minimal scenario",
		Steps:       steps,
		Assertions:  []Assertion{{Type: AssertRevision, Revision: 1}},
	}
}

func TestRun_BundledScenarios(t *testing.T) {
	g := newGraph(t)

	files, err := FindScenarios(scenariosDir, "")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, file := range files {
		t.Run(filepath.Base(file), func(t *testing.T) {
			scenario, err := LoadScenario(file)
			require.NoError(t, err)

			result, err := Run(g, scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestRunWithGolden_DrillFollowsClick(t *testing.T) {
	scenario, err := LoadScenario(filepath.Join(scenariosDir, "drill_follows_click.yaml"))
	require.NoError(t, err)

	result, err := RunWithGolden(t, newGraph(t), scenario, filepath.Join(scenariosDir, GoldenDir))
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRun_Deterministic(t *testing.T) {
	scenario, err := LoadScenario(filepath.Join(scenariosDir, "drill_follows_click.yaml"))
	require.NoError(t, err)
	g := newGraph(t)

	r1, err := Run(g, scenario)
	require.NoError(t, err)
	r2, err := Run(g, scenario)
	require.NoError(t, err)

	s1, err := Snapshot(scenario, r1)
	require.NoError(t, err)
	s2, err := Snapshot(scenario, r2)
	require.NoError(t, err)
	assert.Equal(t, string(s1), string(s2))
}

func TestRun_TraceCreate(t *testing.T) {
	g := newGraph(t)
	result, err := Run(g, minimalScenario(Step{Point: &ir.PointerEvent{Source: "scatter", Kind: ir.PointerHover}, Expect: &ExpectClause{}}))
	require.NoError(t, err)

	require.Len(t, result.Trace, 2)
	create := result.Trace[0]
	assert.Equal(t, OpCreate, create.Op)
	assert.Equal(t, int64(1), create.Seq)
	assert.Equal(t, int64(1), create.Revision)
	assert.Equal(t, "session-1", create.Session)
	assert.Equal(t, g.Names(), create.Recomputed)
	assert.Equal(t, "E1 vs E2", create.Titles["scatter"])
	assert.Equal(t, 6, create.Points["scatter"])
	assert.Equal(t, 3, create.Points["drill"])
	assert.NotContains(t, create.Points, "histogram")

	hover := result.Trace[1]
	assert.Equal(t, int64(2), hover.Seq)
	assert.True(t, hover.Ignored)
	assert.Equal(t, int64(1), hover.Revision)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRun_UnexpectedErrorFailsStep(t *testing.T) {
	result, err := Run(newGraph(t), minimalScenario(Step{Set: "x", Value: "nope"}))
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.NotEmpty(t, result.Errors)
	assert.Contains(t, result.Errors[0], "unexpected error INVALID_SELECTION")
	assert.Equal(t, "INVALID_SELECTION", result.Trace[1].Error)
	assert.Equal(t, int64(1), result.Trace[1].Revision)
}

func TestRun_ExpectMismatches(t *testing.T) {
	yes := true
	tests := []struct {
		name   string
		step   Step
		errMsg string
	}{
		{
			name:   "error expected but step succeeded",
			step:   Step{Set: "y", Value: "M", Expect: &ExpectClause{Error: "INVALID_SELECTION"}},
			errMsg: `expected error "INVALID_SELECTION", got ""`,
		},
		{
			name:   "ignored expected but accepted",
			step:   Step{Point: &ir.PointerEvent{Source: "scatter", CurveNumber: 1}, Expect: &ExpectClause{Ignored: &yes}},
			errMsg: "expected ignored=true, got false",
		},
		{
			name:   "wrong recomputed list",
			step:   Step{Set: "attribute", Value: "E1", Expect: &ExpectClause{Recomputed: []string{"heatmap"}}},
			errMsg: "expected recomputed [heatmap], got [histogram]",
		},
		{
			name:   "unexpected failure",
			step:   Step{Set: "run_filter", Value: "148031", Expect: &ExpectClause{Failures: map[string]string{}}},
			errMsg: "expected failures map[], got map[heatmap:INSUFFICIENT_DATA]",
		},
	}

	g := newGraph(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Run(g, minimalScenario(tt.step))
			require.NoError(t, err)
			assert.False(t, result.Pass)
			assert.Contains(t, strings.Join(result.Errors, "\n"), tt.errMsg)
		})
	}
}

func TestRun_ControlOverrides(t *testing.T) {
	s := minimalScenario(Step{Set: "run_filter", Value: "all"})
	s.Controls = map[string]string{"x": "M", "z": "E2"}
	s.Assertions = []Assertion{
		{Type: AssertArtifactKind, Artifact: "scatter", Kind: "scatter3d"},
		{Type: AssertTitle, Artifact: "scatter", Title: "M vs E2 vs E2"},
		{Type: AssertControl, Control: "run_filter", Value: ir.Total},
		{Type: AssertRevision, Revision: 2},
	}

	result, err := Run(newGraph(t), s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRun_InvalidOverridesFailCreation(t *testing.T) {
	s := minimalScenario(Step{Set: "x", Value: "E1"})
	s.Controls = map[string]string{"attribute": "Run"}

	_, err := Run(newGraph(t), s)
	require.Error(t, err)
	assert.True(t, engine.IsInvalidSelection(err))
}
