package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/eventdash/internal/engine"
	"github.com/roach88/eventdash/internal/ir"
	"github.com/roach88/eventdash/internal/session"
)

func stateResult() *Result {
	r := NewResult()
	r.AddTrace(TraceEvent{Op: OpCreate, Session: "session-1", Revision: 1})
	r.AddTrace(TraceEvent{Op: OpSet, Control: "x", Value: "nope", Error: "INVALID_SELECTION", Revision: 1})
	r.AddTrace(TraceEvent{Op: OpPoint, Source: "scatter", Kind: "hover", Ignored: true, Revision: 1})
	r.State = session.State{
		ID:       "session-1",
		Revision: 3,
		Controls: ir.Controls{RunFilter: ir.Total, Attribute: "E1", X: "E1", Y: "E2", Z: ir.None},
		Artifacts: map[string]*ir.Artifact{
			"scatter": {
				Name:  "scatter",
				Kind:  ir.KindScatter2D,
				Title: "E1 vs E2",
				Series: []ir.Series{
					{Name: "a", X: []float64{1, 2}, Y: []float64{3, 4}},
					{Name: "b", X: []float64{5}, Y: []float64{6}},
				},
			},
		},
		Failures: map[string]session.Failure{
			"heatmap": {Code: engine.ErrCodeInsufficientData, Message: "too few rows"},
		},
		Recomputes: map[string]int{"scatter": 2},
	}
	return r
}

func TestEvaluateAssertions_Pass(t *testing.T) {
	assertions := []Assertion{
		{Type: AssertRevision, Revision: 3},
		{Type: AssertControl, Control: "z", Value: ir.None},
		{Type: AssertArtifactKind, Artifact: "scatter", Kind: "scatter2d"},
		{Type: AssertTitle, Artifact: "scatter", Title: "E1 vs E2"},
		{Type: AssertPointCount, Artifact: "scatter", Count: 3},
		{Type: AssertFailure, Artifact: "heatmap", Code: "INSUFFICIENT_DATA"},
		{Type: AssertRecomputeCount, Artifact: "scatter", Count: 2},
		{Type: AssertRecomputeCount, Artifact: "pie", Count: 0},
	}
	assert.Empty(t, EvaluateAssertions(stateResult(), assertions))
}

func TestEvaluateAssertions_Fail(t *testing.T) {
	tests := []struct {
		name      string
		assertion Assertion
		expected  string
		actual    string
	}{
		{"revision", Assertion{Type: AssertRevision, Revision: 4}, "revision 4", "revision 3"},
		{"control", Assertion{Type: AssertControl, Control: "x", Value: "M"}, `x="M"`, `x="E1"`},
		{"kind", Assertion{Type: AssertArtifactKind, Artifact: "scatter", Kind: "pie"}, "kind pie", "kind scatter2d"},
		{"title", Assertion{Type: AssertTitle, Artifact: "scatter", Title: "M vs E2"}, `title "M vs E2"`, `title "E1 vs E2"`},
		{"points", Assertion{Type: AssertPointCount, Artifact: "scatter", Count: 1}, "1 points", "3 points"},
		{"missing artifact", Assertion{Type: AssertTitle, Artifact: "drill", Title: "x"}, "artifact drill present", "artifact never computed"},
		{"no failure", Assertion{Type: AssertFailure, Artifact: "scatter", Code: "INSUFFICIENT_DATA"}, "scatter failed with INSUFFICIENT_DATA", "no failure recorded"},
		{"wrong failure", Assertion{Type: AssertFailure, Artifact: "heatmap", Code: "INVALID_SELECTION"}, "heatmap failed with INVALID_SELECTION", "INSUFFICIENT_DATA"},
		{"recomputes", Assertion{Type: AssertRecomputeCount, Artifact: "scatter", Count: 1}, "scatter recomputed 1 times", "2 times"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := stateResult()
			err := evaluate(r, tt.assertion)
			require.Error(t, err)

			var ae *AssertionError
			require.ErrorAs(t, err, &ae)
			assert.Equal(t, tt.expected, ae.Expected)
			assert.Equal(t, tt.actual, ae.Actual)
			assert.Len(t, ae.Trace, 3)
		})
	}
}

func TestAssertionError_Message(t *testing.T) {
	r := stateResult()
	err := evaluate(r, Assertion{Type: AssertRevision, Revision: 9})
	require.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, "Assertion failed: revision")
	assert.Contains(t, msg, "Expected: revision 9")
	assert.Contains(t, msg, "Actual: revision 3")
	assert.Contains(t, msg, "[1] create session-1 (revision 1)")
	assert.Contains(t, msg, `[2] set x="nope" -> INVALID_SELECTION (revision 1)`)
	assert.Contains(t, msg, "[3] hover scatter curve 0 ignored (revision 1)")
}
