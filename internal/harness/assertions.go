package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/eventdash/internal/ir"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nFull trace:\n")
	for _, ev := range e.Trace {
		fmt.Fprintf(&buf, "  [%d] %s", ev.Seq, describeStep(ev))
		if ev.Error != "" {
			fmt.Fprintf(&buf, " -> %s", ev.Error)
		}
		fmt.Fprintf(&buf, " (revision %d)\n", ev.Revision)
	}

	return buf.String()
}

func describeStep(ev TraceEvent) string {
	switch ev.Op {
	case OpSet:
		return fmt.Sprintf("set %s=%q", ev.Control, ev.Value)
	case OpPoint:
		s := fmt.Sprintf("%s %s curve %d", ev.Kind, ev.Source, ev.CurveNumber)
		if ev.Ignored {
			s += " ignored"
		}
		return s
	default:
		return fmt.Sprintf("%s %s", ev.Op, ev.Session)
	}
}

// EvaluateAssertions checks every assertion against the result's final
// state and returns the failure messages.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errs []string
	for _, a := range assertions {
		if err := evaluate(result, a); err != nil {
			errs = append(errs, err.Error())
		}
	}
	return errs
}

func evaluate(result *Result, a Assertion) error {
	st := result.State
	fail := func(expected, actual string) error {
		return &AssertionError{Type: a.Type, Expected: expected, Actual: actual, Trace: result.Trace}
	}

	switch a.Type {
	case AssertRevision:
		if st.Revision != a.Revision {
			return fail(fmt.Sprintf("revision %d", a.Revision), fmt.Sprintf("revision %d", st.Revision))
		}
		return nil

	case AssertControl:
		got, _ := st.Controls.Get(ir.ControlName(a.Control))
		if got != a.Value {
			return fail(fmt.Sprintf("%s=%q", a.Control, a.Value), fmt.Sprintf("%s=%q", a.Control, got))
		}
		return nil

	case AssertFailure:
		f, ok := st.Failures[a.Artifact]
		if !ok {
			return fail(fmt.Sprintf("%s failed with %s", a.Artifact, a.Code), "no failure recorded")
		}
		if string(f.Code) != a.Code {
			return fail(fmt.Sprintf("%s failed with %s", a.Artifact, a.Code), string(f.Code))
		}
		return nil

	case AssertRecomputeCount:
		if got := st.Recomputes[a.Artifact]; got != a.Count {
			return fail(fmt.Sprintf("%s recomputed %d times", a.Artifact, a.Count),
				fmt.Sprintf("%d times", got))
		}
		return nil
	}

	art, ok := st.Artifacts[a.Artifact]
	if !ok || art == nil {
		return fail(fmt.Sprintf("artifact %s present", a.Artifact), "artifact never computed")
	}

	switch a.Type {
	case AssertArtifactKind:
		if string(art.Kind) != a.Kind {
			return fail(fmt.Sprintf("kind %s", a.Kind), fmt.Sprintf("kind %s", art.Kind))
		}
	case AssertTitle:
		if art.Title != a.Title {
			return fail(fmt.Sprintf("title %q", a.Title), fmt.Sprintf("title %q", art.Title))
		}
	case AssertPointCount:
		if got := art.Points(); got != a.Count {
			return fail(fmt.Sprintf("%d points", a.Count), fmt.Sprintf("%d points", got))
		}
	default:
		return fail("known assertion type", fmt.Sprintf("unknown assertion type %q", a.Type))
	}
	return nil
}
