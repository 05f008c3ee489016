package harness

import "github.com/roach88/eventdash/internal/session"

// Step operations recorded in the trace.
const (
	OpCreate = "create"
	OpSet    = "set"
	OpPoint  = "point"
)

// TraceEvent records one interaction and what it changed.
type TraceEvent struct {
	Seq      int64  `json:"seq"`
	Op       string `json:"op"` // "create", "set" or "point"
	Revision int64  `json:"revision"`
	Session  string `json:"session,omitempty"`

	// Set steps.
	Control string `json:"control,omitempty"`
	Value   string `json:"value,omitempty"`

	// Point steps.
	Source      string `json:"source,omitempty"`
	Kind        string `json:"kind,omitempty"`
	CurveNumber int    `json:"curve_number,omitempty"`
	PointNumber int    `json:"point_number,omitempty"`

	Ignored bool   `json:"ignored,omitempty"`
	Error   string `json:"error,omitempty"` // rule error code of a rejected step

	Recomputed []string          `json:"recomputed,omitempty"`
	Failures   map[string]string `json:"failures,omitempty"` // artifact -> code
	Titles     map[string]string `json:"titles,omitempty"`   // fresh artifacts only
	Points     map[string]int    `json:"points,omitempty"`   // fresh scatter artifacts only
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true if every expect clause and assertion held.
	Pass bool `json:"pass"`

	// Trace contains one event per step, session creation first.
	Trace []TraceEvent `json:"trace"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// State is the session state after the last step.
	State session.State `json:"-"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddTrace appends an event, numbering it after the last one.
func (r *Result) AddTrace(ev TraceEvent) {
	ev.Seq = int64(len(r.Trace) + 1)
	r.Trace = append(r.Trace, ev)
}
