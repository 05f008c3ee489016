package server

import (
	"github.com/roach88/eventdash/internal/engine"
	"github.com/roach88/eventdash/internal/ir"
)

// Error codes specific to the HTTP layer. Rule and load errors carry
// their own codes.
const (
	CodeInvalidRequest  = "INVALID_REQUEST"
	CodeSessionNotFound = "SESSION_NOT_FOUND"
	CodeUnsupportedKind = "UNSUPPORTED_KIND"
	CodeRenderFailed    = "RENDER_FAILED"
	CodeInternalError   = "INTERNAL_ERROR"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Code    string            `json:"code"`
	Details map[string]string `json:"details,omitempty"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Rows    int    `json:"rows"`
}

// ColumnInfo describes one table column.
type ColumnInfo struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

// ColumnsResponse is returned by GET /v1/columns.
type ColumnsResponse struct {
	Key     string       `json:"key"`
	Columns []ColumnInfo `json:"columns"`
}

// RunsResponse is returned by GET /v1/runs.
type RunsResponse struct {
	Runs []string `json:"runs"`
}

// OptionsResponse is returned by GET /v1/options.
type OptionsResponse struct {
	Options  map[ir.ControlName][]string `json:"options"`
	Defaults ir.Controls                 `json:"defaults"`
	Trigger  ir.PointerKind              `json:"trigger"`
}

// SummaryResponse is returned by GET /v1/summary.
type SummaryResponse struct {
	engine.Summary
}

// CreateSessionRequest is the optional body of POST /v1/sessions.
type CreateSessionRequest struct {
	Controls ir.Controls `json:"controls"`
}

// SetControlRequest is the body of PUT /v1/sessions/:id/controls/:control.
type SetControlRequest struct {
	Value *string `json:"value" binding:"required"`
}

// PointerRequest is the body of POST /v1/sessions/:id/pointer.
type PointerRequest struct {
	Source      string `json:"source" binding:"required"`
	Kind        string `json:"kind"`
	CurveNumber *int   `json:"curve_number" binding:"required"`
	PointNumber int    `json:"point_number"`
}
