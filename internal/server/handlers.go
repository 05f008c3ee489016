package server

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/roach88/eventdash/internal/engine"
	"github.com/roach88/eventdash/internal/ir"
	"github.com/roach88/eventdash/internal/render"
	"github.com/roach88/eventdash/internal/session"
)

// Handlers serves the eventdash HTTP API.
type Handlers struct {
	graph    *engine.Graph
	sessions *session.Manager
	metrics  *Metrics
}

// NewHandlers creates handlers over a session manager.
func NewHandlers(sessions *session.Manager, metrics *Metrics) *Handlers {
	return &Handlers{
		graph:    sessions.Graph(),
		sessions: sessions,
		metrics:  metrics,
	}
}

// HandleHealth handles GET /health.
func (h *Handlers) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:  "healthy",
		Version: ir.ServiceVersion,
		Rows:    h.graph.Table().Len(),
	})
}

// HandleColumns handles GET /v1/columns.
func (h *Handlers) HandleColumns(c *gin.Context) {
	t := h.graph.Table()
	resp := ColumnsResponse{Key: t.KeyColumn()}
	for _, name := range t.Columns() {
		col, _ := t.Column(name)
		resp.Columns = append(resp.Columns, ColumnInfo{Name: name, Kind: col.Kind().String()})
	}
	c.JSON(http.StatusOK, resp)
}

// HandleRuns handles GET /v1/runs.
func (h *Handlers) HandleRuns(c *gin.Context) {
	c.JSON(http.StatusOK, RunsResponse{Runs: h.graph.Runs()})
}

// HandleOptions handles GET /v1/options.
func (h *Handlers) HandleOptions(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleOptions")

	defaults, err := h.sessions.DefaultControls()
	if err != nil {
		writeError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, OptionsResponse{
		Options:  h.graph.ControlOptions(),
		Defaults: defaults,
		Trigger:  h.sessions.Trigger(),
	})
}

// HandleSummary handles GET /v1/summary.
func (h *Handlers) HandleSummary(c *gin.Context) {
	c.JSON(http.StatusOK, SummaryResponse{Summary: h.graph.Summary()})
}

// HandleArtifact handles GET /v1/artifacts/:name.
//
// Stateless recompute. Query parameters override the default controls:
//
//	run, attribute, x, y, z - control values
//	curve                   - scatter curve number for the drill-down
//	format=png              - render the artifact instead of returning JSON
//	width, height           - PNG size
func (h *Handlers) HandleArtifact(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	name := c.Param("name")
	logger := slog.With("request_id", requestID, "handler", "HandleArtifact", "artifact", name)

	base, err := h.sessions.DefaultControls()
	if err != nil {
		writeError(c, logger, err)
		return
	}
	overrides := ir.Controls{
		RunFilter: c.Query("run"),
		Attribute: c.Query("attribute"),
		X:         c.Query("x"),
		Y:         c.Query("y"),
		Z:         c.Query("z"),
	}
	controls, err := h.graph.DefaultControls(base.Merge(overrides))
	if err != nil {
		writeError(c, logger, err)
		return
	}

	var pointer *ir.PointerEvent
	if raw, ok := c.GetQuery("curve"); ok {
		curve, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "curve must be an integer", Code: CodeInvalidRequest})
			return
		}
		pointer = &ir.PointerEvent{Source: engine.ArtifactScatter, Kind: ir.PointerClick, CurveNumber: curve}
	}

	start := time.Now()
	a, err := h.graph.Recompute(name, controls, pointer)
	if !engine.IsUnknownArtifact(err) {
		outcome := "ok"
		if err != nil {
			outcome = string(engine.CodeOf(err))
		}
		h.metrics.observeRecompute(name, outcome, time.Since(start))
	}
	if err != nil {
		writeError(c, logger, err)
		return
	}

	c.Header("ETag", `"`+a.Key+`"`)
	if c.Query("format") != "png" {
		c.JSON(http.StatusOK, a)
		return
	}

	width, _ := strconv.Atoi(c.Query("width"))
	height, _ := strconv.Atoi(c.Query("height"))
	var buf bytes.Buffer
	if err := render.PNG(&buf, a, width, height); err != nil {
		writeError(c, logger, err)
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

// HandleCreateSession handles POST /v1/sessions.
func (h *Handlers) HandleCreateSession(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleCreateSession")

	var req CreateSessionRequest
	if c.Request.Body != nil && c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			logger.Warn("Invalid request body", "error", err)
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body", Code: CodeInvalidRequest})
			return
		}
	}

	s, err := h.sessions.Create(req.Controls)
	if err != nil {
		writeError(c, logger, err)
		return
	}
	h.metrics.sessions.Set(float64(h.sessions.Len()))
	logger.Info("session created", "session", s.ID())
	c.JSON(http.StatusCreated, s.State())
}

// HandleGetSession handles GET /v1/sessions/:id.
func (h *Handlers) HandleGetSession(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleGetSession")

	s, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		writeError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, s.State())
}

// HandleDeleteSession handles DELETE /v1/sessions/:id.
func (h *Handlers) HandleDeleteSession(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleDeleteSession")

	if err := h.sessions.Delete(c.Param("id")); err != nil {
		writeError(c, logger, err)
		return
	}
	h.metrics.sessions.Set(float64(h.sessions.Len()))
	c.Status(http.StatusNoContent)
}

// HandleSetControl handles PUT /v1/sessions/:id/controls/:control.
func (h *Handlers) HandleSetControl(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleSetControl")

	name, err := ir.ParseControlName(c.Param("control"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: CodeInvalidRequest})
		return
	}

	var req SetControlRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body", Code: CodeInvalidRequest})
		return
	}

	s, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		writeError(c, logger, err)
		return
	}

	u, err := s.SetControl(name, *req.Value)
	if err != nil {
		writeError(c, logger, err)
		return
	}
	h.metrics.countUpdate(u)
	c.JSON(http.StatusOK, u)
}

// HandlePointer handles POST /v1/sessions/:id/pointer.
func (h *Handlers) HandlePointer(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandlePointer")

	var req PointerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body", Code: CodeInvalidRequest})
		return
	}

	s, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		writeError(c, logger, err)
		return
	}

	u, err := s.Point(ir.PointerEvent{
		Source:      req.Source,
		Kind:        ir.PointerKind(req.Kind),
		CurveNumber: *req.CurveNumber,
		PointNumber: req.PointNumber,
	})
	if err != nil {
		writeError(c, logger, err)
		return
	}
	h.metrics.countUpdate(u)
	c.JSON(http.StatusOK, u)
}

// writeError maps domain errors onto status codes and the error body.
func writeError(c *gin.Context, logger *slog.Logger, err error) {
	var re *engine.RuleError
	switch {
	case errors.As(err, &re):
		status := http.StatusBadRequest
		switch re.Code {
		case engine.ErrCodeInsufficientData:
			status = http.StatusUnprocessableEntity
		case engine.ErrCodeUnknownArtifact:
			status = http.StatusNotFound
		}
		logger.Info("rule rejected request", "code", re.Code, "error", err)
		c.JSON(status, ErrorResponse{Error: re.Message, Code: string(re.Code), Details: re.Details})
	case errors.Is(err, session.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error(), Code: CodeSessionNotFound})
	case errors.Is(err, render.ErrUnsupportedKind):
		c.JSON(http.StatusUnsupportedMediaType, ErrorResponse{Error: err.Error(), Code: CodeUnsupportedKind})
	case errors.Is(err, render.ErrDraw):
		logger.Error("render failed", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error(), Code: CodeRenderFailed})
	case errors.Is(err, render.ErrNoData):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error(), Code: string(engine.ErrCodeInsufficientData)})
	default:
		logger.Error("request failed", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error(), Code: CodeInternalError})
	}
}

// getOrCreateRequestID extracts or generates a request ID.
func getOrCreateRequestID(c *gin.Context) string {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Header("X-Request-ID", requestID)
	return requestID
}
