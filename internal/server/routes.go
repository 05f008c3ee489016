package server

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes registers the /v1 endpoints on the given router group.
//
// Read-only endpoints:
//
//	GET  /v1/columns          - column names and kinds
//	GET  /v1/runs             - distinct runs, in curve order
//	GET  /v1/options          - control domains and defaults
//	GET  /v1/summary          - headline figures
//	GET  /v1/artifacts/:name  - stateless recompute (JSON or PNG)
//
// Session endpoints:
//
//	POST   /v1/sessions                        - create a session
//	GET    /v1/sessions/:id                    - session state
//	DELETE /v1/sessions/:id                    - delete a session
//	PUT    /v1/sessions/:id/controls/:control  - change one control
//	POST   /v1/sessions/:id/pointer            - apply a pointer event
func RegisterRoutes(rg *gin.RouterGroup, h *Handlers) {
	rg.GET("/columns", h.HandleColumns)
	rg.GET("/runs", h.HandleRuns)
	rg.GET("/options", h.HandleOptions)
	rg.GET("/summary", h.HandleSummary)
	rg.GET("/artifacts/:name", h.HandleArtifact)

	sessions := rg.Group("/sessions")
	sessions.POST("", h.HandleCreateSession)
	sessions.GET("/:id", h.HandleGetSession)
	sessions.DELETE("/:id", h.HandleDeleteSession)
	sessions.PUT("/:id/controls/:control", h.HandleSetControl)
	sessions.POST("/:id/pointer", h.HandlePointer)
}

// NewRouter builds the full router: health, metrics and /v1.
func NewRouter(h *Handlers, m *Metrics) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestCounter(m))

	router.GET("/health", h.HandleHealth)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})))

	RegisterRoutes(router.Group("/v1"), h)
	return router
}

// requestCounter counts requests by matched route so path parameters do
// not explode label cardinality.
func requestCounter(m *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requestTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
	}
}
