// Package httpapi serves the presentation model (events, day toggles,
// legend, diagnostics) plus health, readiness, and metrics endpoints.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/punsnhoses-dot/my-event-map/internal/domain"
	"github.com/punsnhoses-dot/my-event-map/internal/index"
	"github.com/punsnhoses-dot/my-event-map/internal/ingest"
)

// Server exposes the event map API over HTTP.
type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	svc        *ingest.Service
	logger     *slog.Logger
}

// NewServer builds the gin engine and routes.
func NewServer(addr string, svc *ingest.Service, logger *slog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		engine: engine,
		svc:    svc,
		logger: logger,
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      engine,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}

	engine.GET("/healthz", s.handleHealth)
	engine.GET("/readyz", s.handleReady)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := engine.Group("/api")
	api.GET("/events", s.handleEvents)
	api.GET("/days", s.handleDays)
	api.GET("/legend", s.handleLegend)
	api.GET("/diagnostics", s.handleDiagnostics)
	api.POST("/refresh", s.handleRefresh)
	api.POST("/days/:day/toggle", s.handleToggle)
	api.POST("/days/select-all", s.handleSelectAll)
	api.POST("/days/clear-all", s.handleClearAll)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the gin engine, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.engine.ServeHTTP(w, r)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (s *Server) handleReady(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := s.svc.CheckReadiness(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// dayView is one entry of the day-toggle control: label, palette colour,
// visibility, and per-type counts.
type dayView struct {
	Day     domain.DayLabel  `json:"day"`
	Color   string           `json:"color"`
	Visible bool             `json:"visible"`
	Counts  index.TypeCounts `json:"counts"`
	Total   int              `json:"total"`
}

func dayViews(snap *ingest.Snapshot) []dayView {
	views := make([]dayView, 0, len(snap.Index.Days))
	for _, day := range snap.Index.Days {
		counts := snap.Index.CountsByDay[day]
		views = append(views, dayView{
			Day:     day,
			Color:   index.DayColor(day),
			Visible: snap.Filter[day],
			Counts:  counts,
			Total:   counts.Total(),
		})
	}
	return views
}

// snapshotOr503 fetches the current snapshot, answering 503 when no
// ingestion has completed yet.
func (s *Server) snapshotOr503(c *gin.Context) (*ingest.Snapshot, bool) {
	snap := s.svc.Snapshot()
	if snap == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no ingestion has completed yet"})
		return nil, false
	}
	return snap, true
}

func (s *Server) handleEvents(c *gin.Context) {
	snap, ok := s.snapshotOr503(c)
	if !ok {
		return
	}
	events := index.VisibleEntities(snap.Filter, snap.Index)
	if events == nil {
		events = []domain.NormalizedEvent{}
	}
	c.JSON(http.StatusOK, gin.H{
		"ingestion_id": snap.ID,
		"ingested_at":  snap.IngestedAt,
		"events":       events,
	})
}

func (s *Server) handleDays(c *gin.Context) {
	snap, ok := s.snapshotOr503(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"days": dayViews(snap)})
}

func (s *Server) handleLegend(c *gin.Context) {
	snap, ok := s.snapshotOr503(c)
	if !ok {
		return
	}

	type legendEntry struct {
		Day   domain.DayLabel `json:"day"`
		Color string          `json:"color"`
		Count int             `json:"count"`
	}
	entries := make([]legendEntry, 0, len(snap.Index.Days))
	for _, day := range snap.Index.Days {
		entries = append(entries, legendEntry{
			Day:   day,
			Color: index.DayColor(day),
			Count: snap.Index.CountsByDay[day].Total(),
		})
	}
	c.JSON(http.StatusOK, gin.H{"legend": entries})
}

func (s *Server) handleDiagnostics(c *gin.Context) {
	snap, ok := s.snapshotOr503(c)
	if !ok {
		return
	}
	noIcon := snap.Index.NoIcon
	if noIcon == nil {
		noIcon = []index.NoIconEntity{}
	}
	c.JSON(http.StatusOK, gin.H{
		"ingestion_id":    snap.ID,
		"dropped_records": snap.Index.Dropped,
		"failed_locators": snap.FailedLocators,
		"no_icon":         noIcon,
	})
}

func (s *Server) handleRefresh(c *gin.Context) {
	snap, err := s.svc.Ingest(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"ingestion_id": snap.ID,
		"days":         len(snap.Index.Days),
		"dropped":      snap.Index.Dropped,
	})
}

func (s *Server) handleToggle(c *gin.Context) {
	snap, ok := s.svc.Toggle(domain.DayLabel(c.Param("day")))
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no ingestion has completed yet"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"days": dayViews(snap)})
}

func (s *Server) handleSelectAll(c *gin.Context) {
	snap, ok := s.svc.SelectAll()
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no ingestion has completed yet"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"days": dayViews(snap)})
}

func (s *Server) handleClearAll(c *gin.Context) {
	snap, ok := s.svc.ClearAll()
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no ingestion has completed yet"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"days": dayViews(snap)})
}
