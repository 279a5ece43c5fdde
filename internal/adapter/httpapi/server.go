// Package httpapi exposes the risk-analysis pipeline over REST.
package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/flood-risk-service/internal/domain"
	"github.com/couchcryptid/flood-risk-service/internal/pipeline"
)

// Analyzer runs one risk analysis. Implemented by pipeline.Analyzer.
type Analyzer interface {
	Analyze(ctx context.Context, req pipeline.Request) (domain.Analysis, error)
}

// Pinger checks connectivity to the hazard data provider.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server exposes the analyze endpoint plus health, readiness, and metrics.
type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	analyzer   Analyzer
	pinger     Pinger
	logger     *slog.Logger
}

// NewServer builds the router. Readiness reflects provider reachability.
func NewServer(addr string, analyzer Analyzer, pinger Pinger, logger *slog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      engine,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		engine:   engine,
		analyzer: analyzer,
		pinger:   pinger,
		logger:   logger,
	}

	engine.GET("/healthz", s.handleHealth)
	engine.GET("/readyz", s.handleReady)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	engine.POST("/v1/analyze", s.handleAnalyze)

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

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.engine.ServeHTTP(w, r)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (s *Server) handleReady(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := s.pinger.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// analyzeRequest is the wire shape of one analysis request.
type analyzeRequest struct {
	domain.RawParams
	Factories []domain.AssetRow `json:"factories"`
}

func (s *Server) handleAnalyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	analysis, err := s.analyzer.Analyze(c.Request.Context(), pipeline.Request{
		Params: req.RawParams,
		Rows:   req.Factories,
	})
	if err != nil {
		s.writeAnalyzeError(c, err)
		return
	}

	c.JSON(http.StatusOK, analysis)
}

// writeAnalyzeError maps pipeline errors to HTTP statuses: validation
// failures are the caller's fault, provider failures are upstream's and pass
// the provider message through.
func (s *Server) writeAnalyzeError(c *gin.Context, err error) {
	var provErr *pipeline.ProviderError
	switch {
	case errors.Is(err, pipeline.ErrNoValidAssets), errors.Is(err, pipeline.ErrTooManyAssets):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &provErr):
		s.logger.Error("hazard provider failure", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		s.logger.Error("analysis failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
