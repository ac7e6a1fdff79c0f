// Package httpapi exposes the resolution and routing API over HTTP.
package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Hanshin-OSS-Hub/capstone25-tripgpt/internal/place"
	"github.com/Hanshin-OSS-Hub/capstone25-tripgpt/internal/trip"
)

// ResolveService answers place-resolution queries.
type ResolveService interface {
	Resolve(ctx context.Context, address, name string) (place.ResolvedLocation, error)
	Strategies(address, name string) []string
}

// RoutePlanner answers route queries between two user-entered places.
type RoutePlanner interface {
	Plan(ctx context.Context, origin, destination, mode string) trip.RouteInfo
}

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// ReadyFunc adapts a function to the ReadinessChecker interface.
type ReadyFunc func(ctx context.Context) error

func (f ReadyFunc) CheckReadiness(ctx context.Context) error { return f(ctx) }

// Server serves the travel API plus health and metrics endpoints.
type Server struct {
	httpServer *http.Server
	service    ResolveService
	routes     RoutePlanner
	ready      ReadinessChecker
	logger     *slog.Logger
}

// NewServer builds the gin router and wraps it in an http.Server.
func NewServer(addr string, service ResolveService, routes RoutePlanner, ready ReadinessChecker, logger *slog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		service: service,
		routes:  routes,
		ready:   ready,
		logger:  logger,
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	engine.GET("/api/resolve", s.handleResolve)
	engine.GET("/api/strategies", s.handleStrategies)
	engine.GET("/api/tmap/route", s.handleRoute)
	engine.GET("/healthz", s.handleHealth)
	engine.GET("/readyz", s.handleReady)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      engine,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
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
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleResolve(c *gin.Context) {
	address := strings.TrimSpace(c.Query("address"))
	name := strings.TrimSpace(c.Query("name"))
	if address == "" && name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "address or name query parameter is required"})
		return
	}

	loc, err := s.service.Resolve(c.Request.Context(), address, name)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, loc)
	case errors.Is(err, place.ErrUnresolved):
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "location not found",
			"address": address,
			"name":    name,
		})
	case errors.Is(err, place.ErrUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "search provider unavailable"})
	case errors.Is(err, context.Canceled):
		c.Status(499) // client closed request
	default:
		s.logger.Error("resolve failed", "address", address, "name", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func (s *Server) handleStrategies(c *gin.Context) {
	address := strings.TrimSpace(c.Query("address"))
	name := strings.TrimSpace(c.Query("name"))
	if address == "" && name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "address or name query parameter is required"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"address":    address,
		"name":       name,
		"strategies": s.service.Strategies(address, name),
	})
}

// handleRoute mirrors the response shape the frontend renders. Planning
// failures degrade the payload instead of changing the status code.
func (s *Server) handleRoute(c *gin.Context) {
	origin := strings.TrimSpace(c.Query("origin"))
	if origin == "" {
		origin = strings.TrimSpace(c.Query("departure"))
	}
	destination := strings.TrimSpace(c.Query("destination"))
	mode := strings.TrimSpace(c.Query("mode"))

	info := s.routes.Plan(c.Request.Context(), origin, destination, mode)
	c.JSON(http.StatusOK, info)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (s *Server) handleReady(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := s.ready.CheckReadiness(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
