// Package api provides the REST management API for VosDNS.
// It exposes endpoints for health checks, serving statistics and the
// query log via a Gin-based HTTP server, plus an embedded dashboard.
package api

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pvandermeer/vosdns/internal/api/handlers"
	"github.com/pvandermeer/vosdns/internal/api/middleware"
	"github.com/pvandermeer/vosdns/internal/config"
	"github.com/pvandermeer/vosdns/internal/querylog"
	"github.com/pvandermeer/vosdns/internal/stats"
)

// Server is the management REST API server.
//
// Security note: do not expose the API to untrusted networks without
// setting an API key.
type Server struct {
	cfg        *config.Config
	logger     *slog.Logger
	engine     *gin.Engine
	httpServer *http.Server
}

func New(cfg *config.Config, logger *slog.Logger, dnsStats *stats.DNSStats, queryLog *querylog.Store) *Server {
	if cfg == nil {
		panic("api.New: cfg is nil")
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.SlogRequestLogger(logger))

	h := handlers.New(logger, dnsStats, queryLog)
	RegisterRoutes(engine, h, cfg)
	MountDashboard(engine, logger)

	addr := net.JoinHostPort(cfg.API.Host, strconv.Itoa(cfg.API.Port))
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return &Server{cfg: cfg, logger: logger, engine: engine, httpServer: httpServer}
}

func (s *Server) Addr() string {
	if s.httpServer == nil {
		return ""
	}
	return s.httpServer.Addr
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
