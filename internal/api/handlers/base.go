// Package handlers implements the management API endpoints.
//
// Endpoints:
//   - GET /api/v1/health - liveness check
//   - GET /api/v1/stats - serving counters plus process and host resource usage
//   - GET /api/v1/querylog - recent served queries from the SQLite query log
//
// All endpoints honor the optional X-API-Key header check configured in
// the routes.
//
// @title VosDNS Management API
// @version 1.0
// @description REST API for inspecting the VosDNS server.
//
// @license.name MIT
// @license.url https://opensource.org/licenses/MIT
//
// @BasePath /api/v1
//
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
package handlers

import (
	"log/slog"
	"time"

	"github.com/pvandermeer/vosdns/internal/querylog"
	"github.com/pvandermeer/vosdns/internal/stats"
)

// Handler carries the dependencies shared by all endpoints.
type Handler struct {
	logger    *slog.Logger
	stats     *stats.DNSStats
	queryLog  *querylog.Store // nil when the query log is disabled
	startTime time.Time
}

// New creates the endpoint handler set.
func New(logger *slog.Logger, dnsStats *stats.DNSStats, queryLog *querylog.Store) *Handler {
	return &Handler{
		logger:    logger,
		stats:     dnsStats,
		queryLog:  queryLog,
		startTime: time.Now(),
	}
}
