// Package models defines the JSON shapes of the management API.
package models

import "github.com/pvandermeer/vosdns/internal/querylog"

// StatusResponse reports a simple status string.
type StatusResponse struct {
	Status string `json:"status"`
}

// ErrorResponse reports an API error.
type ErrorResponse struct {
	Error string `json:"error"`
}

// DNSStatsResponse reports serving counters.
type DNSStatsResponse struct {
	QueriesTotal uint64  `json:"queries_total"`
	ResponsesOK  uint64  `json:"responses_ok"`
	ResponsesNX  uint64  `json:"responses_nxdomain"`
	ResponsesErr uint64  `json:"responses_error"`
	Dropped      uint64  `json:"dropped"`
	AvgLatencyMs float64 `json:"avg_latency_ms"`
}

// HostStatsResponse reports host resource usage.
type HostStatsResponse struct {
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryUsedPct float64 `json:"memory_used_percent"`
	MemoryUsedMB  float64 `json:"memory_used_mb"`
}

// ServerStatsResponse is the full /stats payload.
type ServerStatsResponse struct {
	Uptime        string             `json:"uptime"`
	UptimeSeconds int64              `json:"uptime_seconds"`
	GoRoutines    int                `json:"goroutines"`
	MemoryAllocMB float64            `json:"memory_alloc_mb"`
	NumCPU        int                `json:"num_cpu"`
	DNSStats      DNSStatsResponse   `json:"dns"`
	Host          *HostStatsResponse `json:"host,omitempty"`
}

// QueryLogResponse is the /querylog payload.
type QueryLogResponse struct {
	Total   int64           `json:"total"`
	Entries []querylog.Entry `json:"entries"`
}
