// Package stats collects DNS serving counters for the management API.
package stats

import (
	"sync/atomic"
	"time"
)

// DNSStats counts served queries by outcome. All methods are safe for
// concurrent use.
type DNSStats struct {
	queriesTotal   atomic.Uint64
	responsesOK    atomic.Uint64
	responsesNX    atomic.Uint64
	responsesErr   atomic.Uint64
	dropped        atomic.Uint64
	latencyTotalNs atomic.Uint64
	startTime      time.Time
}

// New creates a statistics collector anchored at the current time.
func New() *DNSStats {
	return &DNSStats{startTime: time.Now()}
}

// RecordQuery records one received query.
func (s *DNSStats) RecordQuery() {
	s.queriesTotal.Add(1)
}

// RecordResponse records the outcome of a served query by response code.
// rcode follows RFC 1035: 0 success, 3 NXDOMAIN, anything else an error.
func (s *DNSStats) RecordResponse(rcode uint8) {
	switch rcode {
	case 0:
		s.responsesOK.Add(1)
	case 3:
		s.responsesNX.Add(1)
	default:
		s.responsesErr.Add(1)
	}
}

// RecordDropped records a query dropped without any response.
func (s *DNSStats) RecordDropped() {
	s.dropped.Add(1)
}

// RecordLatency records query handling latency.
func (s *DNSStats) RecordLatency(d time.Duration) {
	if d > 0 {
		s.latencyTotalNs.Add(uint64(d.Nanoseconds()))
	}
}

// Snapshot is a point-in-time view of the counters.
type Snapshot struct {
	QueriesTotal uint64
	ResponsesOK  uint64
	ResponsesNX  uint64
	ResponsesErr uint64
	Dropped      uint64
	AvgLatencyMs float64
	Uptime       time.Duration
}

// Snapshot returns the current statistics.
func (s *DNSStats) Snapshot() Snapshot {
	total := s.queriesTotal.Load()
	latencyNs := s.latencyTotalNs.Load()

	avgLatencyMs := 0.0
	if total > 0 {
		avgLatencyMs = float64(latencyNs) / float64(total) / 1e6
	}

	return Snapshot{
		QueriesTotal: total,
		ResponsesOK:  s.responsesOK.Load(),
		ResponsesNX:  s.responsesNX.Load(),
		ResponsesErr: s.responsesErr.Load(),
		Dropped:      s.dropped.Load(),
		AvgLatencyMs: avgLatencyMs,
		Uptime:       time.Since(s.startTime),
	}
}
