package stats

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDNSStats_CountsByOutcome(t *testing.T) {
	s := New()
	s.RecordQuery()
	s.RecordQuery()
	s.RecordQuery()
	s.RecordResponse(0)
	s.RecordResponse(3)
	s.RecordResponse(2)
	s.RecordDropped()

	snap := s.Snapshot()
	assert.Equal(t, uint64(3), snap.QueriesTotal)
	assert.Equal(t, uint64(1), snap.ResponsesOK)
	assert.Equal(t, uint64(1), snap.ResponsesNX)
	assert.Equal(t, uint64(1), snap.ResponsesErr)
	assert.Equal(t, uint64(1), snap.Dropped)
}

func TestDNSStats_AvgLatency(t *testing.T) {
	s := New()
	assert.Zero(t, s.Snapshot().AvgLatencyMs, "no queries, no average")

	s.RecordQuery()
	s.RecordQuery()
	s.RecordLatency(10 * time.Millisecond)
	s.RecordLatency(30 * time.Millisecond)
	s.RecordLatency(-time.Millisecond) // ignored

	assert.InDelta(t, 20.0, s.Snapshot().AvgLatencyMs, 0.001)
}

func TestDNSStats_ConcurrentUse(t *testing.T) {
	s := New()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				s.RecordQuery()
				s.RecordResponse(0)
			}
		}()
	}
	wg.Wait()

	snap := s.Snapshot()
	assert.Equal(t, uint64(8000), snap.QueriesTotal)
	assert.Equal(t, uint64(8000), snap.ResponsesOK)
}
