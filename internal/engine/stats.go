package engine

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// Stats aggregates attack outcomes across all workers. Counters are atomic;
// the latency histogram has its own lock since hdrhistogram is not safe for
// concurrent writers.
type Stats struct {
	success int64
	failure int64
	held    int64

	mu      sync.Mutex
	latency *hdrhistogram.Histogram
	errs    map[string]int64
}

// NewStats returns an empty Stats. Latencies are tracked from 1µs to 1m at
// three significant figures.
func NewStats() *Stats {
	return &Stats{
		latency: hdrhistogram.New(1, time.Minute.Microseconds(), 3),
		errs:    make(map[string]int64),
	}
}

// RecordSuccess records one completed operation and its latency.
func (s *Stats) RecordSuccess(d time.Duration) {
	atomic.AddInt64(&s.success, 1)

	v := d.Microseconds()
	if v < 1 {
		v = 1
	}
	s.mu.Lock()
	if v > s.latency.HighestTrackableValue() {
		v = s.latency.HighestTrackableValue()
	}
	_ = s.latency.RecordValue(v)
	s.mu.Unlock()
}

// RecordFailure records one failed operation, keyed by error message for the
// failure summary.
func (s *Stats) RecordFailure(err error) {
	atomic.AddInt64(&s.failure, 1)
	if err == nil {
		return
	}
	s.mu.Lock()
	s.errs[err.Error()]++
	s.mu.Unlock()
}

// AddHeld adjusts the held-connection gauge (slowloris).
func (s *Stats) AddHeld(delta int64) {
	atomic.AddInt64(&s.held, delta)
}

// Success returns the number of completed operations.
func (s *Stats) Success() int64 { return atomic.LoadInt64(&s.success) }

// Failure returns the number of failed operations.
func (s *Stats) Failure() int64 { return atomic.LoadInt64(&s.failure) }

// Held returns the number of connections currently held open.
func (s *Stats) Held() int64 { return atomic.LoadInt64(&s.held) }

// LatencyAt returns the recorded latency at quantile q (e.g. 50, 99).
func (s *Stats) LatencyAt(q float64) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return time.Duration(s.latency.ValueAtQuantile(q)) * time.Microsecond
}

// MaxLatency returns the largest recorded latency.
func (s *Stats) MaxLatency() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return time.Duration(s.latency.Max()) * time.Microsecond
}

// ErrorCounts returns a copy of the per-error failure counts.
func (s *Stats) ErrorCounts() map[string]int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]int64, len(s.errs))
	for k, v := range s.errs {
		out[k] = v
	}
	return out
}
