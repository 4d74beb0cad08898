package engine

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStats_Counters(t *testing.T) {
	s := NewStats()

	s.RecordSuccess(5 * time.Millisecond)
	s.RecordSuccess(10 * time.Millisecond)
	s.RecordFailure(errors.New("connection refused"))
	s.RecordFailure(errors.New("connection refused"))
	s.RecordFailure(errors.New("timeout"))

	assert.Equal(t, int64(2), s.Success())
	assert.Equal(t, int64(3), s.Failure())
	assert.Equal(t, map[string]int64{
		"connection refused": 2,
		"timeout":            1,
	}, s.ErrorCounts())
}

func TestStats_HeldGauge(t *testing.T) {
	s := NewStats()
	s.AddHeld(3)
	s.AddHeld(-1)
	assert.Equal(t, int64(2), s.Held())
}

func TestStats_LatencyQuantiles(t *testing.T) {
	s := NewStats()
	for i := 1; i <= 100; i++ {
		s.RecordSuccess(time.Duration(i) * time.Millisecond)
	}

	p50 := s.LatencyAt(50)
	p99 := s.LatencyAt(99)
	assert.InDelta(t, (50 * time.Millisecond).Microseconds(), p50.Microseconds(), 2000)
	assert.GreaterOrEqual(t, p99, p50)
	assert.GreaterOrEqual(t, s.MaxLatency(), p99)
}

func TestStats_ClampsOutOfRangeLatency(t *testing.T) {
	s := NewStats()
	s.RecordSuccess(0)             // below trackable range
	s.RecordSuccess(2 * time.Hour) // above trackable range
	assert.Equal(t, int64(2), s.Success())
	// Allow for histogram bucketing above the clamped value.
	assert.LessOrEqual(t, s.MaxLatency(), time.Minute+100*time.Millisecond)
}

func TestStats_ConcurrentWriters(t *testing.T) {
	s := NewStats()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				s.RecordSuccess(time.Millisecond)
				s.RecordFailure(errors.New("x"))
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(800), s.Success())
	assert.Equal(t, int64(800), s.Failure())
}
