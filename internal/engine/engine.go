// Package engine drives the attack session: it turns a validated
// configuration into one or more concurrent attack strategies and runs them
// for the configured duration.
package engine

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/garuda-lt/garuda/internal/config"
)

// Engine owns a single attack session.
//
// Example usage:
//
//	eng, _ := engine.New(cfg)
//	result, _ := eng.Run(ctx)
//	fmt.Printf("requests: %d\n", result.Stats.Success())
type Engine struct {
	cfg     config.Resolved
	client  *http.Client
	attacks []Attack
	stats   *Stats

	mu      sync.Mutex
	running bool
}

// Result summarizes a completed session.
type Result struct {
	ID      uuid.UUID
	Started time.Time
	Elapsed time.Duration
	Stats   *Stats
}

// New builds an engine from a validated configuration. Attack selection
// follows the method: "mixed" runs every kind listed in cfg.Attacks
// concurrently, anything else runs as a single attack of that kind. An
// unknown kind is an error.
func New(cfg config.Resolved) (*Engine, error) {
	e := &Engine{
		cfg:   cfg,
		stats: NewStats(),
		client: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: cfg.Connections,
				MaxConnsPerHost:     cfg.Connections,
			},
		},
	}

	kinds := []string{cfg.Method}
	if cfg.Method == config.MethodMixed {
		kinds = cfg.Attacks
	}
	for _, k := range kinds {
		atk, err := e.newAttack(Kind(k))
		if err != nil {
			return nil, err
		}
		e.attacks = append(e.attacks, atk)
	}
	return e, nil
}

// Stats exposes the live session counters, safe to read while Run is in
// progress.
func (e *Engine) Stats() *Stats {
	return e.stats
}

// Run executes all attacks concurrently and blocks until the configured
// duration elapses or ctx is cancelled. Cancellation of the parent ctx (the
// operator interrupt) is reported as ctx.Err(); the natural end of the
// session is a normal return.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return nil, fmt.Errorf("engine is already running")
	}
	e.running = true
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.running = false
		e.mu.Unlock()
	}()

	started := time.Now()
	runCtx, cancel := context.WithTimeout(ctx, time.Duration(e.cfg.Duration)*time.Second)
	defer cancel()

	var wg sync.WaitGroup
	errs := make(chan error, len(e.attacks))
	for _, atk := range e.attacks {
		wg.Add(1)
		go func(a Attack) {
			defer wg.Done()
			if err := a.Run(runCtx, e.stats); err != nil {
				errs <- fmt.Errorf("%s: %w", a.Kind(), err)
			}
		}(atk)
	}
	wg.Wait()
	close(errs)

	result := &Result{
		ID:      uuid.New(),
		Started: started,
		Elapsed: time.Since(started),
		Stats:   e.stats,
	}

	// An interrupt outranks attack errors: it is the expected shutdown path.
	if err := ctx.Err(); err != nil {
		return result, err
	}
	if err := <-errs; err != nil {
		return result, err
	}
	return result, nil
}
