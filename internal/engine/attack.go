package engine

import (
	"context"
	"fmt"
)

// Kind identifies an attack strategy.
type Kind string

const (
	// KindHTTPFlood saturates the target with complete HTTP requests.
	KindHTTPFlood Kind = "http-flood"

	// KindSlowloris holds sockets open with deliberately incomplete requests.
	KindSlowloris Kind = "slowloris"
)

// Attack is a single load-generation strategy. Run blocks until ctx is done,
// driving the configured number of concurrent workers and recording outcomes
// into stats. A non-nil error means the attack could not run at all, not that
// individual operations failed.
type Attack interface {
	Kind() Kind
	Run(ctx context.Context, stats *Stats) error
}

// newAttack builds the strategy for kind.
func (e *Engine) newAttack(kind Kind) (Attack, error) {
	switch kind {
	case KindHTTPFlood:
		return newHTTPFlood(e.cfg, e.client), nil
	case KindSlowloris:
		return newSlowloris(e.cfg), nil
	default:
		return nil, fmt.Errorf("unknown attack kind: %s", kind)
	}
}

// userAgents is rotated in stealth mode so the traffic does not present a
// single client fingerprint.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64; rv:126.0) Gecko/20100101 Firefox/126.0",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:126.0) Gecko/20100101 Firefox/126.0",
	"Mozilla/5.0 (iPhone; CPU iPhone OS 17_4 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Mobile/15E148",
}
