package engine

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garuda-lt/garuda/internal/config"
)

// discardingListener accepts connections and reads them to EOF without ever
// answering, which is all a slowloris target needs to do.
func discardingListener(t *testing.T) net.Listener {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func(c net.Conn) {
				defer c.Close()
				io.Copy(io.Discard, c)
			}(conn)
		}
	}()
	return ln
}

func TestNew_SingleMethod(t *testing.T) {
	eng, err := New(config.Resolved{
		Target:      "http://target.example",
		Method:      config.MethodHTTPFlood,
		Connections: 1,
		Duration:    1,
	})
	require.NoError(t, err)
	assert.Len(t, eng.attacks, 1)
	assert.Equal(t, KindHTTPFlood, eng.attacks[0].Kind())
}

func TestNew_MixedUsesAttackList(t *testing.T) {
	eng, err := New(config.Resolved{
		Target:      "http://target.example",
		Method:      config.MethodMixed,
		Attacks:     []string{"http-flood", "slowloris"},
		Connections: 1,
		Duration:    1,
	})
	require.NoError(t, err)
	require.Len(t, eng.attacks, 2)
	assert.Equal(t, KindHTTPFlood, eng.attacks[0].Kind())
	assert.Equal(t, KindSlowloris, eng.attacks[1].Kind())
}

func TestNew_RejectsUnknownKind(t *testing.T) {
	_, err := New(config.Resolved{
		Target:      "http://target.example",
		Method:      "teardrop",
		Connections: 1,
		Duration:    1,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown attack kind")
}

func TestRun_HTTPFloodAgainstLocalServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	eng, err := New(config.Resolved{
		Target:      srv.URL,
		Method:      config.MethodHTTPFlood,
		Connections: 4,
		Duration:    1,
	})
	require.NoError(t, err)

	res, err := eng.Run(context.Background())
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.NotEqual(t, uuid.Nil, res.ID)
	assert.Greater(t, res.Stats.Success(), int64(0))
	assert.Equal(t, int64(0), res.Stats.Failure())
	assert.GreaterOrEqual(t, res.Elapsed, time.Second)
}

func TestRun_SlowlorisHoldsConnections(t *testing.T) {
	ln := discardingListener(t)

	eng, err := New(config.Resolved{
		Target:      "http://" + ln.Addr().String(),
		Method:      config.MethodSlowloris,
		Connections: 3,
		Duration:    1,
	})
	require.NoError(t, err)

	res, err := eng.Run(context.Background())
	require.NoError(t, err)
	// One success per established socket.
	assert.GreaterOrEqual(t, res.Stats.Success(), int64(3))
	// Everything released by the time Run returns.
	assert.Equal(t, int64(0), res.Stats.Held())
}

func TestRun_ReturnsCtxErrOnCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	eng, err := New(config.Resolved{
		Target:      srv.URL,
		Method:      config.MethodHTTPFlood,
		Connections: 2,
		Duration:    30,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(200 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	res, err := eng.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotNil(t, res)
	assert.Less(t, time.Since(start), 10*time.Second)
}

func TestRun_SlowlorisBadTargetFailsSession(t *testing.T) {
	eng, err := New(config.Resolved{
		Target:      "/just/a/path",
		Method:      config.MethodSlowloris,
		Connections: 1,
		Duration:    1,
	})
	require.NoError(t, err)

	_, err = eng.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no hostname")
}

func TestDialAddr(t *testing.T) {
	tests := []struct {
		target   string
		wantAddr string
		wantTLS  bool
		wantErr  bool
	}{
		{target: "http://good.com", wantAddr: "good.com:80"},
		{target: "https://good.com", wantAddr: "good.com:443", wantTLS: true},
		{target: "http://good.com:8080", wantAddr: "good.com:8080"},
		{target: "https://good.com:8443", wantAddr: "good.com:8443", wantTLS: true},
		{target: "no-scheme-no-host", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			addr, useTLS, err := dialAddr(tt.target)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantAddr, addr)
			assert.Equal(t, tt.wantTLS, useTLS)
		})
	}
}
