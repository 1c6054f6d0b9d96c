package server

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/szaher/chronos/internal/protocol"
	"github.com/szaher/chronos/internal/session"
	"github.com/szaher/chronos/internal/telemetry"
	"github.com/szaher/chronos/internal/testutil"
	"github.com/szaher/chronos/internal/timezone"
	"github.com/szaher/chronos/internal/tools"
)

// newTestServer wires the full stack the way chronod serve does, on top of
// httptest.
func newTestServer(t *testing.T) (*httptest.Server, *session.Manager) {
	t.Helper()

	logger := telemetry.NewLogger(io.Discard, slog.LevelError)
	newEngine := func() *protocol.Engine {
		registry := tools.NewRegistry("UTC", timezone.NewEngine())
		return protocol.NewEngine(registry, logger, nil, "chronos", "test")
	}
	sessions := session.NewManager(newEngine, logger)

	srv := NewServer(sessions,
		WithLogger(logger),
		WithMetrics(telemetry.NewMetrics()),
		WithVersion("test"),
	)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, sessions
}

func TestHealthz(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	var health struct {
		Status   string         `json:"status"`
		Version  string         `json:"version"`
		Sessions map[string]int `json:"sessions"`
	}
	testutil.MustUnmarshalJSON(t, body, &health)
	if health.Status != "ok" || health.Version != "test" {
		t.Errorf("health = %+v", health)
	}
	if _, ok := health.Sessions[string(session.Streamable)]; !ok {
		t.Error("health missing streamable session count")
	}
}

func TestMetricsEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	testutil.AssertContains(t, string(body), "go_goroutines")
}
