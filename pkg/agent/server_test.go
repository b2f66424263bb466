package agent

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics()
	m.Size("random", 64)
	m.Trial("random", 8192, 8192)
	m.Trial("random", 8192, 4096)
	m.Trial("diet/add_interval", 0, 0)

	body := scrape(t, NewServer("", m))
	for _, line := range []string{
		`microbench_trials_total{op="random"} 2`,
		`microbench_trials_total{op="diet/add_interval"} 1`,
		`microbench_bytes_written_total{op="random"} 16384`,
		`microbench_bytes_read_total{op="random"} 12288`,
		`microbench_current_size{group="random"} 64`,
	} {
		assert.Contains(t, body, line)
	}
	assert.NotContains(t, body, `microbench_bytes_written_total{op="diet/add_interval"}`)
}

func scrape(t *testing.T, s *Server) string {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestHandler(t *testing.T) {
	m := NewMetrics()
	m.Trial("sequential", 128, 128)
	s := NewServer("127.0.0.1:0", m)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())

	assert.Contains(t, scrape(t, s), `microbench_trials_total{op="sequential"} 1`)
}

func TestServerLifecycle(t *testing.T) {
	s := NewServer("127.0.0.1:0", NewMetrics())
	require.NoError(t, s.Start())
	defer s.Shutdown(context.Background())

	resp, err := http.Get("http://" + s.Addr() + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(body), "OK"))
}
