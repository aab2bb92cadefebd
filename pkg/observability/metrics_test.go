package observability_test

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aretw0/tauribridge/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *observability.Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestMetrics_Observe(t *testing.T) {
	m := observability.NewMetrics(prometheus.NewRegistry())

	m.ObserveCommand("click", observability.OutcomeOK, 10*time.Millisecond)
	m.ObserveCommand("click", observability.OutcomeError, 10*time.Millisecond)
	m.ObserveCommand("click", observability.OutcomeOK, 10*time.Millisecond)
	m.ObserveLaunch(nil)
	m.ObserveLaunch(errors.New("boom"))
	m.SetSessions(3)

	out := scrape(t, m)
	assert.Contains(t, out, `tauribridge_commands_total{command="click",outcome="ok"} 2`)
	assert.Contains(t, out, `tauribridge_commands_total{command="click",outcome="error"} 1`)
	assert.Contains(t, out, `tauribridge_command_duration_seconds_count{command="click"} 3`)
	assert.Contains(t, out, `tauribridge_driver_launches_total{result="failure"} 1`)
	assert.Contains(t, out, "tauribridge_driver_up 1")
	assert.Contains(t, out, "tauribridge_sessions_tracked 3")

	m.ObserveDriverStopped()
	assert.Contains(t, scrape(t, m), "tauribridge_driver_up 0")
}

func TestMetrics_NilIsSafe(t *testing.T) {
	var m *observability.Metrics
	assert.NotPanics(t, func() {
		m.ObserveCommand("x", observability.OutcomeOK, time.Second)
		m.ObserveLaunch(nil)
		m.ObserveDriverStopped()
		m.SetSessions(1)
		m.ObserveShutdown("interrupt")
	})
}

func TestMetrics_ShutdownCauses(t *testing.T) {
	m := observability.NewMetrics(nil)
	m.ObserveShutdown("stream_closed")

	assert.Contains(t, scrape(t, m), `tauribridge_shutdown_triggers_total{cause="stream_closed"} 1`)
}
