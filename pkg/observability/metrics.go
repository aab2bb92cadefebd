package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tauribridge"

// Outcome labels for command executions.
const (
	OutcomeOK      = "ok"
	OutcomeError   = "error"
	OutcomeTimeout = "timeout"
	OutcomePanic   = "panic"
)

// Metrics groups the collectors updated by the executor, supervisor and registry.
type Metrics struct {
	Commands        *prometheus.CounterVec
	CommandDuration *prometheus.HistogramVec
	SessionsActive  prometheus.Gauge
	DriverUp        prometheus.Gauge
	DriverLaunches  *prometheus.CounterVec
	Shutdowns       *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// NewMetrics creates the collectors and registers them on reg.
// A nil reg uses a fresh private registry.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	m := &Metrics{
		Commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Commands executed against the automation session, by outcome.",
		}, []string{"command", "outcome"}),
		CommandDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "command_duration_seconds",
			Help:      "Wall time of command executions.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 4, 8),
		}, []string{"command"}),
		SessionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_tracked",
			Help:      "Sessions currently tracked, including displaced ones.",
		}),
		DriverUp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "driver_up",
			Help:      "1 while a tauri-driver process is supervised.",
		}),
		DriverLaunches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "driver_launches_total",
			Help:      "Driver launch attempts, by result.",
		}, []string{"result"}),
		Shutdowns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "shutdown_triggers_total",
			Help:      "Shutdown triggers observed, by cause.",
		}, []string{"cause"}),
		gatherer: reg,
	}

	reg.MustRegister(
		m.Commands,
		m.CommandDuration,
		m.SessionsActive,
		m.DriverUp,
		m.DriverLaunches,
		m.Shutdowns,
	)
	return m
}

// ObserveCommand records one command execution.
func (m *Metrics) ObserveCommand(command, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.Commands.WithLabelValues(command, outcome).Inc()
	m.CommandDuration.WithLabelValues(command).Observe(elapsed.Seconds())
}

// ObserveLaunch records a driver launch attempt.
func (m *Metrics) ObserveLaunch(err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.DriverLaunches.WithLabelValues("failure").Inc()
		return
	}
	m.DriverLaunches.WithLabelValues("success").Inc()
	m.DriverUp.Set(1)
}

// ObserveDriverStopped marks the driver as gone.
func (m *Metrics) ObserveDriverStopped() {
	if m == nil {
		return
	}
	m.DriverUp.Set(0)
}

// SetSessions updates the tracked sessions gauge.
func (m *Metrics) SetSessions(n int) {
	if m == nil {
		return
	}
	m.SessionsActive.Set(float64(n))
}

// ObserveShutdown records a shutdown trigger.
func (m *Metrics) ObserveShutdown(cause string) {
	if m == nil {
		return
	}
	m.Shutdowns.WithLabelValues(cause).Inc()
}

// Handler serves the collectors in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
