// Package metrics exposes pipeline counters to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the collectors updated by the telemetry pipeline. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	Samples    *prometheus.CounterVec // by kind: accel, mag, fix
	Gate       *prometheus.CounterVec // by channel and result: fired, dropped
	Degenerate prometheus.Counter
	LogLines   *prometheus.CounterVec // by channel
	LogErrors  *prometheus.CounterVec // by channel
	LogEnabled *prometheus.GaugeVec   // by channel, 1 when open
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Samples: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cockpit_samples_total",
			Help: "Raw samples received by the pipeline.",
		}, []string{"kind"}),
		Gate: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cockpit_gate_attempts_total",
			Help: "Rate gate decisions.",
		}, []string{"channel", "result"}),
		Degenerate: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cockpit_orientation_degenerate_total",
			Help: "Orientation estimates skipped because gravity and magnetic field gave no basis.",
		}),
		LogLines: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cockpit_log_lines_total",
			Help: "Lines appended to log channels.",
		}, []string{"channel"}),
		LogErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cockpit_log_errors_total",
			Help: "Log channel open or write failures.",
		}, []string{"channel"}),
		LogEnabled: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "cockpit_log_enabled",
			Help: "1 when the log channel is open.",
		}, []string{"channel"}),
	}
	reg.MustRegister(m.Samples, m.Gate, m.Degenerate, m.LogLines, m.LogErrors, m.LogEnabled)
	return m
}

func (m *Metrics) Sample(kind string) {
	if m == nil {
		return
	}
	m.Samples.WithLabelValues(kind).Inc()
}

func (m *Metrics) GateResult(channel string, fired bool) {
	if m == nil {
		return
	}
	result := "dropped"
	if fired {
		result = "fired"
	}
	m.Gate.WithLabelValues(channel, result).Inc()
}

func (m *Metrics) DegenerateBasis() {
	if m == nil {
		return
	}
	m.Degenerate.Inc()
}

func (m *Metrics) LogLine(channel string) {
	if m == nil {
		return
	}
	m.LogLines.WithLabelValues(channel).Inc()
}

func (m *Metrics) LogError(channel string) {
	if m == nil {
		return
	}
	m.LogErrors.WithLabelValues(channel).Inc()
}

func (m *Metrics) SetLogEnabled(channel string, enabled bool) {
	if m == nil {
		return
	}
	v := 0.0
	if enabled {
		v = 1
	}
	m.LogEnabled.WithLabelValues(channel).Set(v)
}
