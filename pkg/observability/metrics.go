package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Dispatch metrics
	DispatchesTotal  *prometheus.CounterVec
	DispatchDuration *prometheus.HistogramVec

	// Diagnostic metrics
	DiagnosticsTotal        *prometheus.CounterVec
	DiagnosticsDroppedTotal *prometheus.CounterVec

	// Check lifecycle metrics
	CheckFaultsTotal  *prometheus.CounterVec
	ChecksActive      prometheus.Gauge
	ConfigResolutions prometheus.Counter
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics(registry prometheus.Registerer) *Metrics {
	m := &Metrics{
		DispatchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "buildcheck_dispatches_total",
				Help: "Total number of check action invocations",
			},
			[]string{"check", "kind"},
		),
		DispatchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "buildcheck_dispatch_duration_seconds",
				Help:    "Check action duration in seconds",
				Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
			},
			[]string{"check"},
		),
		DiagnosticsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "buildcheck_diagnostics_total",
				Help: "Total number of diagnostics forwarded to the build",
			},
			[]string{"rule", "severity"},
		),
		DiagnosticsDroppedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "buildcheck_diagnostics_dropped_total",
				Help: "Total number of diagnostics dropped by configuration",
			},
			[]string{"rule", "reason"},
		),
		CheckFaultsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "buildcheck_check_faults_total",
				Help: "Total number of checks disabled after a failure",
			},
			[]string{"check", "phase"},
		),
		ChecksActive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "buildcheck_checks_active",
				Help: "Number of checks currently receiving events",
			},
		),
		ConfigResolutions: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "buildcheck_config_resolutions_total",
				Help: "Total number of per-project rule configuration resolutions",
			},
		),
	}

	// Register all metrics
	registry.MustRegister(
		m.DispatchesTotal,
		m.DispatchDuration,
		m.DiagnosticsTotal,
		m.DiagnosticsDroppedTotal,
		m.CheckFaultsTotal,
		m.ChecksActive,
		m.ConfigResolutions,
	)

	return m
}

// RecordDispatch records one action invocation. Safe on a nil receiver.
func (m *Metrics) RecordDispatch(check, kind string, duration time.Duration) {
	if m == nil {
		return
	}
	m.DispatchesTotal.WithLabelValues(check, kind).Inc()
	m.DispatchDuration.WithLabelValues(check).Observe(duration.Seconds())
}

// RecordDiagnostic records a forwarded diagnostic. Safe on a nil receiver.
func (m *Metrics) RecordDiagnostic(rule, severity string) {
	if m == nil {
		return
	}
	m.DiagnosticsTotal.WithLabelValues(rule, severity).Inc()
}

// RecordDropped records a diagnostic dropped for reason. Safe on a nil receiver.
func (m *Metrics) RecordDropped(rule, reason string) {
	if m == nil {
		return
	}
	m.DiagnosticsDroppedTotal.WithLabelValues(rule, reason).Inc()
}

// RecordFault records a check being disabled. Safe on a nil receiver.
func (m *Metrics) RecordFault(check, phase string) {
	if m == nil {
		return
	}
	m.CheckFaultsTotal.WithLabelValues(check, phase).Inc()
}

// RecordActivated records a check becoming active. Safe on a nil receiver.
func (m *Metrics) RecordActivated() {
	if m == nil {
		return
	}
	m.ChecksActive.Inc()
}

// RecordDeactivated records an active check being disabled. Safe on a nil receiver.
func (m *Metrics) RecordDeactivated() {
	if m == nil {
		return
	}
	m.ChecksActive.Dec()
}

// RecordConfigResolution records a per-project configuration resolution.
// Safe on a nil receiver.
func (m *Metrics) RecordConfigResolution() {
	if m == nil {
		return
	}
	m.ConfigResolutions.Inc()
}

// WriteTextfile gathers registry and writes it in the Prometheus text format,
// for node-exporter style collection of short-lived build processes.
func WriteTextfile(path string, registry prometheus.Gatherer) error {
	return prometheus.WriteToTextfile(path, registry)
}
