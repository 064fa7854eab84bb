// Package metrics provides Prometheus metrics for the encoding configuration service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Preset application results
const (
	ResultApplied = "applied"
	ResultSkipped = "skipped"
)

var (
	presetApplications = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "encodecfg",
		Name:      "preset_applications_total",
		Help:      "Preset applications by result",
	}, []string{"result"})

	builderFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "encodecfg",
		Name:      "option_builder_failures_total",
		Help:      "Advanced option strings replaced by the error marker",
	})

	encoderSwitches = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "encodecfg",
		Name:      "encoder_switches_total",
		Help:      "Encoder changes by target encoder",
	}, []string{"encoder"})

	sessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "encodecfg",
		Name:      "sessions_active",
		Help:      "Open configuration sessions",
	})

	httpRequests = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "encodecfg",
		Name:      "http_request_duration_seconds",
		Help:      "API request latency by operation and status",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation", "status"})
)

// RecordPresetApplication counts a preset application.
func RecordPresetApplication(applied bool) {
	result := ResultSkipped
	if applied {
		result = ResultApplied
	}
	presetApplications.WithLabelValues(result).Inc()
}

// RecordBuilderFailure counts a failed option string build.
func RecordBuilderFailure() {
	builderFailures.Inc()
}

// RecordEncoderSwitch counts a switch to encoder.
func RecordEncoderSwitch(encoder string) {
	encoderSwitches.WithLabelValues(encoder).Inc()
}

// SetSessionsActive sets the number of open sessions.
func SetSessionsActive(n int) {
	sessionsActive.Set(float64(n))
}

// RecordHTTPRequest observes one API request.
func RecordHTTPRequest(operation, status string, d time.Duration) {
	httpRequests.WithLabelValues(operation, status).Observe(d.Seconds())
}
