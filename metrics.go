package persist

import (
	"github.com/AndrewDonelson/persist/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// NewPrometheusMetrics returns a MetricsRecorder that exports load outcomes,
// errors and operation latency as Prometheus collectors registered with reg.
func NewPrometheusMetrics(reg prometheus.Registerer, namespace string) (MetricsRecorder, error) {
	return metrics.NewPrometheus(reg, namespace)
}
