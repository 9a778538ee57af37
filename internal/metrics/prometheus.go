package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Prometheus records persistence metrics as Prometheus collectors.
type Prometheus struct {
	loads   *prometheus.CounterVec
	errors  *prometheus.CounterVec
	latency *prometheus.HistogramVec
}

// NewPrometheus creates the collectors under namespace and registers them
// with reg. A nil reg skips registration.
func NewPrometheus(reg prometheus.Registerer, namespace string) (*Prometheus, error) {
	p := &Prometheus{
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "loads_total",
			Help:      "File loads by outcome (hit, miss, create) and format.",
		}, []string{"result", "format"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "Failed operations by kind.",
		}, []string{"op"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_seconds",
			Help:      "Latency of save and load operations including lock wait.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14),
		}, []string{"op"}),
	}
	if reg != nil {
		for _, c := range []prometheus.Collector{p.loads, p.errors, p.latency} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return p, nil
}

func (p *Prometheus) RecordHit(format string)    { p.loads.WithLabelValues("hit", format).Inc() }
func (p *Prometheus) RecordMiss(format string)   { p.loads.WithLabelValues("miss", format).Inc() }
func (p *Prometheus) RecordCreate(format string) { p.loads.WithLabelValues("create", format).Inc() }
func (p *Prometheus) RecordError(op string)      { p.errors.WithLabelValues(op).Inc() }

func (p *Prometheus) RecordLatency(op string, d time.Duration) {
	p.latency.WithLabelValues(op).Observe(d.Seconds())
}
