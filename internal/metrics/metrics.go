package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the service collectors. Every name is prefixed with the configured prefix.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Catalog operations by resource, operation and outcome
	OperationsTotal *prometheus.CounterVec

	// Per-file upload outcomes
	ImageUploadsTotal *prometheus.CounterVec

	AuthFailuresTotal prometheus.Counter
}

// New registers the collectors on reg. Pass prometheus.DefaultRegisterer in the server and
// a fresh prometheus.NewRegistry() in tests.
func New(prefix string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		OperationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_operations_total",
				Help: "Total number of catalog operations",
			},
			[]string{"resource", "operation", "outcome"},
		),
		ImageUploadsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_image_uploads_total",
				Help: "Total number of uploaded image files",
			},
			[]string{"outcome"},
		),
		AuthFailuresTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: prefix + "_auth_failures_total",
				Help: "Total number of rejected admin requests",
			},
		),
	}
}

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(method, path string, status string, elapsed time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(elapsed.Seconds())
}

// RecordOperation increments the catalog operation counter. The outcome is "ok" or "error".
func (m *Metrics) RecordOperation(resource, operation string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.OperationsTotal.WithLabelValues(resource, operation, outcome).Inc()
}

// RecordUpload counts one file of a multi-file upload.
func (m *Metrics) RecordUpload(accepted bool) {
	outcome := "accepted"
	if !accepted {
		outcome = "rejected"
	}
	m.ImageUploadsTotal.WithLabelValues(outcome).Inc()
}
