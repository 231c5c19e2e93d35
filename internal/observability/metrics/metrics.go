// Package metrics provides Prometheus instrumentation for mintdesk.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	enabled     bool
	serviceName string

	// HTTP metrics
	httpRequestsTotal *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec

	// Deployment domain metrics
	deploymentRecordTotal *prometheus.CounterVec
	deploymentFetchTotal  *prometheus.CounterVec

	// Metadata domain metrics
	metadataUpsertTotal *prometheus.CounterVec
	metadataFetchTotal  *prometheus.CounterVec
	metadataDeleteTotal *prometheus.CounterVec
)

// Init initializes the metrics system.
func Init(enabledFlag bool, svcName string) {
	enabled = enabledFlag
	serviceName = svcName

	if !enabled {
		return
	}

	// HTTP request counter
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTP request duration histogram
	httpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Deployment record counter
	deploymentRecordTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "deployment_record_total",
			Help: "Total number of deployments recorded",
		},
		[]string{"network", "status"},
	)

	// Deployment fetch counter
	deploymentFetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "deployment_fetch_total",
			Help: "Total number of deployment lookups",
		},
		[]string{"status"},
	)

	// Metadata upsert counter
	metadataUpsertTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "metadata_upsert_total",
			Help: "Total number of metadata records saved",
		},
		[]string{"network", "status"},
	)

	// Metadata fetch counter
	metadataFetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "metadata_fetch_total",
			Help: "Total number of metadata lookups",
		},
		[]string{"status"},
	)

	// Metadata delete counter
	metadataDeleteTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "metadata_delete_total",
			Help: "Total number of metadata records deleted",
		},
		[]string{"status"},
	)

	// Note: Go runtime metrics (goroutines, memory, GC) are automatically
	// collected by prometheus/client_golang - no custom collector needed
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	if !enabled {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})
	}
	return promhttp.Handler()
}

// Enabled returns whether metrics are enabled.
func Enabled() bool {
	return enabled
}

// ServiceName returns the configured service name for metric labels.
func ServiceName() string {
	return serviceName
}
