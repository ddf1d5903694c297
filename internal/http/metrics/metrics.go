// Package metrics defines the Prometheus metrics of the pipeline API.
// All metrics register with the default registry on package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/straye-as/pipeline-api/internal/domain"
)

const namespace = "pipeline"

// ── HTTP metrics ──────────────────────────────────────────────────────────────

// HTTPRequestsTotal counts handled requests.
// Labels: method, route (chi route pattern), status (HTTP status code)
var HTTPRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests, by method, route and status.",
	},
	[]string{"method", "route", "status"},
)

// HTTPRequestDuration measures request latency by route
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "route"},
)

// ── Client metrics ────────────────────────────────────────────────────────────

// ClientMutationsTotal counts repository mutations.
// Labels:
//   - operation: create, update, delete, add_note, schedule_followup, update_status
//   - result: ok, not_found, error
var ClientMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "client_mutations_total",
		Help:      "Total number of client mutations, by operation and result.",
	},
	[]string{"operation", "result"},
)

// ExportsTotal counts CSV exports served or written as snapshots.
// Label:
//   - target: "download" or "snapshot"
var ExportsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "exports_total",
		Help:      "Total number of CSV exports produced.",
	},
	[]string{"target"},
)

// ── Pipeline gauges ───────────────────────────────────────────────────────────

// ClientsByStage tracks the number of clients in each stage
var ClientsByStage = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "clients",
		Help:      "Current number of clients, by pipeline stage.",
	},
	[]string{"stage"},
)

// PipelineValue tracks the summed project value of all clients
var PipelineValue = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "value_total",
		Help:      "Summed numeric project value of all clients.",
	},
)

// ObservePipeline sets the pipeline gauges from a full client list
func ObservePipeline(clients []domain.Client) {
	counts := make(map[domain.Stage]int, len(domain.Stages))
	total := 0.0
	for i := range clients {
		counts[clients[i].Stage]++
		total += clients[i].ValueNumeric
	}
	for _, stage := range domain.Stages {
		ClientsByStage.WithLabelValues(string(stage)).Set(float64(counts[stage]))
	}
	PipelineValue.Set(total)
}
