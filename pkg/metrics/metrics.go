package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Global collectors, registered on the default registry by promauto.

var (
	// HttpRequestsTotal counts requests by method, route and status code.
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kektorgraph_http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "path", "status"},
	)

	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kektorgraph_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"method", "path"},
	)

	// QueryRuns counts query executions.
	// mode is "lenient" or "strict"; outcome is "ok" or "rejected".
	QueryRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kektorgraph_query_runs_total",
			Help: "Total number of query runs",
		},
		[]string{"mode", "outcome"},
	)

	QueryDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "kektorgraph_query_duration_seconds",
			Help:    "Time spent executing a query, rewriting included",
			Buckets: prometheus.ExponentialBuckets(0.00005, 4, 10),
		},
	)

	// QueryResults observes how many results each run returned.
	QueryResults = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "kektorgraph_query_results",
			Help:    "Number of results returned per query",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		},
	)

	// StageFaults counts steps that were degraded or rejected, by kind
	// ("unrecognized_stage", "malformed_filter", "malformed_step").
	StageFaults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kektorgraph_stage_faults_total",
			Help: "Query steps that could not be built from their arguments",
		},
		[]string{"kind"},
	)

	GraphVertices = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "kektorgraph_graph_vertices",
			Help: "Number of vertices in the graph",
		},
	)

	GraphEdges = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "kektorgraph_graph_edges",
			Help: "Number of edges in the graph",
		},
	)
)
