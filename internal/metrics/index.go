package metrics

import "github.com/prometheus/client_golang/prometheus"

// Index Prometheus metrics.
var (
	IndexDocuments = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "docdex",
			Name:      "index_documents",
			Help:      "Number of documents currently in the index",
		},
	)

	IndexUpsertsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docdex",
			Name:      "index_upserts_total",
			Help:      "Total number of document upserts",
		},
		[]string{"outcome"}, // "created" / "updated" / "rejected"
	)

	QueryDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "docdex",
			Name:      "query_duration_seconds",
			Help:      "Top-k query duration in seconds",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
	)

	SnapshotSavesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docdex",
			Name:      "snapshot_saves_total",
			Help:      "Snapshot save attempts by status",
		},
		[]string{"status"}, // "ok" / "error"
	)

	EmbedRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docdex",
			Name:      "embed_requests_total",
			Help:      "Total number of embedding computations",
		},
		[]string{"status"},
	)

	EmbedDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "docdex",
			Name:      "embed_duration_seconds",
			Help:      "Embedding computation duration in seconds",
			Buckets:   []float64{0.00001, 0.0001, 0.001, 0.01, 0.1, 1},
		},
	)
)

var indexMetricsRegistered bool

// RegisterIndexMetrics registers Prometheus index metrics. Must be called once from main.
func RegisterIndexMetrics() {
	if indexMetricsRegistered {
		return
	}
	prometheus.MustRegister(IndexDocuments)
	prometheus.MustRegister(IndexUpsertsTotal)
	prometheus.MustRegister(QueryDuration)
	prometheus.MustRegister(SnapshotSavesTotal)
	prometheus.MustRegister(EmbedRequestsTotal)
	prometheus.MustRegister(EmbedDuration)
	indexMetricsRegistered = true
}
