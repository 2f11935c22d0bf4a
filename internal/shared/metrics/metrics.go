package metrics

import (
	"database/sql"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "legalsim"

var (
	registry = prometheus.NewRegistry()

	analysisStarted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "analysis_started_total",
		Help:      "Total analyses started.",
	})
	analysisCompleted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "analysis_completed_total",
		Help:      "Total analyses completed.",
	})
	analysisFailed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "analysis_failed_total",
		Help:      "Total analyses failed, by reason.",
	}, []string{"reason"})
	documentsStranded = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "documents_stranded_total",
		Help:      "Documents left in processing after a failed analysis.",
	})
	analysisDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "analysis_duration_seconds",
		Help:      "End-to-end analysis duration.",
		Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60, 120},
	})
	retrievalCache = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "retrieval_cache_total",
		Help:      "Retrieval cache lookups, by result.",
	}, []string{"result"})
	workerMessages = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "worker_messages_total",
		Help:      "Completion events handled by the worker, by result.",
	}, []string{"result"})
)

func init() {
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		analysisStarted,
		analysisCompleted,
		analysisFailed,
		documentsStranded,
		analysisDuration,
		retrievalCache,
		workerMessages,
	)
}

// IncAnalysisStarted increments the started counter.
func IncAnalysisStarted() {
	analysisStarted.Inc()
}

// IncAnalysisCompleted increments the completed counter.
func IncAnalysisCompleted() {
	analysisCompleted.Inc()
}

// IncAnalysisFailed increments the failed counter for reason.
func IncAnalysisFailed(reason string) {
	if reason == "" {
		reason = "unknown"
	}
	analysisFailed.WithLabelValues(reason).Inc()
}

// IncDocumentStranded counts a document left in processing.
func IncDocumentStranded() {
	documentsStranded.Inc()
}

// ObserveAnalysisDuration records an analysis duration.
func ObserveAnalysisDuration(d time.Duration) {
	if d < 0 {
		d = 0
	}
	analysisDuration.Observe(d.Seconds())
}

// IncRetrievalCache records a cache hit, miss or error.
func IncRetrievalCache(result string) {
	retrievalCache.WithLabelValues(result).Inc()
}

// IncWorkerMessage records a worker outcome: warmed, requeued or dropped.
func IncWorkerMessage(result string) {
	workerMessages.WithLabelValues(result).Inc()
}

// RegisterDBStats exports the pool statistics of db as go_sql_* series labelled
// db_name="legalsim". Registering a second pool is a no-op.
func RegisterDBStats(db *sql.DB) error {
	if db == nil {
		return nil
	}
	err := registry.Register(collectors.NewDBStatsCollector(db, namespace))
	var already prometheus.AlreadyRegisteredError
	if errors.As(err, &already) {
		return nil
	}
	return err
}

// Registry returns the registry backing Handler.
func Registry() *prometheus.Registry {
	return registry
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	return gin.WrapH(h)
}
