// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Listener metrics
	TokensDetected  prometheus.Counter
	TokensDiscarded *prometheus.CounterVec
	WSReconnects    prometheus.Counter

	// Filter metrics
	FilterEvaluations *prometheus.CounterVec
	FilterRejections  *prometheus.CounterVec
	FilterDuration    *prometheus.HistogramVec
	QualityScores     prometheus.Histogram

	// Stats metrics
	SwapsRecorded prometheus.Counter
	TrackedMints  prometheus.Gauge
	LaunchScores  prometheus.Histogram

	// Alert metrics
	AlertsAllowed   *prometheus.CounterVec
	AlertsBlocked   *prometheus.CounterVec
	AlertsDelivered *prometheus.CounterVec

	// Intel metrics
	IntelReportsSent    prometheus.Counter
	IntelReportsDropped prometheus.Counter
	IntelReportErrors   prometheus.Counter

	// RPC metrics
	RPCCallLatency *prometheus.HistogramVec
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "launch_watch"
	}

	return &Metrics{
		TokensDetected: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "listener",
			Name:      "tokens_detected_total",
			Help:      "Total number of token creations parsed from the log stream",
		}),
		TokensDiscarded: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "listener",
			Name:      "tokens_discarded_total",
			Help:      "Total number of detected tokens discarded before filtering",
		}, []string{"reason"}),
		WSReconnects: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "listener",
			Name:      "ws_reconnects_total",
			Help:      "Total number of WebSocket reconnections",
		}),

		FilterEvaluations: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "filter",
			Name:      "evaluations_total",
			Help:      "Total number of stage evaluations by stage and result",
		}, []string{"stage", "result"}),
		FilterRejections: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "filter",
			Name:      "rejections_total",
			Help:      "Total number of pipeline rejections by first failing stage",
		}, []string{"stage"}),
		FilterDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "filter",
			Name:      "stage_duration_seconds",
			Help:      "Stage evaluation duration in seconds",
			Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1, 2.5, 5},
		}, []string{"stage"}),
		QualityScores: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "filter",
			Name:      "quality_score",
			Help:      "Quality scores assigned to approved tokens",
			Buckets:   []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
		}),

		SwapsRecorded: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stats",
			Name:      "swaps_recorded_total",
			Help:      "Total number of swap events recorded into rolling windows",
		}),
		TrackedMints: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "stats",
			Name:      "tracked_mints",
			Help:      "Number of mints with non-empty rolling windows",
		}),
		LaunchScores: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "stats",
			Name:      "launch_score",
			Help:      "Launch scores computed from rolling windows",
			Buckets:   []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		}),

		AlertsAllowed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "alert",
			Name:      "allowed_total",
			Help:      "Total number of alerts allowed by the gate, by reason",
		}, []string{"reason"}),
		AlertsBlocked: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "alert",
			Name:      "blocked_total",
			Help:      "Total number of alerts blocked by the gate, by reason",
		}, []string{"reason"}),
		AlertsDelivered: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "alert",
			Name:      "delivered_total",
			Help:      "Total number of alerts delivered, by sink and status",
		}, []string{"sink", "status"}),

		IntelReportsSent: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "intel",
			Name:      "reports_sent_total",
			Help:      "Total number of reports delivered to the intel service",
		}),
		IntelReportsDropped: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "intel",
			Name:      "reports_dropped_total",
			Help:      "Total number of reports dropped due to a full queue",
		}),
		IntelReportErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "intel",
			Name:      "report_errors_total",
			Help:      "Total number of failed intel deliveries",
		}),

		RPCCallLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "rpc",
			Name:      "call_duration_seconds",
			Help:      "RPC call duration in seconds by method",
			Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"method"}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// Package-level shortcuts into DefaultMetrics used on hot paths.
var (
	TokensDetected  = DefaultMetrics.TokensDetected
	TokensDiscarded = DefaultMetrics.TokensDiscarded
)

// RecordStageResult increments the evaluation counter for a stage.
func RecordStageResult(stage string, passed bool) {
	result := "pass"
	if !passed {
		result = "fail"
	}
	DefaultMetrics.FilterEvaluations.WithLabelValues(stage, result).Inc()
}

// RecordRejection marks a pipeline rejection by its first failing stage.
func RecordRejection(stage string) {
	DefaultMetrics.FilterRejections.WithLabelValues(stage).Inc()
}

// RecordQualityScore observes an approved token's quality score.
func RecordQualityScore(score float64) {
	DefaultMetrics.QualityScores.Observe(score)
}

// RecordAlertDecision counts a gate verdict.
func RecordAlertDecision(allowed bool, reason string) {
	if allowed {
		DefaultMetrics.AlertsAllowed.WithLabelValues(reason).Inc()
	} else {
		DefaultMetrics.AlertsBlocked.WithLabelValues(reason).Inc()
	}
}

// RecordDelivery counts an alert delivery attempt per sink.
func RecordDelivery(sink string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	DefaultMetrics.AlertsDelivered.WithLabelValues(sink, status).Inc()
}

// RecordRPCLatency observes an RPC call duration.
func RecordRPCLatency(method string, seconds float64) {
	DefaultMetrics.RPCCallLatency.WithLabelValues(method).Observe(seconds)
}
