// Package telemetry provides OpenTelemetry instrumentation for the
// watchdog service. It exports Prometheus metrics and a tracer for the
// ingest path.
package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "sentiment-watchdog"

// Metrics holds all watchdog Prometheus metrics.
type Metrics struct {
	// Ingest metrics
	MessagesIngested *prometheus.CounterVec
	IngestFailures   *prometheus.CounterVec

	// Classifier metrics
	ClassificationDuration prometheus.Histogram
	ClassificationFailures prometheus.Counter

	// Rule engine metrics
	RuleEvaluationDuration prometheus.Histogram
	AlertsFired            *prometheus.CounterVec

	// Notification metrics
	NotificationsSent   prometheus.Counter
	NotificationsFailed prometheus.Counter
}

// Provider wraps telemetry providers.
type Provider struct {
	Tracer  trace.Tracer
	Metrics *Metrics
}

// NewProvider initializes telemetry with Prometheus metrics.
func NewProvider() *Provider {
	return &Provider{
		Tracer:  otel.Tracer(serviceName),
		Metrics: initMetrics(),
	}
}

// Handler returns the Prometheus HTTP handler for the /metrics endpoint.
func (p *Provider) Handler() http.Handler {
	return promhttp.Handler()
}

func initMetrics() *Metrics {
	m := &Metrics{}
	initIngestMetrics(m)
	initClassifierMetrics(m)
	initRuleEngineMetrics(m)
	initNotificationMetrics(m)
	return m
}

func initIngestMetrics(m *Metrics) {
	m.MessagesIngested = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "watchdog_messages_ingested_total",
		Help: "Total messages ingested, by support channel",
	}, []string{"channel"})

	m.IngestFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "watchdog_ingest_failures_total",
		Help: "Total rejected ingest attempts, by failure reason",
	}, []string{"reason"})
}

func initClassifierMetrics(m *Metrics) {
	m.ClassificationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "watchdog_classification_duration_seconds",
		Help:    "Duration of classifier calls",
		Buckets: prometheus.DefBuckets,
	})

	m.ClassificationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "watchdog_classification_failures_total",
		Help: "Total classifier calls that failed or timed out",
	})
}

func initRuleEngineMetrics(m *Metrics) {
	m.RuleEvaluationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "watchdog_rule_evaluation_duration_seconds",
		Help:    "Duration of alert rule evaluation per ingest event",
		Buckets: prometheus.ExponentialBuckets(0.00001, 10, 6),
	})

	m.AlertsFired = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "watchdog_alerts_fired_total",
		Help: "Total alerts fired, by emotion",
	}, []string{"emotion"})
}

func initNotificationMetrics(m *Metrics) {
	m.NotificationsSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "watchdog_notifications_sent_total",
		Help: "Total alert notifications delivered",
	})

	m.NotificationsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "watchdog_notifications_failed_total",
		Help: "Total alert notifications that failed to deliver",
	})
}
