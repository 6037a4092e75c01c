// Package metrics provides Prometheus collectors for the HTTP server, the
// interaction engine and knowledge reloads. All collectors are registered
// with the default registry during package initialization.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	HTTPRequestInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_request_in_flight",
			Help: "Current in-flight requests",
		},
	)

	RateLimiterBucketsTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rate_limiter_buckets_total",
			Help: "Number of clients holding a rate limiter bucket",
		},
	)

	AnalysesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_analyses_total",
			Help: "Completed analyses by overall risk",
		},
		[]string{"overall_risk"},
	)

	AnalysisDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "engine_analysis_duration_seconds",
			Help:    "Time to analyze one drug combination",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
		},
	)

	InteractionsFound = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_interactions_found_total",
			Help: "Matched interactions by severity",
		},
		[]string{"severity"},
	)

	UnknownDrugsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "engine_unknown_drugs_total",
			Help: "Identifiers without a drug record seen in analyses",
		},
	)

	BatchSize = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "engine_batch_size",
			Help:    "Number of combinations per batch analysis",
			Buckets: []float64{1, 2, 5, 10, 20, 50, 100},
		},
	)

	KnowledgeReloadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "knowledge_reloads_total",
			Help: "Knowledge reload attempts by result",
		},
		[]string{"result"},
	)

	KnowledgeReloadDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "knowledge_reload_duration_seconds",
			Help:    "Time to parse, validate and publish the knowledge tables",
			Buckets: []float64{.01, .05, .1, .5, 1, 5, 30, 120},
		},
	)

	KnowledgeDrugs = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "knowledge_drugs",
			Help: "Drugs in the published snapshot",
		},
	)

	KnowledgeInteractions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "knowledge_interactions",
			Help: "Interaction records in the published snapshot",
		},
	)

	KnowledgeSkippedRecords = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "knowledge_skipped_records",
			Help: "Records dropped by validation in the last successful load",
		},
	)
)

func init() {
	prometheus.MustRegister(
		HTTPRequestTotals,
		HTTPRequestDuration,
		HTTPRequestInFlight,
		RateLimiterBucketsTotal,
		AnalysesTotal,
		AnalysisDuration,
		InteractionsFound,
		UnknownDrugsTotal,
		BatchSize,
		KnowledgeReloadsTotal,
		KnowledgeReloadDuration,
		KnowledgeDrugs,
		KnowledgeInteractions,
		KnowledgeSkippedRecords,
	)
}

// ObserveAnalysis records one finished analysis
func ObserveAnalysis(overallRisk string, severities []string, unknown int, elapsed time.Duration) {
	AnalysesTotal.WithLabelValues(overallRisk).Inc()
	AnalysisDuration.Observe(elapsed.Seconds())
	for _, s := range severities {
		InteractionsFound.WithLabelValues(s).Inc()
	}
	if unknown > 0 {
		UnknownDrugsTotal.Add(float64(unknown))
	}
}

// ObserveReload records a reload attempt. Gauges only move on success.
func ObserveReload(success bool, elapsed time.Duration, drugs, interactions, skipped int) {
	KnowledgeReloadDuration.Observe(elapsed.Seconds())
	if !success {
		KnowledgeReloadsTotal.WithLabelValues("failure").Inc()
		return
	}
	KnowledgeReloadsTotal.WithLabelValues("success").Inc()
	KnowledgeDrugs.Set(float64(drugs))
	KnowledgeInteractions.Set(float64(interactions))
	KnowledgeSkippedRecords.Set(float64(skipped))
}
