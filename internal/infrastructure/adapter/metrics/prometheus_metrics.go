package metrics

import (
	"database/sql"
	"strconv"
	"strings"

	"github.com/ownaimerch/merch-credits/internal/domain/port/core"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "merch_credits"

// PrometheusMetrics implements core.Metrics with prometheus collectors
type PrometheusMetrics struct {
	chargesCommitted          *prometheus.CounterVec
	creditsCharged            *prometheus.CounterVec
	chargesRaceLost           *prometheus.CounterVec
	entitlementDenied         *prometheus.CounterVec
	creditsGranted            prometheus.Counter
	reconcileOutcomes         *prometheus.CounterVec
	providerCalls             *prometheus.CounterVec
	providerDuration          *prometheus.HistogramVec
	backgroundRemovalDegraded prometheus.Counter
	httpRequests              *prometheus.CounterVec
	httpDuration              *prometheus.HistogramVec
	registerer                prometheus.Registerer
}

// NewPrometheusMetrics registers the ledger collectors; a nil registerer uses the default registry
func NewPrometheusMetrics(registerer prometheus.Registerer, service, environment string) *PrometheusMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	service = strings.TrimSpace(service)
	if service == "" {
		service = "merch-credits"
	}
	environment = strings.TrimSpace(environment)
	if environment == "" {
		environment = "unknown"
	}
	constLabels := prometheus.Labels{
		"service": service,
		"env":     environment,
	}

	m := &PrometheusMetrics{
		chargesCommitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "charges_committed_total",
			Help:        "Committed charges by billing mode.",
			ConstLabels: constLabels,
		}, []string{"billing_mode"}),
		creditsCharged: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "credits_charged_total",
			Help:        "Credits deducted by committed charges.",
			ConstLabels: constLabels,
		}, []string{"billing_mode"}),
		chargesRaceLost: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "charges_race_lost_total",
			Help:        "Charges that affected no rows after paid work completed and need manual reconciliation.",
			ConstLabels: constLabels,
		}, []string{"billing_mode"}),
		entitlementDenied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "entitlement_denied_total",
			Help:        "Denied entitlement evaluations by reason.",
			ConstLabels: constLabels,
		}, []string{"reason"}),
		creditsGranted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "credits_granted_total",
			Help:        "Credits granted from purchased packs.",
			ConstLabels: constLabels,
		}),
		reconcileOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "reconcile_outcomes_total",
			Help:        "Purchase reconciliations by outcome.",
			ConstLabels: constLabels,
		}, []string{"outcome"}),
		providerCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "provider_calls_total",
			Help:        "External provider calls by result.",
			ConstLabels: constLabels,
		}, []string{"provider", "operation", "result"}),
		providerDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   namespace,
			Name:        "provider_call_duration_seconds",
			Help:        "External provider call latency.",
			Buckets:     []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 30, 60, 90, 120},
			ConstLabels: constLabels,
		}, []string{"provider", "operation"}),
		backgroundRemovalDegraded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "background_removal_degraded_total",
			Help:        "Background removals that fell back to the original image.",
			ConstLabels: constLabels,
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "http_requests_total",
			Help:        "HTTP requests by route and status.",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   namespace,
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency by route.",
			Buckets:     []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
			ConstLabels: constLabels,
		}, []string{"method", "route"}),
		registerer: registerer,
	}

	registerer.MustRegister(
		m.chargesCommitted,
		m.creditsCharged,
		m.chargesRaceLost,
		m.entitlementDenied,
		m.creditsGranted,
		m.reconcileOutcomes,
		m.providerCalls,
		m.providerDuration,
		m.backgroundRemovalDegraded,
		m.httpRequests,
		m.httpDuration,
	)
	return m
}

// RegisterDBStats exposes connection pool statistics of a database handle
func (m *PrometheusMetrics) RegisterDBStats(db *sql.DB, name string) error {
	return m.registerer.Register(collectors.NewDBStatsCollector(db, name))
}

func (m *PrometheusMetrics) ChargeCommitted(billingMode string, cost int64) {
	m.chargesCommitted.WithLabelValues(billingMode).Inc()
	if cost > 0 {
		m.creditsCharged.WithLabelValues(billingMode).Add(float64(cost))
	}
}

func (m *PrometheusMetrics) ChargeRaceLost(billingMode string) {
	m.chargesRaceLost.WithLabelValues(billingMode).Inc()
}

func (m *PrometheusMetrics) EntitlementDenied(reason string) {
	m.entitlementDenied.WithLabelValues(reason).Inc()
}

func (m *PrometheusMetrics) CreditsGranted(credits int64) {
	if credits > 0 {
		m.creditsGranted.Add(float64(credits))
	}
}

func (m *PrometheusMetrics) ReconcileOutcome(outcome string) {
	m.reconcileOutcomes.WithLabelValues(outcome).Inc()
}

func (m *PrometheusMetrics) ProviderCall(provider, operation string, success bool, seconds float64) {
	result := "success"
	if !success {
		result = "error"
	}
	m.providerCalls.WithLabelValues(provider, operation, result).Inc()
	m.providerDuration.WithLabelValues(provider, operation).Observe(seconds)
}

func (m *PrometheusMetrics) BackgroundRemovalDegraded() {
	m.backgroundRemovalDegraded.Inc()
}

// ObserveHTTP records one served request; route is the matched pattern, not the raw path
func (m *PrometheusMetrics) ObserveHTTP(method, route string, status int, seconds float64) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(seconds)
}

var _ core.Metrics = (*PrometheusMetrics)(nil)
