// Package telemetry provides Prometheus metrics and OpenTelemetry tracing for
// the review pipeline.
package telemetry

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	serviceName = "review-responder"
	namespace   = "review_responder"
)

// Metrics holds all review-responder Prometheus metrics.
type Metrics struct {
	// Process metrics
	ReviewsProcessed *prometheus.CounterVec
	ReviewsFailed    *prometheus.CounterVec
	ProcessDuration  *prometheus.HistogramVec

	// Generation metrics
	DraftAttempts *prometheus.HistogramVec
	DraftsChanged *prometheus.CounterVec

	// Provider metrics
	ProviderDuration *prometheus.HistogramVec
	CacheRequests    *prometheus.CounterVec

	// Verification metrics
	Violations *prometheus.CounterVec

	HistoryWriteFailures prometheus.Counter
}

// Provider wraps the tracer and a private metrics registry. A nil *Provider
// is valid and records nothing.
type Provider struct {
	Tracer   trace.Tracer
	Metrics  *Metrics
	registry *prometheus.Registry
}

// NewProvider initializes telemetry with a fresh registry carrying the Go and
// process collectors plus the service metrics.
func NewProvider() *Provider {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Provider{
		Tracer:   otel.Tracer(serviceName),
		Metrics:  initMetrics(promauto.With(reg)),
		registry: reg,
	}
}

// Registry exposes the registry for tests and extra collectors.
func (p *Provider) Registry() *prometheus.Registry {
	return p.registry
}

// Handler returns the Prometheus HTTP handler for the /metrics endpoint.
func (p *Provider) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{Registry: p.registry})
}

func initMetrics(f promauto.Factory) *Metrics {
	m := &Metrics{}

	m.ReviewsProcessed = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reviews_processed_total",
		Help:      "Reviews processed to a decision",
	}, []string{"mode", "decision"})

	m.ReviewsFailed = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reviews_failed_total",
		Help:      "Reviews that failed with a classified error",
	}, []string{"mode", "error_code"})

	m.ProcessDuration = f.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "process_duration_seconds",
		Help:      "End-to-end time to process one review",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 40},
	}, []string{"mode"})

	m.DraftAttempts = f.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "draft_attempts",
		Help:      "Generator calls made per regeneration loop",
		Buckets:   []float64{1, 2, 3, 4, 5},
	}, []string{"regenerate"})

	m.DraftsChanged = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "drafts_total",
		Help:      "Regeneration loop outcomes by whether the draft changed",
	}, []string{"changed"})

	m.ProviderDuration = f.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "provider_call_duration_seconds",
		Help:      "Latency of draft generator and compliance verifier calls",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"capability", "outcome"})

	m.CacheRequests = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "provider_cache_requests_total",
		Help:      "Provider cache lookups by result (hit, miss, error)",
	}, []string{"capability", "result"})

	m.Violations = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "violations_total",
		Help:      "Violations reported on merged verdicts",
	}, []string{"code"})

	m.HistoryWriteFailures = f.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "history_write_failures_total",
		Help:      "Process history records that could not be persisted",
	})

	return m
}

// RecordProcess records a completed review decision.
func (p *Provider) RecordProcess(mode, decision string, duration time.Duration) {
	if p == nil {
		return
	}
	p.Metrics.ReviewsProcessed.WithLabelValues(mode, decision).Inc()
	p.Metrics.ProcessDuration.WithLabelValues(mode).Observe(duration.Seconds())
}

// RecordProcessFailure records a review that ended in a classified error.
func (p *Provider) RecordProcessFailure(mode, errorCode string) {
	if p == nil {
		return
	}
	p.Metrics.ReviewsFailed.WithLabelValues(mode, errorCode).Inc()
}

// RecordDraftLoop records how many attempts a regeneration loop used.
func (p *Provider) RecordDraftLoop(regenerate bool, attempts int, changed bool) {
	if p == nil {
		return
	}
	p.Metrics.DraftAttempts.WithLabelValues(boolLabel(regenerate)).Observe(float64(attempts))
	p.Metrics.DraftsChanged.WithLabelValues(boolLabel(changed)).Inc()
}

// RecordProviderCall records one generator or verifier call.
func (p *Provider) RecordProviderCall(capability string, err error, duration time.Duration) {
	if p == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	p.Metrics.ProviderDuration.WithLabelValues(capability, outcome).Observe(duration.Seconds())
}

// RecordCache records a provider cache lookup.
func (p *Provider) RecordCache(capability, result string) {
	if p == nil {
		return
	}
	p.Metrics.CacheRequests.WithLabelValues(capability, result).Inc()
}

// RecordViolations counts violation codes on a merged verdict.
func (p *Provider) RecordViolations(codes []string) {
	if p == nil {
		return
	}
	for _, code := range codes {
		p.Metrics.Violations.WithLabelValues(code).Inc()
	}
}

// IncrementHistoryWriteFailures counts a dropped history record.
func (p *Provider) IncrementHistoryWriteFailures() {
	if p == nil {
		return
	}
	p.Metrics.HistoryWriteFailures.Inc()
}

// StartSpan starts a new trace span. The caller ends it.
//
//nolint:spancheck // Caller is responsible for ending the span
func (p *Provider) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if p == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return p.Tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
