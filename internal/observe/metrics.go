// Package observe provides the OpenTelemetry metric instruments used across
// the webhook pipeline. Metrics are exported to Prometheus by InitProvider;
// tests should build a Metrics from their own MeterProvider with NewMetrics.
package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const meterName = "github.com/panyaai/panya"

// Metrics holds all instruments. Safe for concurrent use.
type Metrics struct {
	// Events counts inbound events by attribute "type".
	Events metric.Int64Counter
	// CacheLookups counts response cache reads by "kind" and "result" (hit|miss).
	CacheLookups metric.Int64Counter
	// Generations counts gateway calls by "mode" and "status".
	Generations metric.Int64Counter
	// Failures counts pipeline failures by "stage".
	Failures metric.Int64Counter

	GenerationDuration    metric.Float64Histogram
	TranscodeDuration     metric.Float64Histogram
	TranscriptionDuration metric.Float64Histogram

	// InFlight tracks tasks currently admitted by the concurrency limiter.
	InFlight metric.Int64UpDownCounter
	// Queued tracks tasks waiting for admission.
	Queued metric.Int64UpDownCounter
}

var latencyBuckets = []float64{
	0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60,
}

// NewMetrics creates every instrument from mp.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.Events, err = m.Int64Counter("panya.events",
		metric.WithDescription("Inbound webhook events by type."),
	); err != nil {
		return nil, err
	}
	if met.CacheLookups, err = m.Int64Counter("panya.cache.lookups",
		metric.WithDescription("Response cache lookups by kind and result."),
	); err != nil {
		return nil, err
	}
	if met.Generations, err = m.Int64Counter("panya.generation.requests",
		metric.WithDescription("Generation gateway calls by mode and status."),
	); err != nil {
		return nil, err
	}
	if met.Failures, err = m.Int64Counter("panya.failures",
		metric.WithDescription("Pipeline failures by stage."),
	); err != nil {
		return nil, err
	}

	if met.GenerationDuration, err = m.Float64Histogram("panya.generation.duration",
		metric.WithDescription("Latency of generation calls."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.TranscodeDuration, err = m.Float64Histogram("panya.transcode.duration",
		metric.WithDescription("Latency of voice clip transcoding."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.TranscriptionDuration, err = m.Float64Histogram("panya.transcription.duration",
		metric.WithDescription("Latency of speech recognition."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}

	if met.InFlight, err = m.Int64UpDownCounter("panya.queue.in_flight",
		metric.WithDescription("Generation tasks currently running."),
	); err != nil {
		return nil, err
	}
	if met.Queued, err = m.Int64UpDownCounter("panya.queue.waiting",
		metric.WithDescription("Generation tasks waiting for admission."),
	); err != nil {
		return nil, err
	}
	return met, nil
}

// Noop returns instruments that record nothing. Used when a component is
// constructed without metrics.
func Noop() *Metrics {
	met, err := NewMetrics(noop.NewMeterProvider())
	if err != nil {
		panic("observe: noop metrics: " + err.Error())
	}
	return met
}

// RecordEvent counts one inbound event.
func (m *Metrics) RecordEvent(ctx context.Context, eventType string) {
	m.Events.Add(ctx, 1, metric.WithAttributes(attribute.String("type", eventType)))
}

// RecordCacheLookup counts one cache read.
func (m *Metrics) RecordCacheLookup(ctx context.Context, kind string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.String("result", result),
	))
}

// RecordGeneration counts one gateway call and observes its latency.
func (m *Metrics) RecordGeneration(ctx context.Context, mode string, started time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	attrs := metric.WithAttributes(attribute.String("mode", mode), attribute.String("status", status))
	m.Generations.Add(ctx, 1, attrs)
	m.GenerationDuration.Record(ctx, time.Since(started).Seconds(), metric.WithAttributes(attribute.String("mode", mode)))
}

// RecordFailure counts one failure at stage.
func (m *Metrics) RecordFailure(ctx context.Context, stage string) {
	m.Failures.Add(ctx, 1, metric.WithAttributes(attribute.String("stage", stage)))
}
