// Package observability holds the OTel metric instruments and the Prometheus
// scrape endpoint for long-running searches.
package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricCandidatesTotal  = "pdforce.search.candidates.total"
	metricChunksTotal      = "pdforce.search.chunks.total"
	metricChunkDuration    = "pdforce.search.chunk.duration.seconds"
	metricProbeErrorsTotal = "pdforce.search.probe.errors.total"
	metricCheckpointsTotal = "pdforce.search.checkpoints.total"

	attrGenerator = "generator"
)

// durationBucketBoundaries covers chunk durations from milliseconds to
// minutes; candidate probing cost varies by orders of magnitude with the
// target's encryption parameters.
var durationBucketBoundaries = []float64{
	0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 120,
}

// SearchMetrics holds OTel instruments for search progress metrics.
type SearchMetrics struct {
	candidatesTotal metric.Int64Counter
	chunksTotal     metric.Int64Counter
	chunkDuration   metric.Float64Histogram
	probeErrors     metric.Int64Counter
	checkpoints     metric.Int64Counter
}

// NewSearchMetrics creates search metric instruments from the given meter.
func NewSearchMetrics(mt metric.Meter) (*SearchMetrics, error) {
	b := newMetricBuilder(mt)

	sm := &SearchMetrics{
		candidatesTotal: b.counter(metricCandidatesTotal, "Total candidate passwords probed", "{candidate}"),
		chunksTotal:     b.counter(metricChunksTotal, "Total candidate chunks completed", "{chunk}"),
		chunkDuration:   b.histogram(metricChunkDuration, "Per-chunk probing duration in seconds", "s", durationBucketBoundaries...),
		probeErrors:     b.counter(metricProbeErrorsTotal, "Total probe evaluation failures", "{error}"),
		checkpoints:     b.counter(metricCheckpointsTotal, "Total checkpoint snapshots written", "{save}"),
	}

	if b.err != nil {
		return nil, b.err
	}

	return sm, nil
}

// RecordCandidates records probed candidates for one generator.
// Safe to call on a nil receiver (no-op).
func (sm *SearchMetrics) RecordCandidates(ctx context.Context, specID string, count uint64) {
	if sm == nil {
		return
	}

	sm.candidatesTotal.Add(ctx, int64(count),
		metric.WithAttributes(attribute.String(attrGenerator, specID)))
}

// RecordChunk records one completed chunk and its duration.
// Safe to call on a nil receiver (no-op).
func (sm *SearchMetrics) RecordChunk(ctx context.Context, specID string, elapsed time.Duration) {
	if sm == nil {
		return
	}

	attrs := metric.WithAttributes(attribute.String(attrGenerator, specID))
	sm.chunksTotal.Add(ctx, 1, attrs)
	sm.chunkDuration.Record(ctx, elapsed.Seconds(), attrs)
}

// RecordProbeErrors records probe evaluation failures.
// Safe to call on a nil receiver (no-op).
func (sm *SearchMetrics) RecordProbeErrors(ctx context.Context, count uint64) {
	if sm == nil || count == 0 {
		return
	}

	sm.probeErrors.Add(ctx, int64(count))
}

// RecordCheckpoint records one checkpoint save.
// Safe to call on a nil receiver (no-op).
func (sm *SearchMetrics) RecordCheckpoint(ctx context.Context) {
	if sm == nil {
		return
	}

	sm.checkpoints.Add(ctx, 1)
}
