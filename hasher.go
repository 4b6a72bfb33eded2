package objhash

import (
	"context"
	"log/slog"

	"github.com/zero-day-ai/objhash/canon"
	"github.com/zero-day-ai/objhash/mix"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

const instrumentationName = "github.com/zero-day-ai/objhash"

// Hasher computes fingerprints with a fixed configuration and reports each
// call to a logger, a tracer and a meter. It is safe for concurrent use.
//
// The package-level functions are equivalent to a Hasher without telemetry.
type Hasher struct {
	encoding canon.Options
	seed     uint32
	logger   *slog.Logger
	tracer   trace.Tracer
	metrics  *hasherMetrics
}

// hasherMetrics holds the metric instruments. They are created once in New
// and reused for every call.
type hasherMetrics struct {
	// fingerprints counts fingerprint computations by root kind.
	fingerprints metric.Int64Counter

	// canonicalLength records the length in bytes of each canonical string.
	canonicalLength metric.Int64Histogram
}

// New creates a Hasher.
func New(opts ...Option) *Hasher {
	cfg := newConfig(opts)

	h := &Hasher{
		encoding: cfg.encoding(),
		seed:     cfg.seed,
		logger:   cfg.logger,
		tracer:   cfg.tracer,
	}
	if h.logger == nil {
		h.logger = slog.New(slog.DiscardHandler)
	}
	if h.tracer == nil {
		h.tracer = tracenoop.NewTracerProvider().Tracer(instrumentationName)
	}

	mp := cfg.meterProvider
	if mp == nil {
		mp = metricnoop.NewMeterProvider()
	}
	metrics, err := initMetrics(mp.Meter(instrumentationName))
	if err != nil {
		h.logger.Warn("failed to create metric instruments, metrics disabled", "error", err)
		metrics, _ = initMetrics(metricnoop.NewMeterProvider().Meter(instrumentationName))
	}
	h.metrics = metrics
	return h
}

func initMetrics(meter metric.Meter) (*hasherMetrics, error) {
	m := &hasherMetrics{}
	var err error

	m.fingerprints, err = meter.Int64Counter(
		"objhash.fingerprints",
		metric.WithDescription("Number of fingerprints computed"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, err
	}

	m.canonicalLength, err = meter.Int64Histogram(
		"objhash.canonical.length",
		metric.WithDescription("Length of canonical strings"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Seed returns the mixer seed.
func (h *Hasher) Seed() uint32 {
	return h.seed
}

// Canonicalize returns the canonical string of v.
func (h *Hasher) Canonicalize(ctx context.Context, v any) string {
	_, span := h.tracer.Start(ctx, "objhash.canonicalize")
	defer span.End()

	kind := canon.KindOf(v)
	s := canon.Encode(v, h.encoding)
	span.SetAttributes(
		attribute.String("objhash.kind", kind.String()),
		attribute.Int("objhash.canonical.length", len(s)),
	)
	return s
}

// Fingerprint returns the 14-character fingerprint of v.
func (h *Hasher) Fingerprint(ctx context.Context, v any) string {
	a, b := h.Sum(ctx, v)
	return mix.Encode(a, b)
}

// Sum returns the two 32-bit halves of v's fingerprint.
func (h *Hasher) Sum(ctx context.Context, v any) (uint32, uint32) {
	ctx, span := h.tracer.Start(ctx, "objhash.fingerprint")
	defer span.End()

	kind := canon.KindOf(v)
	s := canon.Encode(v, h.encoding)
	a, b := mix.Sum(s, h.seed)

	span.SetAttributes(
		attribute.String("objhash.kind", kind.String()),
		attribute.Int("objhash.canonical.length", len(s)),
		attribute.Int64("objhash.seed", int64(h.seed)),
	)

	attrs := metric.WithAttributes(attribute.String("kind", kind.String()))
	h.metrics.fingerprints.Add(ctx, 1, attrs)
	h.metrics.canonicalLength.Record(ctx, int64(len(s)), attrs)

	if h.logger.Enabled(ctx, slog.LevelDebug) {
		h.logger.DebugContext(ctx, "computed fingerprint",
			"fingerprint", mix.Encode(a, b),
			"kind", kind.String(),
			"canonical_length", len(s),
		)
	}
	return a, b
}
