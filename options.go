package objhash

import (
	"log/slog"

	"github.com/zero-day-ai/objhash/canon"
	"github.com/zero-day-ai/objhash/identity"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Option configures canonicalization and hashing.
type Option func(*hasherConfig)

// hasherConfig holds the settings shared by the package-level functions and
// Hasher.
type hasherConfig struct {
	sortArrays      bool
	ignoreUndefined bool
	customEncoder   CustomEncoder
	seed            uint32
	registry        *identity.Registry
	logger          *slog.Logger
	tracer          trace.Tracer
	meterProvider   metric.MeterProvider
}

func newConfig(opts []Option) hasherConfig {
	cfg := hasherConfig{
		ignoreUndefined: true,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// encoding returns the canonicalizer options for this configuration.
func (c *hasherConfig) encoding() canon.Options {
	opts := canon.Options{
		SortArrays:                c.sortArrays,
		IgnoreUndefinedProperties: c.ignoreUndefined,
		CustomEncoder:             c.customEncoder,
	}
	if c.registry != nil {
		opts.Labeler = c.registry
	}
	return opts
}

// WithSortArrays treats slices and arrays as unordered, so that [1,2] and
// [2,1] produce the same fingerprint. Default false.
func WithSortArrays(sort bool) Option {
	return func(c *hasherConfig) {
		c.sortArrays = sort
	}
}

// WithIgnoreUndefinedProperties controls whether record entries holding
// Undefined are dropped. Default true.
func WithIgnoreUndefinedProperties(ignore bool) Option {
	return func(c *hasherConfig) {
		c.ignoreUndefined = ignore
	}
}

// WithCustomEncoder installs a hook that may take over the encoding of
// non-scalar values. See CustomEncoder.
func WithCustomEncoder(fn CustomEncoder) Option {
	return func(c *hasherConfig) {
		c.customEncoder = fn
	}
}

// WithSeed seeds the mixer. Fingerprints computed with different seeds are
// unrelated. Default 0.
func WithSeed(seed uint32) Option {
	return func(c *hasherConfig) {
		c.seed = seed
	}
}

// WithRegistry labels funcs and opaque references with r instead of the
// process-wide registry. A scoped registry can be Reset, which bounds the
// memory pinned by labelled references.
func WithRegistry(r *identity.Registry) Option {
	return func(c *hasherConfig) {
		c.registry = r
	}
}

// WithLogger sets the logger used by a Hasher.
// If not provided, log output is discarded.
func WithLogger(logger *slog.Logger) Option {
	return func(c *hasherConfig) {
		c.logger = logger
	}
}

// WithTracer sets an OpenTelemetry tracer. Hasher records one span per call.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *hasherConfig) {
		c.tracer = tracer
	}
}

// WithMeterProvider sets the OpenTelemetry meter provider used to create the
// Hasher's metric instruments.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(c *hasherConfig) {
		c.meterProvider = mp
	}
}
