package vecturakit

// SearchOptions configures score fusion and defaults for Search/SearchVector,
// grounded on the teacher module's SearchOptions (TopK/Threshold) but
// extended with the hybrid-fusion and BM25 knobs this spec's engine needs.
type SearchOptions struct {
	// DefaultNumResults is used when a search call does not override it.
	DefaultNumResults int

	// MinThreshold, if non-nil, is the default minimum fused score for a
	// result to be returned. Must be in [-1, 1] when set.
	MinThreshold *float64

	// HybridWeight (w) blends cosine and BM25-normalized score:
	// score = w*cosine + (1-w)*bm25_norm. Clamped to [0, 1].
	HybridWeight float64

	// K1 and B are the Okapi BM25 term-frequency-saturation and
	// length-normalization parameters.
	K1 float64
	B  float64

	// BM25NormalizationFactor rescales raw BM25 scores into roughly [0, 1]
	// before blending with cosine. A crude, corpus-specific knob.
	BM25NormalizationFactor float64
}

// DefaultSearchOptions returns the spec's documented defaults.
func DefaultSearchOptions() SearchOptions {
	return SearchOptions{
		DefaultNumResults:       10,
		MinThreshold:            nil,
		HybridWeight:            0.5,
		K1:                      1.2,
		B:                       0.75,
		BM25NormalizationFactor: 10.0,
	}
}

func (o SearchOptions) validate() error {
	if o.DefaultNumResults <= 0 {
		return &InvalidInputError{Reason: "search default_num_results must be > 0"}
	}
	if o.K1 < 0 {
		return &InvalidInputError{Reason: "search k1 must be >= 0"}
	}
	if o.B < 0 || o.B > 1 {
		return &InvalidInputError{Reason: "search b must be within [0, 1]"}
	}
	return validateThreshold(o.MinThreshold)
}

func (o SearchOptions) clampedHybridWeight() float64 {
	switch {
	case o.HybridWeight < 0:
		return 0
	case o.HybridWeight > 1:
		return 1
	default:
		return o.HybridWeight
	}
}

// MemoryStrategyKind selects how a DB keeps documents resident in memory.
type MemoryStrategyKind int

const (
	// StrategyAutomatic switches between full-memory and indexed behavior
	// based on live document count versus Threshold.
	StrategyAutomatic MemoryStrategyKind = iota
	// StrategyFullMemory always keeps every document's embedding resident.
	StrategyFullMemory
	// StrategyIndexed always uses candidate generation plus on-demand
	// hydration, regardless of corpus size.
	StrategyIndexed
)

func (k MemoryStrategyKind) String() string {
	switch k {
	case StrategyAutomatic:
		return "automatic"
	case StrategyFullMemory:
		return "full_memory"
	case StrategyIndexed:
		return "indexed"
	default:
		return "unknown"
	}
}

// MemoryStrategyConfig is the immutable memory-strategy configuration for a
// DB. CandidateMultiplier, BatchSize and MaxConcurrentBatches must be > 0
// for Automatic and Indexed, and Threshold must be > 0 for Automatic; they
// are validated at construction (see Open).
type MemoryStrategyConfig struct {
	Kind MemoryStrategyKind

	// Threshold is the live-document-count cutoff for Automatic mode: at or
	// below it the DB behaves as full_memory, above it as indexed.
	Threshold int

	// CandidateMultiplier oversamples candidates in indexed mode: for a
	// request of k results, k*CandidateMultiplier candidate ids are
	// requested from the storage provider's indexed trait.
	CandidateMultiplier int

	// BatchSize is the number of documents hydrated or persisted per batch.
	BatchSize int

	// MaxConcurrentBatches bounds how many batches run concurrently.
	MaxConcurrentBatches int
}

// defaultBatchSize and defaultMaxConcurrentBatches back full_memory's
// batched-write fan-out, which needs concurrency bounds even though
// full_memory itself carries no user-configurable numeric fields.
const (
	defaultBatchSize            = 100
	defaultMaxConcurrentBatches = 4
)

// DefaultMemoryStrategy returns automatic{threshold=10_000,
// candidate_multiplier=10, batch_size=100, max_concurrent_batches=4}.
func DefaultMemoryStrategy() MemoryStrategyConfig {
	return MemoryStrategyConfig{
		Kind:                 StrategyAutomatic,
		Threshold:            10_000,
		CandidateMultiplier:  10,
		BatchSize:            defaultBatchSize,
		MaxConcurrentBatches: defaultMaxConcurrentBatches,
	}
}

// FullMemoryStrategy returns the parameterless full_memory strategy.
func FullMemoryStrategy() MemoryStrategyConfig {
	return MemoryStrategyConfig{Kind: StrategyFullMemory}
}

// IndexedStrategy returns an always-indexed strategy with the given
// candidate oversampling and batching parameters.
func IndexedStrategy(candidateMultiplier, batchSize, maxConcurrentBatches int) MemoryStrategyConfig {
	return MemoryStrategyConfig{
		Kind:                 StrategyIndexed,
		CandidateMultiplier:  candidateMultiplier,
		BatchSize:            batchSize,
		MaxConcurrentBatches: maxConcurrentBatches,
	}
}

func (m MemoryStrategyConfig) validate() error {
	switch m.Kind {
	case StrategyFullMemory:
		return nil
	case StrategyAutomatic:
		if m.Threshold <= 0 {
			return &InvalidInputError{Reason: "memory strategy threshold must be > 0"}
		}
		fallthrough
	case StrategyIndexed:
		if m.CandidateMultiplier <= 0 {
			return &InvalidInputError{Reason: "memory strategy candidate_multiplier must be > 0"}
		}
		if m.BatchSize <= 0 {
			return &InvalidInputError{Reason: "memory strategy batch_size must be > 0"}
		}
		if m.MaxConcurrentBatches <= 0 {
			return &InvalidInputError{Reason: "memory strategy max_concurrent_batches must be > 0"}
		}
		return nil
	default:
		return &InvalidInputError{Reason: "unknown memory strategy kind"}
	}
}

// batchParams returns the effective batch_size/max_concurrent_batches used
// for both hydration and batched persistence, substituting package
// defaults for the parameterless full_memory strategy.
func (m MemoryStrategyConfig) batchParams() (batchSize, maxConcurrent int) {
	if m.BatchSize > 0 && m.MaxConcurrentBatches > 0 {
		return m.BatchSize, m.MaxConcurrentBatches
	}
	return defaultBatchSize, defaultMaxConcurrentBatches
}

// Config is the immutable-after-construction configuration for a DB.
type Config struct {
	// Name identifies the database in log output. Storage providers are not
	// given the Config; they take their own name or path at construction.
	Name string

	// Directory is informational only: the facade neither reads it nor
	// passes it to the storage provider, and does not touch the filesystem.
	Directory string

	// Dimension declares the embedding size. If zero, it is auto-detected
	// from the embedder (or the first added document) at construction and
	// frozen from that point on.
	Dimension int

	Search   SearchOptions
	Strategy MemoryStrategyConfig
}

// DefaultConfig returns a Config with the documented search and
// memory-strategy defaults. Name must still be set by the caller.
func DefaultConfig(name string) Config {
	return Config{
		Name:     name,
		Search:   DefaultSearchOptions(),
		Strategy: DefaultMemoryStrategy(),
	}
}
