package vecturakit

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/liliang-cn/vecturakit/internal/concurrency"
	"github.com/liliang-cn/vecturakit/internal/tokenize"
	"github.com/liliang-cn/vecturakit/internal/vectormath"
)

// modeForCount resolves the effective memory strategy for a live document
// count of n, degrading indexed/automatic to full_memory whenever the
// storage provider lacks the StorageIndexed capability.
func (db *DB) modeForCount(n int) MemoryStrategyKind {
	switch db.cfg.Strategy.Kind {
	case StrategyFullMemory:
		return StrategyFullMemory
	case StrategyIndexed:
		if db.indexed == nil {
			return StrategyFullMemory
		}
		return StrategyIndexed
	case StrategyAutomatic:
		if db.indexed == nil {
			return StrategyFullMemory
		}
		if n > db.cfg.Strategy.Threshold {
			return StrategyIndexed
		}
		return StrategyFullMemory
	default:
		return StrategyFullMemory
	}
}

// effectiveMode reports the strategy currently in effect, recomputed from
// the live document count. Callers must hold db.mu.
func (db *DB) effectiveMode() MemoryStrategyKind {
	return db.modeForCount(len(db.meta))
}

// load populates meta, bm25, and (in full_memory mode) documents/normalized
// from storage. It is called once, from Open, before any document has been
// added.
func (db *DB) load(ctx context.Context) error {
	ids, err := db.storage.ListIDs(ctx)
	if err != nil {
		return &StorageFailedError{Operation: "list_ids", Err: err}
	}

	mode := db.modeForCount(len(ids))
	batchSize, maxConcurrent := db.cfg.Strategy.batchParams()

	var mu sync.Mutex
	var reasons []string
	var seq int64 = -1

	err = concurrency.ForEachBatch(ctx, ids, batchSize, maxConcurrent, func(ctx context.Context, batch []uuid.UUID) error {
		for _, id := range batch {
			doc, loadErr := db.storage.Load(ctx, id)
			if loadErr != nil {
				mu.Lock()
				reasons = append(reasons, fmt.Sprintf("%s: %v", id, loadErr))
				mu.Unlock()
				continue
			}

			norm := vectormath.NormalizeL2(doc.Embedding)
			tokens := tokenize.Tokenize(doc.Text)

			mu.Lock()
			if err := db.adoptDimension(len(doc.Embedding)); err != nil {
				reasons = append(reasons, fmt.Sprintf("%s: %v", id, err))
				mu.Unlock()
				continue
			}
			db.bm25.Add(id, tokens)
			db.meta[id] = docMeta{CreatedAt: doc.CreatedAt, TextBytes: len(doc.Text), Seq: nextLoadSeq(&seq)}
			if mode == StrategyFullMemory {
				db.documents[id] = doc
				db.normalized[id] = norm
			}
			mu.Unlock()
		}
		return nil
	})
	if err != nil {
		return &StorageFailedError{Operation: "load", Err: err}
	}
	if len(reasons) > 0 {
		return &LoadFailedError{Reasons: reasons}
	}

	db.nextSeq = seq + 1
	return nil
}

func nextLoadSeq(seq *int64) int64 {
	*seq++
	return *seq
}

// adoptDimension freezes db.dim on first observation and validates every
// subsequent one against it.
func (db *DB) adoptDimension(n int) error {
	if !db.dimFrozen {
		db.dim = n
		db.dimFrozen = true
		return nil
	}
	if n != db.dim {
		return &DimensionMismatchError{Expected: db.dim, Got: n}
	}
	return nil
}

// hydrateCandidates loads, normalizes, and caches every id in ids not
// already resident in db.documents, using the configured batch parameters.
// A hydration failure for an individual candidate is logged and the
// candidate is simply left absent from db.documents; it never fails the
// surrounding search. Callers must hold db.mu.
func (db *DB) hydrateCandidates(ctx context.Context, ids []uuid.UUID) error {
	var missing []uuid.UUID
	for _, id := range ids {
		if _, ok := db.documents[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	batchSize, maxConcurrent := db.cfg.Strategy.batchParams()

	var mu sync.Mutex
	return concurrency.ForEachBatch(ctx, missing, batchSize, maxConcurrent, func(ctx context.Context, batch []uuid.UUID) error {
		for _, id := range batch {
			doc, err := db.storage.Load(ctx, id)
			if err != nil {
				db.logger.Warn("candidate hydration failed", "id", id, "error", err)
				continue
			}
			norm := vectormath.NormalizeL2(doc.Embedding)

			mu.Lock()
			db.documents[id] = doc
			db.normalized[id] = norm
			mu.Unlock()
		}
		return nil
	})
}

// candidateIDs returns the ids searchInternal should score for queryVec,
// given the current effective mode: every live id in full_memory mode, or
// an oversampled nearest-neighbor candidate set from the indexed storage
// trait otherwise. Callers must hold db.mu.
func (db *DB) candidateIDs(ctx context.Context, queryVec []float32, numResults int) ([]uuid.UUID, error) {
	if db.effectiveMode() == StrategyFullMemory {
		ids := make([]uuid.UUID, 0, len(db.meta))
		for id := range db.meta {
			ids = append(ids, id)
		}
		return ids, nil
	}

	k := numResults * db.cfg.Strategy.CandidateMultiplier
	if k <= 0 || k > len(db.meta) {
		k = len(db.meta)
	}
	ids, err := db.indexed.CandidateIDs(ctx, queryVec, k)
	if err != nil {
		return nil, &StorageFailedError{Operation: "candidate_ids", Err: err}
	}
	if err := db.hydrateCandidates(ctx, ids); err != nil {
		return nil, err
	}
	return ids, nil
}
