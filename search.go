package vecturakit

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/liliang-cn/vecturakit/internal/tokenize"
	"github.com/liliang-cn/vecturakit/internal/vectormath"
)

// SearchOption customizes a single Search or SearchVector call, overriding
// the DB's configured SearchOptions defaults.
type SearchOption func(*searchParams)

type searchParams struct {
	numResults *int
	threshold  *float64
}

// WithNumResults overrides the number of results returned.
func WithNumResults(n int) SearchOption {
	return func(p *searchParams) { p.numResults = &n }
}

// WithThreshold overrides the minimum fused score a result must meet.
func WithThreshold(threshold float64) SearchOption {
	return func(p *searchParams) { p.threshold = &threshold }
}

func (db *DB) resolveParams(opts []SearchOption) (numResults int, threshold *float64, err error) {
	p := &searchParams{}
	for _, opt := range opts {
		opt(p)
	}

	numResults = db.cfg.Search.DefaultNumResults
	if p.numResults != nil {
		numResults = *p.numResults
	}
	if err := validateNumResults(numResults); err != nil {
		return 0, nil, err
	}

	threshold = db.cfg.Search.MinThreshold
	if p.threshold != nil {
		threshold = p.threshold
	}
	if err := validateThreshold(threshold); err != nil {
		return 0, nil, err
	}

	return numResults, threshold, nil
}

// Search embeds query, tokenizes it for BM25, and returns the fused
// hybrid-ranked top results.
func (db *DB) Search(ctx context.Context, query string, opts ...SearchOption) ([]SearchResult, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if err := db.checkOpen(); err != nil {
		return nil, err
	}
	if err := validateText(query); err != nil {
		return nil, err
	}
	if err := db.requireEmbedder(); err != nil {
		return nil, err
	}

	numResults, threshold, err := db.resolveParams(opts)
	if err != nil {
		return nil, err
	}

	vec, err := db.embedder.Embed(ctx, query)
	if err != nil {
		return nil, &EmbeddingFailedError{Text: query, Err: err}
	}
	if err := validateDimension(vec, db.dim); err != nil {
		return nil, err
	}

	tokens := tokenize.Tokenize(query)
	return db.searchInternal(ctx, vec, tokens, numResults, threshold)
}

// SearchVector searches by a raw embedding directly, collapsing the hybrid
// fusion to pure cosine similarity (no BM25 contribution, no rescale).
func (db *DB) SearchVector(ctx context.Context, vec []float32, opts ...SearchOption) ([]SearchResult, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if err := db.checkOpen(); err != nil {
		return nil, err
	}
	if err := validateVector(vec); err != nil {
		return nil, err
	}
	if err := validateDimension(vec, db.dim); err != nil {
		return nil, err
	}

	numResults, threshold, err := db.resolveParams(opts)
	if err != nil {
		return nil, err
	}

	return db.searchInternal(ctx, vec, nil, numResults, threshold)
}

// searchInternal implements the fused-scoring algorithm common to Search
// and SearchVector. tokens is nil for vector-only queries, which collapses
// scoring to pure cosine. Callers must hold db.mu.
func (db *DB) searchInternal(ctx context.Context, vec []float32, tokens []string, numResults int, threshold *float64) ([]SearchResult, error) {
	queryNorm := vectormath.NormalizeL2(vec)

	candidates, err := db.candidateIDs(ctx, queryNorm, numResults)
	if err != nil {
		return nil, err
	}

	type scored struct {
		id    uuid.UUID
		score float64
		seq   int64
	}

	vectorOnly := tokens == nil
	hybrid := db.cfg.Search.clampedHybridWeight()
	normFactor := db.cfg.Search.BM25NormalizationFactor

	results := make([]scored, 0, len(candidates))
	for _, id := range candidates {
		norm, ok := db.normalized[id]
		if !ok {
			continue // not hydrated; dropped silently per the search contract
		}

		cos := float64(vectormath.Clamp(vectormath.Dot(queryNorm, norm), -1, 1))

		var score float64
		if vectorOnly {
			score = cos
		} else {
			bm25Raw := db.bm25.Score(tokens, id)
			bm25Norm := bm25Raw / normFactor
			if bm25Norm < 0 {
				bm25Norm = 0
			} else if bm25Norm > 1 {
				bm25Norm = 1
			}
			score = hybrid*cos + (1-hybrid)*bm25Norm
		}

		if threshold != nil && score < *threshold {
			continue
		}

		results = append(results, scored{id: id, score: score, seq: db.meta[id].Seq})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].score != results[j].score {
			return results[i].score > results[j].score
		}
		if results[i].seq != results[j].seq {
			return results[i].seq < results[j].seq
		}
		return results[i].id.String() < results[j].id.String()
	})

	if numResults < len(results) {
		results = results[:numResults]
	}

	out := make([]SearchResult, 0, len(results))
	for _, r := range results {
		doc := db.documents[r.id]
		out = append(out, SearchResult{
			ID:        r.id,
			Text:      doc.Text,
			Score:     r.score,
			CreatedAt: doc.CreatedAt,
		})
	}
	return out, nil
}
