package vecturakit

import (
	"context"
	"hash/fnv"

	"github.com/liliang-cn/vecturakit/internal/tokenize"
)

// hashEmbedder is a small deterministic Embedder for tests: it hashes each
// token into one of dim buckets and counts occurrences, so documents
// sharing vocabulary end up with higher cosine similarity. It has no
// semantic knowledge, but is enough to exercise the fused-scoring pipeline
// without depending on a real model in unit tests.
type hashEmbedder struct {
	dim int
}

func newHashEmbedder(dim int) *hashEmbedder {
	return &hashEmbedder{dim: dim}
}

func (e *hashEmbedder) Dimension(ctx context.Context) (int, error) {
	return e.dim, nil
}

func (e *hashEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vec := make([]float32, e.dim)
	for _, tok := range tokenize.Tokenize(text) {
		h := fnv.New32a()
		h.Write([]byte(tok))
		vec[int(h.Sum32())%e.dim]++
	}
	return vec, nil
}

func (e *hashEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		vec, err := e.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}
