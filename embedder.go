package vecturakit

import (
	"context"
	"sync"
)

// Embedder turns text into a dense vector. A DB calls Embed/EmbedBatch only
// while holding its mutex, so calls from one DB never overlap.
type Embedder interface {
	// Dimension reports the embedding size this Embedder produces.
	Dimension(ctx context.Context) (int, error)

	// Embed returns the embedding for a single piece of text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch returns embeddings for each text, in the same order. An
	// implementation with no native batch API may fall back to BaseEmbedder.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// BaseEmbedder implements EmbedBatch by fanning Embed out across a bounded
// pool of goroutines, for Embedder implementations with no native batch
// call. Embed itself to get EmbedBatch for free:
//
//	type myEmbedder struct {
//	    vecturakit.BaseEmbedder
//	    client *someAPIClient
//	}
type BaseEmbedder struct {
	// EmbedFunc is called by EmbedBatch for each text. Implementations that
	// embed BaseEmbedder must set this, typically in their constructor.
	EmbedFunc func(ctx context.Context, text string) ([]float32, error)

	// Concurrency bounds the number of in-flight Embed calls. Zero means 1.
	Concurrency int
}

func (b BaseEmbedder) concurrency() int {
	if b.Concurrency <= 0 {
		return 1
	}
	return b.Concurrency
}

// EmbedBatch runs EmbedFunc over texts with bounded concurrency, preserving
// input order, and returns the first error encountered (others are dropped).
func (b BaseEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	if len(texts) == 0 {
		return out, nil
	}

	sem := make(chan struct{}, b.concurrency())
	var wg sync.WaitGroup
	var once sync.Once
	var firstErr error

	for i, text := range texts {
		i, text := i, text
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			vec, err := b.EmbedFunc(ctx, text)
			if err != nil {
				once.Do(func() { firstErr = &EmbeddingFailedError{Text: text, Err: err} })
				return
			}
			out[i] = vec
		}()
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return out, nil
}
