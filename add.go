package vecturakit

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/liliang-cn/vecturakit/internal/concurrency"
	"github.com/liliang-cn/vecturakit/internal/tokenize"
	"github.com/liliang-cn/vecturakit/internal/vectormath"
)

// AddDocument embeds text, assigns it a fresh id, and persists it. It
// returns the assigned id.
func (db *DB) AddDocument(ctx context.Context, text string) (uuid.UUID, error) {
	ids, err := db.AddDocuments(ctx, []string{text})
	if err != nil {
		return uuid.Nil, err
	}
	return ids[0], nil
}

// AddDocumentWithID embeds text and persists it under the given id,
// overwriting any existing document with that id.
func (db *DB) AddDocumentWithID(ctx context.Context, id uuid.UUID, text string) error {
	_, err := db.addDocuments(ctx, []string{text}, []uuid.UUID{id}, nil)
	return err
}

// AddDocuments embeds texts and persists each concurrently, returning a
// freshly generated id per text in the same order.
func (db *DB) AddDocuments(ctx context.Context, texts []string) ([]uuid.UUID, error) {
	return db.addDocuments(ctx, texts, nil, nil)
}

// AddDocumentsWithIDs is AddDocuments with caller-supplied ids. ids must
// have the same length as texts.
func (db *DB) AddDocumentsWithIDs(ctx context.Context, texts []string, ids []uuid.UUID) ([]uuid.UUID, error) {
	if len(ids) != len(texts) {
		return nil, &InvalidInputError{Reason: "ids and texts must have the same length"}
	}
	return db.addDocuments(ctx, texts, ids, nil)
}

// AddDocumentWithVector persists text and a caller-supplied embedding
// together, bypassing the configured embedder entirely. Useful when
// embeddings are computed upstream of vecturakit. Returns the assigned id.
func (db *DB) AddDocumentWithVector(ctx context.Context, text string, vector []float32) (uuid.UUID, error) {
	ids, err := db.addDocuments(ctx, []string{text}, nil, [][]float32{vector})
	if err != nil {
		return uuid.Nil, err
	}
	return ids[0], nil
}

// AddDocumentsWithVectors is AddDocuments for callers supplying
// pre-computed embeddings instead of an embedder. vectors must have the
// same length as texts.
func (db *DB) AddDocumentsWithVectors(ctx context.Context, texts []string, vectors [][]float32) ([]uuid.UUID, error) {
	if len(vectors) != len(texts) {
		return nil, &InvalidInputError{Reason: "vectors and texts must have the same length"}
	}
	return db.addDocuments(ctx, texts, nil, vectors)
}

// addDocuments is the shared implementation behind every Add* method. It
// acquires db.mu itself; callers that already hold it (e.g. UpdateDocument)
// must use addDocumentsLocked instead.
func (db *DB) addDocuments(ctx context.Context, texts []string, ids []uuid.UUID, vectors [][]float32) ([]uuid.UUID, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.addDocumentsLocked(ctx, texts, ids, vectors)
}

// addDocumentsLocked is addDocuments' body. Callers must hold db.mu.
// Exactly one of embedding via db.embedder or using the supplied vectors
// happens: if vectors is non-nil it is used verbatim and no embedder call
// is made.
func (db *DB) addDocumentsLocked(ctx context.Context, texts []string, ids []uuid.UUID, vectors [][]float32) ([]uuid.UUID, error) {
	if err := db.checkOpen(); err != nil {
		return nil, err
	}
	if len(texts) == 0 {
		return nil, &InvalidInputError{Reason: "texts must not be empty"}
	}
	for _, text := range texts {
		if err := validateText(text); err != nil {
			return nil, err
		}
	}

	resolvedIDs := make([]uuid.UUID, len(texts))
	for i := range texts {
		if ids != nil {
			resolvedIDs[i] = ids[i]
		} else {
			resolvedIDs[i] = uuid.New()
		}
	}

	if vectors == nil {
		if err := db.requireEmbedder(); err != nil {
			return nil, err
		}
		embedded, err := db.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			var alreadyTyped *EmbeddingFailedError
			if errors.As(err, &alreadyTyped) {
				return nil, err
			}
			return nil, &EmbeddingFailedError{Text: texts[0], Err: err}
		}
		vectors = embedded
	}

	for _, v := range vectors {
		if err := validateVector(v); err != nil {
			return nil, err
		}
		// db.dim is 0 until either a declared Config.Dimension or the first
		// successful embedding freezes it, so this only rejects mismatches
		// against an already-known dimension.
		if err := validateDimension(v, db.dim); err != nil {
			return nil, err
		}
	}

	docs := make([]*Document, len(texts))
	for i, text := range texts {
		docs[i] = &Document{
			ID:        resolvedIDs[i],
			Text:      text,
			Embedding: vectors[i],
			CreatedAt: db.now(),
		}
	}

	batchSize, maxConcurrent := db.cfg.Strategy.batchParams()

	var mu sync.Mutex
	var firstErr error
	persisted := make([]bool, len(docs))

	_ = concurrency.ForEachBatch(ctx, indexRange(len(docs)), batchSize, maxConcurrent, func(ctx context.Context, batch []int) error {
		for _, i := range batch {
			if err := db.storage.Store(ctx, docs[i]); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = &StorageFailedError{Operation: "store", Err: err}
				}
				mu.Unlock()
				continue
			}
			mu.Lock()
			persisted[i] = true
			mu.Unlock()
		}
		return nil
	})

	// Best-effort atomicity: mutate in-memory state only for documents that
	// were actually persisted, regardless of whether some batch failed.
	for i, doc := range docs {
		if !persisted[i] {
			continue
		}
		if !db.dimFrozen {
			db.dim = len(doc.Embedding)
			db.dimFrozen = true
		}
		norm := vectormath.NormalizeL2(doc.Embedding)
		tokens := tokenize.Tokenize(doc.Text)

		db.bm25.Remove(doc.ID) // tolerate overwrite of an existing id
		db.bm25.Add(doc.ID, tokens)
		db.documents[doc.ID] = doc
		db.normalized[doc.ID] = norm
		if _, exists := db.meta[doc.ID]; !exists {
			db.meta[doc.ID] = docMeta{CreatedAt: doc.CreatedAt, TextBytes: len(doc.Text), Seq: db.nextSeq}
			db.nextSeq++
		} else {
			db.meta[doc.ID] = docMeta{CreatedAt: doc.CreatedAt, TextBytes: len(doc.Text), Seq: db.meta[doc.ID].Seq}
		}
	}

	if firstErr != nil {
		return nil, firstErr
	}
	return resolvedIDs, nil
}

func (db *DB) requireEmbedder() error {
	if db.embedder == nil {
		return ErrEmbedderNotConfigured
	}
	return nil
}

func indexRange(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}
