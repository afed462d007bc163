package vecturakit

import (
	"time"

	"github.com/google/uuid"
)

// Document is the unit of storage: a piece of text, its dense embedding,
// and the time it was created. The id is a 128-bit UUID.
type Document struct {
	ID        uuid.UUID `json:"id"`
	Text      string    `json:"text"`
	Embedding []float32 `json:"embedding"`
	CreatedAt time.Time `json:"created_at"`
}

// SearchResult is a single ranked hit returned from Search/SearchVector.
type SearchResult struct {
	ID        uuid.UUID
	Text      string
	Score     float64
	CreatedAt time.Time
}

// DocumentSummary is a lightweight listing record that does not require
// hydrating a document's text or embedding from storage.
type DocumentSummary struct {
	ID        uuid.UUID
	CreatedAt time.Time
	TextBytes int
}

// docMeta is the cheap, always-resident bookkeeping kept for every live
// document regardless of memory strategy: enough to answer ListDocuments
// and reconstruct insertion order without hydrating text or embeddings.
type docMeta struct {
	CreatedAt time.Time
	TextBytes int
	Seq       int64
}
