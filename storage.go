package vecturakit

import (
	"context"

	"github.com/google/uuid"
)

// StorageBasic is the minimum persistence contract a DB needs: every
// provider, including storage/filestore and storage/sqlitestore, implements
// this. All methods must be safe for concurrent use.
type StorageBasic interface {
	// ListIDs returns every live document id, in no particular order.
	ListIDs(ctx context.Context) ([]uuid.UUID, error)

	// Load returns the full document for id, or a *DocumentNotFoundError.
	Load(ctx context.Context, id uuid.UUID) (*Document, error)

	// Store persists doc, creating or overwriting it.
	Store(ctx context.Context, doc *Document) error

	// Delete removes id. Deleting a nonexistent id is not an error.
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteAll removes every live document.
	DeleteAll(ctx context.Context) error
}

// StorageIndexed is an optional capability a StorageBasic provider may also
// implement: fast approximate nearest-neighbor candidate generation, used
// by the indexed and automatic memory strategies. storage/sqlitestore
// implements it; storage/filestore does not, causing indexed mode to
// silently degrade to full_memory when paired with it.
type StorageIndexed interface {
	StorageBasic

	// CandidateIDs returns up to k document ids likely to be near query,
	// without hydrating their text or embedding.
	CandidateIDs(ctx context.Context, query []float32, k int) ([]uuid.UUID, error)
}
