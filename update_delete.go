package vecturakit

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// UpdateDocument replaces a document's text in place: equivalent to
// DeleteDocuments([id]) followed by AddDocumentWithID(id, newText), except
// both halves run under a single db.mu acquisition so no other public
// operation can observe the document absent mid-update. Updating a
// nonexistent id is tolerated: it succeeds as a plain add, mirroring the
// delete-then-add semantics this operation is defined in terms of.
func (db *DB) UpdateDocument(ctx context.Context, id uuid.UUID, newText string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if err := db.deleteDocumentsLocked(ctx, []uuid.UUID{id}); err != nil {
		return err
	}
	_, err := db.addDocumentsLocked(ctx, []string{newText}, []uuid.UUID{id}, nil)
	return err
}

// DeleteDocuments removes every id from in-memory state and storage.
// In-memory removal is unconditional; storage errors are aggregated and
// returned, but do not stop processing of the remaining ids.
func (db *DB) DeleteDocuments(ctx context.Context, ids []uuid.UUID) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.deleteDocumentsLocked(ctx, ids)
}

// deleteDocumentsLocked is DeleteDocuments' body. Callers must hold db.mu.
func (db *DB) deleteDocumentsLocked(ctx context.Context, ids []uuid.UUID) error {
	if err := db.checkOpen(); err != nil {
		return err
	}

	var errs []error
	for _, id := range ids {
		delete(db.documents, id)
		delete(db.normalized, id)
		delete(db.meta, id)
		db.bm25.Remove(id)

		if err := db.storage.Delete(ctx, id); err != nil {
			errs = append(errs, &StorageFailedError{Operation: "delete", Err: err})
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
