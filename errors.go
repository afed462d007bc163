package vecturakit

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Sentinel errors, grounded on the teacher module's errors.go. Use
// errors.Is against these, or errors.As against the richer types below for
// the parameters of a failure.
var (
	// ErrStoreClosed is returned when an operation is attempted on a closed DB.
	ErrStoreClosed = errors.New("vecturakit: store is closed")

	// ErrEmbedderNotConfigured is returned when a text operation is invoked
	// without an embedder.
	ErrEmbedderNotConfigured = errors.New("vecturakit: embedder not configured")
)

// DimensionMismatchError reports a vector whose length did not match the
// declared or auto-detected embedding dimension.
type DimensionMismatchError struct {
	Expected int
	Got      int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("vecturakit: dimension mismatch: expected %d, got %d", e.Expected, e.Got)
}

// InvalidInputError reports a validation failure that short-circuits before
// any state mutation: empty query, empty/oversized text, mismatched
// ids/texts lengths, non-positive configuration parameters.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("vecturakit: invalid input: %s", e.Reason)
}

// DocumentNotFoundError reports an operation that explicitly required an
// existing document id.
type DocumentNotFoundError struct {
	ID uuid.UUID
}

func (e *DocumentNotFoundError) Error() string {
	return fmt.Sprintf("vecturakit: document not found: %s", e.ID)
}

// LoadFailedError aggregates every file that failed to decode during
// construction. Load is all-or-nothing: a single bad file fails the whole
// open.
type LoadFailedError struct {
	Reasons []string
}

func (e *LoadFailedError) Error() string {
	return fmt.Sprintf("vecturakit: load failed for %d document(s): %s", len(e.Reasons), strings.Join(e.Reasons, "; "))
}

// EmbeddingFailedError wraps an error returned by the embedder unchanged,
// alongside the text that triggered it.
type EmbeddingFailedError struct {
	Text string
	Err  error
}

func (e *EmbeddingFailedError) Error() string {
	return fmt.Sprintf("vecturakit: embedding failed for %q: %v", truncate(e.Text, 80), e.Err)
}

func (e *EmbeddingFailedError) Unwrap() error { return e.Err }

// StorageFailedError wraps an error returned by the storage provider,
// alongside the operation name that triggered it.
type StorageFailedError struct {
	Operation string
	Err       error
}

func (e *StorageFailedError) Error() string {
	return fmt.Sprintf("vecturakit: storage operation %q failed: %v", e.Operation, e.Err)
}

func (e *StorageFailedError) Unwrap() error { return e.Err }

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
