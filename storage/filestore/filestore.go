// Package filestore is the plain reference storage provider: one JSON file
// per document under <directory>/<name>/<id>.json. It implements only
// vecturakit.StorageBasic (no candidate-generation trait), so pairing it
// with the indexed or automatic memory strategy silently degrades to
// full_memory. Float32 values round-trip bit-exact through
// encoding/json, so no custom binary vector codec is needed here the way
// sqlitestore needs one for its BLOB column.
package filestore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/liliang-cn/vecturakit"
)

// Store persists each document as its own JSON file under directory/name.
type Store struct {
	mu   sync.Mutex
	root string
}

type record struct {
	ID        uuid.UUID `json:"id"`
	Text      string    `json:"text"`
	Embedding []float32 `json:"embedding"`
	CreatedAt time.Time `json:"created_at"`
}

// Open creates (if necessary, with owner-only permissions) directory/name
// and returns a Store rooted there.
func Open(directory, name string) (*Store, error) {
	if name == "" {
		return nil, fmt.Errorf("filestore: name must not be empty")
	}
	root := filepath.Join(directory, name)
	if err := os.MkdirAll(root, 0o700); err != nil {
		return nil, fmt.Errorf("filestore: create directory: %w", err)
	}
	return &Store{root: root}, nil
}

func (s *Store) path(id uuid.UUID) string {
	return filepath.Join(s.root, id.String()+".json")
}

// ListIDs implements vecturakit.StorageBasic.
func (s *Store) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("filestore: list_ids: %w", err)
	}

	var ids []uuid.UUID
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".json") {
			continue
		}
		id, err := uuid.Parse(strings.TrimSuffix(name, ".json"))
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Load implements vecturakit.StorageBasic.
func (s *Store) Load(ctx context.Context, id uuid.UUID) (*vecturakit.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &vecturakit.DocumentNotFoundError{ID: id}
		}
		return nil, fmt.Errorf("filestore: load: %w", err)
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("filestore: load: decode %s: %w", id, err)
	}

	return &vecturakit.Document{
		ID:        rec.ID,
		Text:      rec.Text,
		Embedding: rec.Embedding,
		CreatedAt: rec.CreatedAt,
	}, nil
}

// Store implements vecturakit.StorageBasic. Writes go to a temporary file
// in the same directory and are renamed into place, so a crash mid-write
// never leaves a torn document file behind.
func (s *Store) Store(ctx context.Context, doc *vecturakit.Document) error {
	rec := record{ID: doc.ID, Text: doc.Text, Embedding: doc.Embedding, CreatedAt: doc.CreatedAt}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("filestore: store: encode %s: %w", doc.ID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.root, doc.ID.String()+".*.tmp")
	if err != nil {
		return fmt.Errorf("filestore: store: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("filestore: store: write %s: %w", doc.ID, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("filestore: store: close %s: %w", doc.ID, err)
	}
	if err := os.Rename(tmpPath, s.path(doc.ID)); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("filestore: store: rename %s: %w", doc.ID, err)
	}
	return nil
}

// Delete implements vecturakit.StorageBasic. Deleting a nonexistent id is
// not an error.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("filestore: delete: %w", err)
	}
	return nil
}

// DeleteAll implements vecturakit.StorageBasic, removing every document
// file but leaving the database directory itself in place.
func (s *Store) DeleteAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.root)
	if err != nil {
		return fmt.Errorf("filestore: delete_all: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if err := os.Remove(filepath.Join(s.root, entry.Name())); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("filestore: delete_all: %w", err)
		}
	}
	return nil
}
