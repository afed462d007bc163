package vecturakit

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// memStorage is an in-memory StorageBasic (and, via memIndexedStorage,
// StorageIndexed) used by this package's own tests in place of
// storage/filestore or storage/sqlitestore, so the tests don't depend on
// disk I/O or a SQLite driver.
type memStorage struct {
	mu   sync.Mutex
	docs map[uuid.UUID]*Document
}

func newMemStorage() *memStorage {
	return &memStorage{docs: make(map[uuid.UUID]*Document)}
}

func (s *memStorage) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]uuid.UUID, 0, len(s.docs))
	for id := range s.docs {
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *memStorage) Load(ctx context.Context, id uuid.UUID) (*Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[id]
	if !ok {
		return nil, &DocumentNotFoundError{ID: id}
	}
	cp := *doc
	cp.Embedding = append([]float32(nil), doc.Embedding...)
	return &cp, nil
}

func (s *memStorage) Store(ctx context.Context, doc *Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *doc
	cp.Embedding = append([]float32(nil), doc.Embedding...)
	s.docs[doc.ID] = &cp
	return nil
}

func (s *memStorage) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, id)
	return nil
}

func (s *memStorage) DeleteAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = make(map[uuid.UUID]*Document)
	return nil
}

// memIndexedStorage wraps memStorage with a CandidateIDs that ignores the
// query and returns up to k stored ids in map order, standing in for a real StorageIndexed provider (storage/sqlitestore) in
// tests that exercise the indexed memory strategy.
type memIndexedStorage struct {
	*memStorage
}

func newMemIndexedStorage() *memIndexedStorage {
	return &memIndexedStorage{memStorage: newMemStorage()}
}

func (s *memIndexedStorage) CandidateIDs(ctx context.Context, query []float32, k int) ([]uuid.UUID, error) {
	ids, err := s.ListIDs(ctx)
	if err != nil {
		return nil, err
	}
	if k > 0 && k < len(ids) {
		ids = ids[:k]
	}
	return ids, nil
}
