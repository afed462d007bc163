// Package sqlitestore is the reference vecturakit storage provider: one
// row per document in a SQLite database, with an in-process HNSW index
// providing the optional StorageIndexed candidate-generation trait. Grounded
// on the teacher module's SQLiteStore, adapted from a metadata/doc_id
// embedding schema to vecturakit's simpler id/text/embedding/created_at
// document schema, and from string-keyed to uuid.UUID-keyed HNSW bookkeeping.
package sqlitestore

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"sync"
	"time"

	"github.com/fogfish/hnsw"
	"github.com/fogfish/hnsw/vector"
	surface "github.com/kshard/vector"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/liliang-cn/vecturakit"
)

// HNSWConfig tunes the in-process approximate index used by CandidateIDs.
type HNSWConfig struct {
	M              int
	EfConstruction int
	EfSearch       int
}

// DefaultHNSWConfig mirrors the teacher module's defaults.
func DefaultHNSWConfig() HNSWConfig {
	return HNSWConfig{M: 16, EfConstruction: 200, EfSearch: 64}
}

// Store implements vecturakit.StorageBasic and vecturakit.StorageIndexed
// over a SQLite database file.
type Store struct {
	mu     sync.RWMutex
	db     *sql.DB
	closed bool

	hnswCfg HNSWConfig
	index   *hnsw.HNSW[vector.VF32]
	idToKey map[uuid.UUID]uint32
	keyToID map[uint32]uuid.UUID
	nextKey uint32
}

// Open opens (creating if needed) a SQLite database at path and prepares
// the documents table and HNSW index.
func Open(ctx context.Context, path string) (*Store, error) {
	return OpenWithHNSW(ctx, path, DefaultHNSWConfig())
}

// OpenWithHNSW is Open with an explicit HNSW tuning configuration.
func OpenWithHNSW(ctx context.Context, path string, hnswCfg HNSWConfig) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlitestore: path must not be empty")
	}

	db, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_synchronous=NORMAL&_cache_size=10000")
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	s := &Store{
		db:      db,
		hnswCfg: hnswCfg,
		idToKey: make(map[uuid.UUID]uint32),
		keyToID: make(map[uint32]uuid.UUID),
		nextKey: 1,
	}

	if err := s.createTable(ctx); err != nil {
		db.Close()
		return nil, err
	}
	if err := s.initHNSW(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) createTable(ctx context.Context) error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS documents (
		id TEXT PRIMARY KEY,
		text TEXT NOT NULL,
		embedding BLOB NOT NULL,
		created_at DATETIME NOT NULL
	);
	`
	_, err := s.db.ExecContext(ctx, ddl)
	if err != nil {
		return fmt.Errorf("sqlitestore: create table: %w", err)
	}
	return nil
}

func (s *Store) initHNSW(ctx context.Context) error {
	s.index = hnsw.New(
		vector.SurfaceVF32(surface.Cosine()),
		hnsw.WithM(s.hnswCfg.M),
		hnsw.WithEfConstruction(s.hnswCfg.EfConstruction),
	)

	rows, err := s.db.QueryContext(ctx, "SELECT id, embedding FROM documents")
	if err != nil {
		return fmt.Errorf("sqlitestore: load hnsw: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var idStr string
		var raw []byte
		if err := rows.Scan(&idStr, &raw); err != nil {
			continue
		}
		id, err := uuid.Parse(idStr)
		if err != nil {
			continue
		}
		vec, err := decodeVector(raw)
		if err != nil {
			continue
		}
		key := s.getOrCreateKey(id)
		s.index.Insert(vector.VF32{Key: key, Vec: vec})
	}
	return rows.Err()
}

func (s *Store) getOrCreateKey(id uuid.UUID) uint32 {
	if key, ok := s.idToKey[id]; ok {
		return key
	}
	key := s.nextKey
	s.nextKey++
	s.idToKey[id] = key
	s.keyToID[key] = id
	return key
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

// ListIDs implements vecturakit.StorageBasic.
func (s *Store) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT id FROM documents")
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: list_ids: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var idStr string
		if err := rows.Scan(&idStr); err != nil {
			return nil, fmt.Errorf("sqlitestore: list_ids: %w", err)
		}
		id, err := uuid.Parse(idStr)
		if err != nil {
			return nil, fmt.Errorf("sqlitestore: list_ids: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Load implements vecturakit.StorageBasic.
func (s *Store) Load(ctx context.Context, id uuid.UUID) (*vecturakit.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, "SELECT text, embedding, created_at FROM documents WHERE id = ?", id.String())

	var text string
	var raw []byte
	var createdAt time.Time
	if err := row.Scan(&text, &raw, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, &vecturakit.DocumentNotFoundError{ID: id}
		}
		return nil, fmt.Errorf("sqlitestore: load: %w", err)
	}

	vec, err := decodeVector(raw)
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: load: decode %s: %w", id, err)
	}

	return &vecturakit.Document{ID: id, Text: text, Embedding: vec, CreatedAt: createdAt}, nil
}

// Store implements vecturakit.StorageBasic.
func (s *Store) Store(ctx context.Context, doc *vecturakit.Document) error {
	raw, err := encodeVector(doc.Embedding)
	if err != nil {
		return fmt.Errorf("sqlitestore: store: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO documents (id, text, embedding, created_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET text=excluded.text, embedding=excluded.embedding, created_at=excluded.created_at`,
		doc.ID.String(), doc.Text, raw, doc.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlitestore: store: %w", err)
	}

	key := s.getOrCreateKey(doc.ID)
	s.index.Insert(vector.VF32{Key: key, Vec: doc.Embedding})
	return nil
}

// Delete implements vecturakit.StorageBasic. Deleting a nonexistent id is
// not an error.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id.String())
	if err != nil {
		return fmt.Errorf("sqlitestore: delete: %w", err)
	}

	// The HNSW index backing this Store does not support removal; the
	// deleted id's node stays in the graph, but with its key dropped from
	// keyToID, CandidateIDs skips any hit on it.
	if key, ok := s.idToKey[id]; ok {
		delete(s.keyToID, key)
		delete(s.idToKey, id)
	}
	return nil
}

// DeleteAll implements vecturakit.StorageBasic.
func (s *Store) DeleteAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM documents")
	if err != nil {
		return fmt.Errorf("sqlitestore: delete_all: %w", err)
	}

	s.index = hnsw.New(
		vector.SurfaceVF32(surface.Cosine()),
		hnsw.WithM(s.hnswCfg.M),
		hnsw.WithEfConstruction(s.hnswCfg.EfConstruction),
	)
	s.idToKey = make(map[uuid.UUID]uint32)
	s.keyToID = make(map[uint32]uuid.UUID)
	s.nextKey = 1
	return nil
}

// CandidateIDs implements vecturakit.StorageIndexed using the in-process
// HNSW index, searching for 2k neighbors to absorb any stale-key misses. k
// already includes the facade's candidate_multiplier oversampling.
func (s *Store) CandidateIDs(ctx context.Context, query []float32, k int) ([]uuid.UUID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if k <= 0 {
		return nil, nil
	}

	neighbors := s.index.Search(vector.VF32{Key: 0, Vec: query}, k*2, s.hnswCfg.EfSearch)

	ids := make([]uuid.UUID, 0, len(neighbors))
	for _, n := range neighbors {
		if id, ok := s.keyToID[n.Key]; ok {
			ids = append(ids, id)
			if len(ids) >= k {
				break
			}
		}
	}
	return ids, nil
}

func encodeVector(vec []float32) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := binary.Write(buf, binary.LittleEndian, int32(len(vec))); err != nil {
		return nil, err
	}
	for _, v := range vec {
		if err := binary.Write(buf, binary.LittleEndian, v); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func decodeVector(data []byte) ([]float32, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("sqlitestore: truncated vector encoding")
	}
	buf := bytes.NewReader(data)

	var length int32
	if err := binary.Read(buf, binary.LittleEndian, &length); err != nil {
		return nil, err
	}
	if length < 0 {
		return nil, fmt.Errorf("sqlitestore: negative vector length")
	}

	vec := make([]float32, length)
	for i := range vec {
		if err := binary.Read(buf, binary.LittleEndian, &vec[i]); err != nil {
			return nil, fmt.Errorf("sqlitestore: decode vector element %d: %w", i, err)
		}
	}
	return vec, nil
}
