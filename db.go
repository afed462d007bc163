package vecturakit

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/liliang-cn/vecturakit/internal/bm25"
	"github.com/liliang-cn/vecturakit/internal/corelog"
)

// DB is a single-owner hybrid document store: every public method takes
// the same mutex for its duration, so callers never observe a half-applied
// add, delete, or strategy switch. Embedding calls, persistence and
// candidate hydration happen inside that critical section; persistence and
// hydration fan out in bounded concurrent batches, the same serialized-facade-with-
// concurrent-interior shape the teacher module uses around its SQLite
// connection pool and HNSW index.
type DB struct {
	mu sync.Mutex

	cfg      Config
	embedder Embedder
	storage  StorageBasic
	indexed  StorageIndexed // non-nil iff storage implements StorageIndexed
	logger   corelog.Logger

	closed bool

	dim       int
	dimFrozen bool

	// documents and normalized are keyed by every id currently hydrated in
	// memory. In full_memory mode this is every live id; in indexed mode it
	// is whichever ids have been freshly added or pulled in by a prior
	// search's candidate hydration. The two maps always agree on their key
	// set; see strategy.go for how indexed mode keeps that true without
	// requiring every document's text/embedding to be resident.
	documents  map[uuid.UUID]*Document
	normalized map[uuid.UUID][]float32

	// meta is resident for every live id regardless of strategy: cheap
	// enough to keep for ListDocuments/Stats/ordering without hydration.
	meta map[uuid.UUID]docMeta

	bm25    *bm25.Index
	nextSeq int64
}

// Open constructs a DB backed by storage and embedder, loading existing
// documents according to cfg.Strategy. If cfg.Dimension is zero, it is
// auto-detected from the embedder (if non-nil) or from the first loaded or
// added document, then frozen. Logging is discarded; use OpenWithLogger to
// observe the open event and candidate-hydration failures.
func Open(ctx context.Context, cfg Config, embedder Embedder, storage StorageBasic) (*DB, error) {
	return OpenWithLogger(ctx, cfg, embedder, storage, corelog.Nop())
}

// OpenWithLogger is Open with an explicit logger.
func OpenWithLogger(ctx context.Context, cfg Config, embedder Embedder, storage StorageBasic, logger Logger) (*DB, error) {
	if cfg.Name == "" {
		return nil, &InvalidInputError{Reason: "config name must not be empty"}
	}
	if cfg.Dimension < 0 {
		return nil, &InvalidInputError{Reason: "config dimension must be >= 0"}
	}
	if err := cfg.Strategy.validate(); err != nil {
		return nil, err
	}
	if err := cfg.Search.validate(); err != nil {
		return nil, err
	}
	if storage == nil {
		return nil, &InvalidInputError{Reason: "storage must not be nil"}
	}
	if logger == nil {
		logger = corelog.Nop()
	}

	db := &DB{
		cfg:        cfg,
		embedder:   embedder,
		storage:    storage,
		logger:     logger,
		dim:        cfg.Dimension,
		dimFrozen:  cfg.Dimension > 0,
		documents:  make(map[uuid.UUID]*Document),
		normalized: make(map[uuid.UUID][]float32),
		meta:       make(map[uuid.UUID]docMeta),
		bm25:       bm25.New(cfg.Search.K1, cfg.Search.B),
	}
	if si, ok := storage.(StorageIndexed); ok {
		db.indexed = si
	}

	if cfg.Dimension == 0 && embedder != nil {
		d, err := embedder.Dimension(ctx)
		if err != nil {
			return nil, &EmbeddingFailedError{Text: "", Err: err}
		}
		if err := db.adoptDimension(d); err != nil {
			return nil, err
		}
	}

	if err := db.load(ctx); err != nil {
		return nil, err
	}

	db.logger.Info("opened", "name", cfg.Name, "documents", len(db.meta), "mode", db.effectiveMode())
	return db, nil
}

// Close marks the DB closed. Subsequent calls return ErrStoreClosed. Close
// does not close the storage provider; callers that need that own its
// lifecycle separately, the same split of responsibility the teacher
// module draws between its Store interface and the *sql.DB it wraps.
func (db *DB) Close() error {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.closed = true
	return nil
}

func (db *DB) checkOpen() error {
	if db.closed {
		return ErrStoreClosed
	}
	return nil
}

// DocumentCount returns the number of live documents.
func (db *DB) DocumentCount(ctx context.Context) (int, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if err := db.checkOpen(); err != nil {
		return 0, err
	}
	return len(db.meta), nil
}

// Stats is a snapshot of a DB's size and effective memory strategy.
type Stats struct {
	DocumentCount  int
	Mode           string
	AvgDocLength   float64
	HydratedCount  int
}

// Stats reports the current document count, effective mode, and BM25
// corpus statistics.
func (db *DB) Stats(ctx context.Context) (Stats, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if err := db.checkOpen(); err != nil {
		return Stats{}, err
	}
	return Stats{
		DocumentCount: len(db.meta),
		Mode:          db.effectiveMode().String(),
		AvgDocLength:  db.bm25.AvgDocLength(),
		HydratedCount: len(db.documents),
	}, nil
}

// ListDocuments returns a summary of every live document, ordered by
// insertion sequence.
func (db *DB) ListDocuments(ctx context.Context) ([]DocumentSummary, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if err := db.checkOpen(); err != nil {
		return nil, err
	}

	out := make([]DocumentSummary, 0, len(db.meta))
	for id, m := range db.meta {
		out = append(out, DocumentSummary{ID: id, CreatedAt: m.CreatedAt, TextBytes: m.TextBytes})
	}
	sortDocumentSummaries(out, db.meta)
	return out, nil
}

func sortDocumentSummaries(out []DocumentSummary, meta map[uuid.UUID]docMeta) {
	less := func(i, j int) bool {
		si, sj := meta[out[i].ID].Seq, meta[out[j].ID].Seq
		if si != sj {
			return si < sj
		}
		return out[i].ID.String() < out[j].ID.String()
	}
	insertionSort(out, less)
}

// insertionSort orders the typically-short ListDocuments summary slice.
// Search's own sort (search.go) uses sort.Slice for candidate lists, which
// can be much larger.
func insertionSort(out []DocumentSummary, less func(i, j int) bool) {
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && less(j, j-1); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
}

// Reset deletes every document from storage and memory.
func (db *DB) Reset(ctx context.Context) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if err := db.checkOpen(); err != nil {
		return err
	}

	if err := db.storage.DeleteAll(ctx); err != nil {
		return &StorageFailedError{Operation: "delete_all", Err: err}
	}

	db.documents = make(map[uuid.UUID]*Document)
	db.normalized = make(map[uuid.UUID][]float32)
	db.meta = make(map[uuid.UUID]docMeta)
	db.bm25 = bm25.New(db.cfg.Search.K1, db.cfg.Search.B)
	db.nextSeq = 0
	return nil
}

func (db *DB) now() time.Time { return time.Now().UTC() }
