// Package vecturakit provides a lightweight, embeddable hybrid (vector +
// lexical) document retrieval engine for Go AI projects.
//
// vecturakit stores documents as text plus a dense embedding, and ranks
// search results with a weighted blend of cosine similarity over
// L2-normalized embeddings and Okapi BM25 over tokenized text. It owns no
// embedding model and no storage format of its own: callers supply an
// Embedder (text -> vector) and a StorageBasic (and, optionally,
// StorageIndexed) implementation; this module ships a SQLite-backed
// reference provider under storage/sqlitestore and a plain
// one-JSON-file-per-document provider under storage/filestore.
//
// # Quick start
//
//	cfg := vecturakit.DefaultConfig("notes")
//	db, err := vecturakit.Open(ctx, cfg, embedder, storage)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	id, err := db.AddDocument(ctx, "Vector databases are essential for semantic search.")
//	results, err := db.Search(ctx, "semantic search", vecturakit.WithNumResults(5))
//
// # Memory strategy
//
// A DB can hold every document's embedding in memory (full_memory), defer
// to batched on-demand hydration from storage once the corpus passes a
// threshold (automatic), or always use the indexed path (indexed). See
// Config and MemoryStrategyConfig.
//
// # Concurrency
//
// A DB is a single-owner serialized actor: every public method takes the
// same mutex for its duration. Background fan-out (persistence, candidate
// hydration) is bounded by the active memory strategy's
// BatchSize/MaxConcurrentBatches; embedding is a single Embed or EmbedBatch
// call per operation.
package vecturakit
