package vecturakit

import (
	"context"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchTopResultContainsQueryVocabulary(t *testing.T) {
	// S1-style: the highest-ranked result for a query should share
	// vocabulary with the query far more than an unrelated document does.
	ctx := context.Background()
	db := newTestDB(t, newMemStorage())

	_, err := db.AddDocuments(ctx, []string{
		"The customized search engine works with vector embeddings.",
		"Swift is a powerful language for iOS development.",
		"Vector databases are essential for semantic search application.",
		"Fruits like apples and oranges are healthy.",
	})
	require.NoError(t, err)

	results, err := db.Search(ctx, "vector search", WithNumResults(3))
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.True(t, strings.Contains(strings.ToLower(results[0].Text), "vector"))
}

func TestSearchThresholdCulls(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t, newMemStorage())

	_, err := db.AddDocuments(ctx, []string{
		"Apple pie recipe",
		"Delicious apple tart",
		"Banana bread instructions",
	})
	require.NoError(t, err)

	threshold := 0.99
	results, err := db.Search(ctx, "apple", WithThreshold(threshold))
	require.NoError(t, err)
	for _, r := range results {
		assert.GreaterOrEqual(t, r.Score, threshold)
	}
}

func TestSearchTopKTruncation(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t, newMemStorage())

	texts := make([]string, 5)
	for i := range texts {
		texts[i] = "Document about testing"
	}
	_, err := db.AddDocuments(ctx, texts)
	require.NoError(t, err)

	results, err := db.Search(ctx, "testing", WithNumResults(3))
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.True(t, sort.SliceIsSorted(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	}))
}

func TestSearchResultsAreNonIncreasing(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t, newMemStorage())

	_, err := db.AddDocuments(ctx, []string{
		"alpha beta gamma",
		"alpha beta",
		"alpha",
		"delta epsilon",
	})
	require.NoError(t, err)

	results, err := db.Search(ctx, "alpha beta gamma", WithNumResults(10))
	require.NoError(t, err)
	for i := 1; i < len(results); i++ {
		assert.LessOrEqual(t, results[i].Score, results[i-1].Score)
	}
}

func TestSearchVectorOnlyCollapsesToCosine(t *testing.T) {
	ctx := context.Background()
	// No embedder: the dimension is taken from the first added vector
	// instead of being frozen at the hash embedder's 16.
	db, err := Open(ctx, DefaultConfig("test"), nil, newMemStorage())
	require.NoError(t, err)

	id, err := db.AddDocumentWithVector(ctx, "doc one", []float32{1, 0, 0, 0})
	require.NoError(t, err)
	_, err = db.AddDocumentWithVector(ctx, "doc two", []float32{0, 1, 0, 0})
	require.NoError(t, err)

	results, err := db.SearchVector(ctx, []float32{1, 0, 0, 0}, WithNumResults(2))
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, id, results[0].ID)
	assert.InDelta(t, 1.0, results[0].Score, 1e-5)
}

func TestVectorSearchIgnoresHybridWeightAndText(t *testing.T) {
	// Per §4.6/§9: vector-only queries collapse to pure cosine regardless
	// of hybrid_weight, even when the stored text would rank very
	// differently under BM25.
	ctx := context.Background()

	cfg := DefaultConfig("test")
	cfg.Search.HybridWeight = 0.0 // would favor BM25 alone for a text query
	db, err := Open(ctx, cfg, nil, newMemStorage())
	require.NoError(t, err)

	idA, err := db.AddDocumentWithVector(ctx, "completely unrelated words here", []float32{1, 0})
	require.NoError(t, err)
	_, err = db.AddDocumentWithVector(ctx, "query query query query", []float32{0, 1})
	require.NoError(t, err)

	results, err := db.SearchVector(ctx, []float32{1, 0}, WithNumResults(1))
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, idA, results[0].ID)
	assert.InDelta(t, 1.0, results[0].Score, 1e-5)
}

func TestNormalizedCacheIsUnitLength(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t, newMemStorage())

	_, err := db.AddDocument(ctx, "any text at all")
	require.NoError(t, err)

	for _, norm := range db.normalized {
		var sumSq float64
		for _, v := range norm {
			sumSq += float64(v) * float64(v)
		}
		assert.InDelta(t, 1.0, sumSq, 1e-4)
	}
}
