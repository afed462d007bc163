// Package bm25 implements an Okapi BM25 inverted index over document ids,
// grounded on the postings-by-term and Lucene-style IDF smoothing used by
// the teacher module's BM25Encoder.
//
// An Index is not safe for concurrent use; callers are expected to
// serialize access the same way the facade serializes all mutation and
// search operations.
package bm25

import (
	"math"

	"github.com/google/uuid"
)

// Index maintains postings, per-document lengths and the running average
// document length needed for Okapi BM25 scoring.
type Index struct {
	k1 float64
	b  float64

	// postings maps term -> doc id -> term frequency in that document.
	postings map[string]map[uuid.UUID]int

	// docLengths maps doc id -> token count.
	docLengths map[uuid.UUID]int

	totalLength int
	n           int
}

// New creates an empty index with the given BM25 tuning parameters.
func New(k1, b float64) *Index {
	return &Index{
		k1:         k1,
		b:          b,
		postings:   make(map[string]map[uuid.UUID]int),
		docLengths: make(map[uuid.UUID]int),
	}
}

// Add indexes tokens under doc id, incrementing term frequencies and
// updating the average document length. Calling Add twice for the same id
// without an intervening Remove corrupts the posting counts; callers must
// Remove before re-adding.
func (idx *Index) Add(id uuid.UUID, tokens []string) {
	for _, term := range tokens {
		byDoc, ok := idx.postings[term]
		if !ok {
			byDoc = make(map[uuid.UUID]int)
			idx.postings[term] = byDoc
		}
		byDoc[id]++
	}

	idx.docLengths[id] = len(tokens)
	idx.totalLength += len(tokens)
	idx.n++
}

// Remove deletes all postings and the length entry for id, purging any term
// whose posting list becomes empty.
func (idx *Index) Remove(id uuid.UUID) {
	length, ok := idx.docLengths[id]
	if !ok {
		return
	}

	for term, byDoc := range idx.postings {
		if _, present := byDoc[id]; present {
			delete(byDoc, id)
			if len(byDoc) == 0 {
				delete(idx.postings, term)
			}
		}
	}

	delete(idx.docLengths, id)
	idx.totalLength -= length
	idx.n--
	if idx.n <= 0 {
		idx.n = 0
		idx.totalLength = 0
	}
}

// DocCount returns the number of live documents in the index.
func (idx *Index) DocCount() int {
	return idx.n
}

// AvgDocLength returns the running average document length, or 0 when the
// index is empty.
func (idx *Index) AvgDocLength() float64 {
	if idx.n == 0 {
		return 0
	}
	return float64(idx.totalLength) / float64(idx.n)
}

// idf computes the Lucene-style smooth inverse document frequency of term:
// ln(1 + (N - n(t) + 0.5) / (n(t) + 0.5)).
func (idx *Index) idf(term string) float64 {
	n := float64(idx.n)
	df := float64(len(idx.postings[term]))
	return math.Log(1 + (n-df+0.5)/(df+0.5))
}

// Score computes the BM25 score of id against queryTokens. Duplicate tokens
// in queryTokens do not double-count a term's IDF contribution (each unique
// query term contributes at most once), matching the monotonicity property
// required of BM25: repeating a term that appears in the document never
// decreases its score relative to other documents.
func (idx *Index) Score(queryTokens []string, id uuid.UUID) float64 {
	if idx.n == 0 {
		return 0
	}

	avgLen := idx.AvgDocLength()
	if avgLen == 0 {
		avgLen = 1
	}
	length := float64(idx.docLengths[id])

	seen := make(map[string]bool, len(queryTokens))
	var score float64
	for _, term := range queryTokens {
		if seen[term] {
			continue
		}
		seen[term] = true

		byDoc, ok := idx.postings[term]
		if !ok {
			continue
		}
		f := float64(byDoc[id])
		if f == 0 {
			continue
		}

		numerator := f * (idx.k1 + 1)
		denominator := f + idx.k1*(1-idx.b+idx.b*length/avgLen)
		score += idx.idf(term) * (numerator / denominator)
	}

	return score
}
