package bm25

import (
	"testing"

	"github.com/google/uuid"
)

func TestAddScoreRemove(t *testing.T) {
	idx := New(1.2, 0.75)

	a := uuid.New()
	b := uuid.New()
	idx.Add(a, []string{"vector", "search", "engine"})
	idx.Add(b, []string{"fruit", "apple", "orange"})

	if idx.DocCount() != 2 {
		t.Fatalf("expected 2 docs, got %d", idx.DocCount())
	}

	scoreA := idx.Score([]string{"vector", "search"}, a)
	scoreB := idx.Score([]string{"vector", "search"}, b)
	if scoreA <= 0 {
		t.Fatalf("expected positive score for matching doc, got %f", scoreA)
	}
	if scoreB != 0 {
		t.Fatalf("expected zero score for non-matching doc, got %f", scoreB)
	}

	idx.Remove(a)
	if idx.DocCount() != 1 {
		t.Fatalf("expected 1 doc after remove, got %d", idx.DocCount())
	}
	if idx.Score([]string{"vector"}, a) != 0 {
		t.Fatal("expected zero score for removed doc")
	}
}

func TestScoreMonotonicity(t *testing.T) {
	idx := New(1.2, 0.75)
	a := uuid.New()
	b := uuid.New()
	idx.Add(a, []string{"go", "go", "go", "programming"})
	idx.Add(b, []string{"go", "programming", "language", "tutorial"})

	scoreA := idx.Score([]string{"go"}, a)
	scoreB := idx.Score([]string{"go"}, b)
	if scoreA <= scoreB {
		t.Fatalf("expected doc with higher term frequency to score higher: %f vs %f", scoreA, scoreB)
	}
}

func TestRepeatedQueryTermDoesNotDecreaseScore(t *testing.T) {
	idx := New(1.2, 0.75)
	a := uuid.New()
	idx.Add(a, []string{"go", "rocks"})

	once := idx.Score([]string{"go"}, a)
	repeated := idx.Score([]string{"go", "go", "go"}, a)
	if repeated < once {
		t.Fatalf("repeating a query term should never decrease score: once=%f repeated=%f", once, repeated)
	}
}

func TestEmptyIndexScoresZero(t *testing.T) {
	idx := New(1.2, 0.75)
	if idx.Score([]string{"anything"}, uuid.New()) != 0 {
		t.Fatal("empty index should score zero")
	}
}
