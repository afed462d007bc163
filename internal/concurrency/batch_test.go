package concurrency

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
)

func TestForEachBatchProcessesAllItems(t *testing.T) {
	items := make([]int, 0, 257)
	for i := 0; i < 257; i++ {
		items = append(items, i)
	}

	var processed int64
	err := ForEachBatch(context.Background(), items, 10, 4, func(ctx context.Context, batch []int) error {
		atomic.AddInt64(&processed, int64(len(batch)))
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if int(processed) != len(items) {
		t.Fatalf("expected %d items processed, got %d", len(items), processed)
	}
}

func TestForEachBatchPropagatesFirstError(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6}
	boom := errors.New("boom")

	err := ForEachBatch(context.Background(), items, 2, 2, func(ctx context.Context, batch []int) error {
		for _, v := range batch {
			if v == 4 {
				return boom
			}
		}
		return nil
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom error, got %v", err)
	}
}

func TestForEachBatchEmptyInput(t *testing.T) {
	called := false
	err := ForEachBatch(context.Background(), []int{}, 10, 4, func(ctx context.Context, batch []int) error {
		called = true
		return nil
	})
	if err != nil || called {
		t.Fatal("expected no-op for empty input")
	}
}
