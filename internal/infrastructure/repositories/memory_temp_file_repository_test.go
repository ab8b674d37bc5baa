package repositories

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"tryon-combine/internal/domain/entities"
)

func TestMemoryTempFileRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryTempFileRepository()

	a := entities.NewTryOnRequestID()
	b := entities.NewTryOnRequestID()

	_ = repo.Track(ctx, a, "uploads/person_a.jpg")
	_ = repo.Track(ctx, a, "uploads/prod_a.jpg")
	_ = repo.Track(ctx, b, "uploads/person_b.jpg")

	pending, _ := repo.Pending(ctx)
	if len(pending) != 2 {
		t.Fatalf("Pending() = %d requests, want 2", len(pending))
	}

	paths, _ := repo.Release(ctx, a)
	if len(paths) != 2 {
		t.Errorf("Release() returned %d paths, want 2", len(paths))
	}

	paths, _ = repo.Release(ctx, a)
	if len(paths) != 0 {
		t.Errorf("second Release() should return nothing, got %v", paths)
	}

	pending, _ = repo.Pending(ctx)
	if len(pending) != 1 || len(pending[b]) != 1 {
		t.Errorf("unexpected pending set %v", pending)
	}
}

func TestMemoryTempFileRepository_Concurrent(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryTempFileRepository()

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := entities.NewTryOnRequestID()
			_ = repo.Track(ctx, id, fmt.Sprintf("uploads/person_%d", i))
			paths, _ := repo.Release(ctx, id)
			if len(paths) != 1 {
				t.Errorf("Release() returned %d paths, want 1", len(paths))
			}
		}(i)
	}
	wg.Wait()

	pending, _ := repo.Pending(ctx)
	if len(pending) != 0 {
		t.Errorf("expected empty ledger, got %d entries", len(pending))
	}
}
