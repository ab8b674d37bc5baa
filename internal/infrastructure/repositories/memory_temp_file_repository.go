package repositories

import (
	"context"
	"sync"

	"tryon-combine/internal/domain/entities"
	domainrepos "tryon-combine/internal/domain/repositories"
)

type MemoryTempFileRepository struct {
	files map[entities.TryOnRequestID][]string
	mu    sync.RWMutex
}

func NewMemoryTempFileRepository() domainrepos.TempFileRepository {
	return &MemoryTempFileRepository{
		files: make(map[entities.TryOnRequestID][]string),
	}
}

func (r *MemoryTempFileRepository) Track(ctx context.Context, id entities.TryOnRequestID, path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.files[id] = append(r.files[id], path)
	return nil
}

func (r *MemoryTempFileRepository) Release(ctx context.Context, id entities.TryOnRequestID) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	paths := r.files[id]
	delete(r.files, id)
	return paths, nil
}

func (r *MemoryTempFileRepository) Pending(ctx context.Context) (map[entities.TryOnRequestID][]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	pending := make(map[entities.TryOnRequestID][]string, len(r.files))
	for id, paths := range r.files {
		pending[id] = append([]string(nil), paths...)
	}
	return pending, nil
}
