package repositories

import (
	"context"
	"io"

	"tryon-combine/internal/domain/entities"
)

// TempFileRepository is the ledger of temporary files created per request.
type TempFileRepository interface {
	Track(ctx context.Context, id entities.TryOnRequestID, path string) error
	// Release forgets the request and returns every path tracked for it.
	Release(ctx context.Context, id entities.TryOnRequestID) ([]string, error)
	Pending(ctx context.Context) (map[entities.TryOnRequestID][]string, error)
}

// Workspace is the shared upload directory.
type Workspace interface {
	Path(id entities.TryOnRequestID, role string, ext string) string
	Save(path string, r io.Reader) (int64, error)
	Remove(path string) error
}
