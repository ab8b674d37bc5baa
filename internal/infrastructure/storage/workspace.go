package storage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"tryon-combine/internal/domain/entities"
)

// Workspace is the shared upload directory. Every file name embeds the
// request ID, so concurrent requests never collide.
type Workspace struct {
	dir string
}

func NewWorkspace(dir string) (*Workspace, error) {
	if dir == "" {
		return nil, fmt.Errorf("upload directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", dir, err)
	}
	return &Workspace{dir: dir}, nil
}

func (w *Workspace) Dir() string {
	return w.dir
}

// Path returns <dir>/<role>_<id><ext>.
func (w *Workspace) Path(id entities.TryOnRequestID, role string, ext string) string {
	return filepath.Join(w.dir, fmt.Sprintf("%s_%s%s", role, id, ext))
}

// Save writes r to path, removing the partial file when the copy fails.
func (w *Workspace) Save(path string, r io.Reader) (int64, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", path, err)
	}

	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return 0, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return n, nil
}

// Remove deletes path. A file that is already gone is not an error.
func (w *Workspace) Remove(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
