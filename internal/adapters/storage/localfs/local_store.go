package localfs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/najmfleet/employee_requests_app/internal/apperrors"
	"github.com/najmfleet/employee_requests_app/internal/core/ports/storage"
	"github.com/najmfleet/employee_requests_app/internal/utils"
)

// Store writes uploads under <root>/uploads/<category>/. The local copy is
// the canonical one; remote mirrors never replace it.
type Store struct {
	root  string
	fsync bool
}

// NewStore creates a local attachment store rooted at root. When fsync is
// set every write is flushed to stable storage before the path is returned.
func NewStore(root string, fsync bool) *Store {
	return &Store{root: root, fsync: fsync}
}

var _ storage.LocalStore = (*Store)(nil)

// SaveLocal streams the upload to disk and returns the path relative to the
// upload root. The filename is sanitized and timestamped; a random suffix is
// appended when the name collides.
func (s *Store) SaveLocal(category storage.Category, originalName string, r io.Reader) (string, int64, error) {
	if !storage.IsAllowedExtension(originalName) {
		return "", 0, fmt.Errorf("%w: %s", apperrors.ErrUnsupportedMedia, originalName)
	}

	dir := filepath.Join(s.root, "uploads", string(category))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", 0, fmt.Errorf("failed to create upload directory: %w", err)
	}

	safe := utils.SanitizeFilename(originalName)
	stamp := time.Now().UTC().Format("20060102_150405")
	name := stamp + "_" + safe
	path := filepath.Join(dir, name)
	if _, err := os.Stat(path); err == nil {
		ext := filepath.Ext(safe)
		base := safe[:len(safe)-len(ext)]
		name = fmt.Sprintf("%s_%s_%s%s", stamp, base, uuid.NewString()[:8], ext)
		path = filepath.Join(dir, name)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create upload file: %w", err)
	}

	written, err := io.Copy(f, r)
	if err != nil {
		f.Close()
		os.Remove(path)
		return "", 0, fmt.Errorf("failed to write upload: %w", err)
	}
	if s.fsync {
		if err := f.Sync(); err != nil {
			f.Close()
			os.Remove(path)
			return "", 0, fmt.Errorf("failed to sync upload: %w", err)
		}
	}
	if err := f.Close(); err != nil {
		return "", 0, fmt.Errorf("failed to close upload: %w", err)
	}

	rel := filepath.ToSlash(filepath.Join("uploads", string(category), name))
	return rel, written, nil
}

// AbsPath resolves a stored relative path against the upload root.
func (s *Store) AbsPath(relPath string) string {
	return filepath.Join(s.root, filepath.FromSlash(relPath))
}
