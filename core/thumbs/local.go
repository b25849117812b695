package thumbs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// LocalStore keeps thumbnails as <dir>/<id>.jpg.
type LocalStore struct {
	dir         string
	placeholder []byte
}

// NewLocalStore creates dir if needed and returns a store rooted there.
func NewLocalStore(dir string, placeholder []byte) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create thumbnail dir %s: %w", dir, err)
	}
	return &LocalStore{dir: dir, placeholder: placeholder}, nil
}

// Path returns the file a thumbnail id is stored at.
func (s *LocalStore) Path(id uint) string {
	return filepath.Join(s.dir, FileName(id))
}

// Save writes to a temp file and renames it into place so readers never see
// a partial image.
func (s *LocalStore) Save(ctx context.Context, id uint, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, ".thumb-*")
	if err != nil {
		return fmt.Errorf("failed to create thumbnail: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write thumbnail %d: %w", id, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write thumbnail %d: %w", id, err)
	}
	if err := os.Rename(tmp.Name(), s.Path(id)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to store thumbnail %d: %w", id, err)
	}
	return nil
}

// SavePlaceholder writes the placeholder image as the thumbnail of id.
func (s *LocalStore) SavePlaceholder(ctx context.Context, id uint) error {
	return s.Save(ctx, id, s.placeholder)
}

// Remove deletes the thumbnail file of id. A missing file is ignored.
func (s *LocalStore) Remove(ctx context.Context, id uint) error {
	err := os.Remove(s.Path(id))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove thumbnail %d: %w", id, err)
	}
	return nil
}

// Open opens the thumbnail file of id, or returns ErrNotFound.
func (s *LocalStore) Open(ctx context.Context, id uint) (io.ReadCloser, error) {
	f, err := os.Open(s.Path(id))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	return f, err
}
