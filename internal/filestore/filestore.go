package filestore

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a reference does not resolve to a stored file.
var ErrNotFound = errors.New("file not found")

// Store keeps uploaded files on disk under a single directory. Save returns
// an opaque reference that stays valid for the lifetime of the store
// directory; references are what the rest of the system persists.
type Store struct {
	dir string
}

// New creates the directory if needed and returns a Store over it.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create file store dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Save writes the content to disk and returns its reference. The original
// filename only contributes its extension; the reference itself is random.
func (s *Store) Save(filename string, content io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	ref := uuid.NewString() + ext

	f, err := os.OpenFile(filepath.Join(s.dir, ref), os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o640)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, content); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("write file: %w", err)
	}
	return ref, nil
}

// Open returns the stored content for a reference.
func (s *Store) Open(ref string) (io.ReadCloser, error) {
	// References are generated names; reject anything path-like.
	if ref == "" || ref != filepath.Base(ref) || strings.HasPrefix(ref, ".") {
		return nil, ErrNotFound
	}
	f, err := os.Open(filepath.Join(s.dir, ref))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return f, nil
}
