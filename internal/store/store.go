// Package store persists processed artifacts under the configured upload
// directory and derives their public names from the original upload name.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrBadName rejects basenames that are empty or attempt path traversal.
var ErrBadName = errors.New("invalid file name")

// Store writes artifacts into a single flat directory. Writes with the same
// derived name overwrite each other; last write wins.
type Store struct {
	dir string
}

func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// SafeBaseName reduces a client-declared filename to a bare basename without
// extension, rejecting anything that could escape the upload directory.
func SafeBaseName(name string) (string, error) {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." || base == ".." || strings.Contains(base, "..") {
		return "", ErrBadName
	}
	return base, nil
}

// Save persists data as processed_<basename>.jpg inside the upload directory
// and returns the final name and byte length. An existing artifact with the
// same name is overwritten.
func (s *Store) Save(originalName string, data []byte) (string, int64, error) {
	base, err := SafeBaseName(originalName)
	if err != nil {
		return "", 0, err
	}

	name := fmt.Sprintf("processed_%s.jpg", base)
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", 0, fmt.Errorf("writing artifact: %w", err)
	}
	return name, int64(len(data)), nil
}

// Path resolves a previously returned artifact name to its on-disk location.
// The name must be a bare filename; anything else is rejected.
func (s *Store) Path(name string) (string, error) {
	if name == "" || name == "." || name == ".." || filepath.Base(name) != name {
		return "", ErrBadName
	}
	return filepath.Join(s.dir, name), nil
}
