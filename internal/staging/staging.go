// Package staging manages the transient on-disk copy of an upload used for
// validation and transcoding. Every acquired file must be released; callers
// defer Release immediately after a successful Acquire so cleanup runs on
// every exit path.
package staging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Dir stages uploads inside a configured directory.
type Dir struct {
	path   string
	logger zerolog.Logger
}

// Staged is a handle to one staged file. It is owned by the request that
// acquired it and is not safe for concurrent use.
type Staged struct {
	path     string
	logger   zerolog.Logger
	released bool
}

func New(path string, logger zerolog.Logger) (*Dir, error) {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("creating staging directory: %w", err)
	}
	return &Dir{path: path, logger: logger}, nil
}

// Acquire writes data to a uniquely named file inside the staging directory
// and returns a handle to it. The name carries a fresh UUID so concurrent
// requests staging files with the same original name never collide.
func (d *Dir) Acquire(originalName string, data []byte) (*Staged, error) {
	ext := strings.ToLower(filepath.Ext(filepath.Base(originalName)))
	name := fmt.Sprintf("tmp_%s%s", uuid.NewString(), ext)
	path := filepath.Join(d.path, name)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("writing staged file: %w", err)
	}

	d.logger.Debug().Str("path", path).Int("bytes", len(data)).Msg("staged upload")

	return &Staged{path: path, logger: d.logger}, nil
}

// Path returns the location of the staged file on disk.
func (s *Staged) Path() string {
	return s.path
}

// Release removes the staged file. Safe to call more than once; removal
// failures are logged, not returned, since the response has already been
// decided by the time cleanup runs.
func (s *Staged) Release() {
	if s.released {
		return
	}
	s.released = true

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		s.logger.Warn().Err(err).Str("path", s.path).Msg("could not remove staged file")
		return
	}
	s.logger.Debug().Str("path", s.path).Msg("removed staged file")
}
