// Package cursor persists the per-source watermark: the highest row id known
// to have been successfully published.
package cursor

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Store keeps one plain-text watermark file per monitored source, named
// "<source>.cursor" and containing a single decimal integer. Only one
// process is expected to write a given file.
type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Load reads the persisted watermark for a source. A missing or unparsable
// file is not an error: ok is false and the caller falls back to the data
// source's current maximum id.
func (s *Store) Load(source string) (int64, bool, error) {
	b, err := os.ReadFile(s.path(source))
	if errors.Is(err, fs.ErrNotExist) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("read cursor %s: %w", source, err)
	}

	v, err := strconv.ParseInt(strings.TrimSpace(string(b)), 10, 64)
	if err != nil || v < 0 {
		return 0, false, nil
	}

	return v, true, nil
}

// Save persists a new watermark. Callers only ever pass non-decreasing
// values; Save itself does not re-read the file.
func (s *Store) Save(source string, id int64) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create cursor dir: %w", err)
	}
	data := []byte(strconv.FormatInt(id, 10) + "\n")
	if err := os.WriteFile(s.path(source), data, 0o644); err != nil {
		return fmt.Errorf("write cursor %s: %w", source, err)
	}

	return nil
}

func (s *Store) path(source string) string {
	return filepath.Join(s.dir, source+".cursor")
}
