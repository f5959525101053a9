package caderneta

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileStore persists a diary as a single JSONL file. It implements the
// Store interface with an atomic write (temp file then rename) so a
// failed save never leaves a half-written diary behind.
type FileStore struct {
	path string
}

// NewFileStore creates a store persisting to the given file path.
func NewFileStore(path string) *FileStore { return &FileStore{path: path} }

// Path returns the file path the store persists to.
func (s *FileStore) Path() string { return s.path }

// Load reads and decodes the diary file. A missing file is not an error:
// it returns nil ledger and rules, meaning nothing persisted yet.
func (s *FileStore) Load() (*Ledger, *RuleSet, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("could not open diary file %q: %w", s.path, err)
	}
	defer f.Close()

	ledger, rules, err := DecodeDiary(f)
	if err != nil {
		return nil, nil, fmt.Errorf("could not decode diary file %q: %w", s.path, err)
	}
	return ledger, rules, nil
}

// Save encodes the diary to a temporary file next to the target and
// renames it into place.
func (s *FileStore) Save(l *Ledger, rules *RuleSet) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("could not create diary directory %q: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("could not create temporary diary file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := EncodeDiary(tmp, l, rules); err != nil {
		tmp.Close()
		return fmt.Errorf("could not encode diary: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("could not close temporary diary file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("could not replace diary file %q: %w", s.path, err)
	}
	return nil
}

var _ Store = (*FileStore)(nil)
