package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/mohamedwael201193/air-gate-os/internal/sentinel"
)

// File persists sealed values in a single JSON file. Each operation reads the
// file fresh and writes it back whole, mirroring localStorage semantics:
// concurrent writers interleave last-write-wins with no locking beyond what
// the filesystem provides natively.
type File struct {
	mu   sync.Mutex
	path string
}

// NewFile creates a file-backed store at path. The file is created lazily on
// the first write; a missing file reads as empty.
func NewFile(path string) *File {
	return &File{path: path}
}

func (s *File) Get(_ context.Context, key string, v any) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return true, err
	}
	raw, ok := values[key]
	if !ok {
		return false, nil
	}
	if err := open(raw, v); err != nil {
		return true, err
	}
	return true, nil
}

func (s *File) Put(_ context.Context, key string, v any) error {
	raw, err := seal(v)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		// A corrupt file is replaced rather than wedging every write.
		values = make(map[string]json.RawMessage)
	}
	values[key] = raw
	return s.save(values)
}

func (s *File) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		values = make(map[string]json.RawMessage)
	}
	delete(values, key)
	return s.save(values)
}

func (s *File) load() (map[string]json.RawMessage, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return make(map[string]json.RawMessage), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read state file: %w", err)
	}
	var values map[string]json.RawMessage
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, fmt.Errorf("decode state file: %w", sentinel.ErrCorruptState)
	}
	if values == nil {
		values = make(map[string]json.RawMessage)
	}
	return values, nil
}

func (s *File) save(values map[string]json.RawMessage) error {
	raw, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("encode state file: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}
