package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/atelier-tools/atelier/internal/platform"
)

// Store reads and mutates the installed-package registry. Mutations are
// atomic: either the whole change function's result is visible or none of
// it. Callers never hold a mutable reference into the store's internals.
type Store interface {
	// All returns a copy of the current registry.
	All() (Registry, error)

	// Get returns one package by ID.
	Get(id string) (InstalledPackage, bool, error)

	// Mutate loads the registry, applies fn, and commits the result
	// atomically. Returning an error from fn aborts the commit.
	Mutate(fn func(*Registry) error) error
}

// FileStore is the JSON-file Store implementation.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a Store backed by the registry file at path.
// A missing file reads as an empty registry.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// All returns a copy of the current registry.
func (s *FileStore) All() (Registry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Get returns one package by ID.
func (s *FileStore) Get(id string) (InstalledPackage, bool, error) {
	reg, err := s.All()
	if err != nil {
		return InstalledPackage{}, false, err
	}
	pkg, ok := reg.Find(id)
	return pkg, ok, nil
}

// Mutate applies fn to the registry and commits the result via a temp file
// and rename, so a crash mid-write never corrupts the registry.
func (s *FileStore) Mutate(fn func(*Registry) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	reg, err := s.load()
	if err != nil {
		return err
	}

	if err := fn(&reg); err != nil {
		return err
	}

	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling registry: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating registry directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".packages-*.json")
	if err != nil {
		return fmt.Errorf("creating temp registry: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing temp registry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp registry: %w", err)
	}
	if err := platform.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("setting registry permissions: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("committing registry: %w", err)
	}
	return nil
}

func (s *FileStore) load() (Registry, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return Registry{}, nil
	}
	if err != nil {
		return Registry{}, fmt.Errorf("reading registry: %w", err)
	}

	var reg Registry
	if err := json.Unmarshal(data, &reg); err != nil {
		return Registry{}, fmt.Errorf("parsing registry %s: %w", s.path, err)
	}
	return reg, nil
}

// Compile-time interface compliance check.
var _ Store = (*FileStore)(nil)
