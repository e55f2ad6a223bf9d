package trophy

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"gopkg.in/yaml.v3"
)

// MemoryStore keeps trophies for the lifetime of the process.
type MemoryStore struct {
	mu    sync.Mutex
	names []string
}

// NewMemoryStore returns a store preloaded with names.
func NewMemoryStore(names ...string) *MemoryStore {
	return &MemoryStore{names: slices.Clone(names)}
}

// Load implements Store.
func (m *MemoryStore) Load(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.names), nil
}

// Earn implements Store.
func (m *MemoryStore) Earn(ctx context.Context, name string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if slices.Contains(m.names, name) {
		return false, nil
	}
	m.names = append(m.names, name)
	return true, nil
}

// fileDoc is the on-disk layout of a FileStore.
type fileDoc struct {
	Trophies []string `yaml:"trophies"`
}

// FileStore keeps trophies in a YAML file. A missing file is an empty store.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore returns a store backed by path.
//
// Precondition: path is non-empty.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) read() ([]string, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading trophy file %s: %w", f.path, err)
	}
	var doc fileDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing trophy file %s: %w", f.path, err)
	}
	return doc.Trophies, nil
}

// Load implements Store.
func (f *FileStore) Load(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.read()
}

// Earn implements Store. The file is rewritten through a temp file and rename.
func (f *FileStore) Earn(ctx context.Context, name string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	names, err := f.read()
	if err != nil {
		return false, err
	}
	if slices.Contains(names, name) {
		return false, nil
	}
	data, err := yaml.Marshal(fileDoc{Trophies: append(names, name)})
	if err != nil {
		return false, fmt.Errorf("encoding trophies: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return false, fmt.Errorf("creating trophy dir: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return false, fmt.Errorf("writing trophy file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return false, fmt.Errorf("replacing trophy file: %w", err)
	}
	return true, nil
}
