package store

import (
	"os"
	"path/filepath"
	"sync"
)

// FileBackend stores each collection as <dir>/<name>.json.
type FileBackend struct {
	Dir string
}

func (f *FileBackend) path(name string) string {
	return filepath.Join(f.Dir, name+".json")
}

func (f *FileBackend) Read(name string) ([]byte, bool, error) {
	data, err := os.ReadFile(f.path(name))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (f *FileBackend) Write(name string, data []byte) error {
	if err := os.MkdirAll(f.Dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(f.path(name), data, 0o644)
}

// MemoryBackend keeps collections in a map. It preserves the same
// whole-collection overwrite semantics as the file backend.
type MemoryBackend struct {
	mu    sync.RWMutex
	files map[string][]byte
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{files: make(map[string][]byte)}
}

func (m *MemoryBackend) Read(name string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.files[name]
	if !ok {
		return nil, false, nil
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return cp, true, nil
}

func (m *MemoryBackend) Write(name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	m.files[name] = cp
	return nil
}
