package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Storage persists the single session snapshot. Load returns (nil, nil)
// when no snapshot exists.
type Storage interface {
	Load() (*Snapshot, error)
	Save(snap *Snapshot) error
	Clear() error
}

// FileStorage keeps the snapshot as one JSON file on disk.
type FileStorage struct {
	path string
}

func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

func (f *FileStorage) Load() (*Snapshot, error) {
	raw, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read session file: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("decode session file: %w", err)
	}
	return &snap, nil
}

func (f *FileStorage) Save(snap *Snapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	// Write-then-rename so a crash mid-write never leaves a torn snapshot.
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("replace session file: %w", err)
	}
	return nil
}

func (f *FileStorage) Clear() error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

// MemoryStorage holds the snapshot in memory. Used by tests and as a
// stand-in when no data directory is configured.
type MemoryStorage struct {
	snap *Snapshot
}

func NewMemoryStorage() *MemoryStorage { return &MemoryStorage{} }

func (m *MemoryStorage) Load() (*Snapshot, error) {
	if m.snap == nil {
		return nil, nil
	}
	cp := *m.snap
	return &cp, nil
}

func (m *MemoryStorage) Save(snap *Snapshot) error {
	cp := *snap
	m.snap = &cp
	return nil
}

func (m *MemoryStorage) Clear() error {
	m.snap = nil
	return nil
}
