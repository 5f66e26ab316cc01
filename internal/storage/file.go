package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"dailyfocus/internal/fsutil"
)

const (
	dataDirPerm  os.FileMode = 0700
	dataFilePerm os.FileMode = 0600

	// quarantineLayout stamps set-aside data to the millisecond.
	quarantineLayout = "20060102-150405.000"
)

// FileBackend stores each key as <dir>/<key>.json.
type FileBackend struct {
	dir string
	now func() time.Time
}

// NewFileBackend creates dir if needed.
func NewFileBackend(dir string) (*FileBackend, error) {
	if dir == "" {
		return nil, fmt.Errorf("data directory is required")
	}
	if err := os.MkdirAll(dir, dataDirPerm); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &FileBackend{dir: dir, now: time.Now}, nil
}

// Dir returns the data directory.
func (b *FileBackend) Dir() string {
	return b.dir
}

// Path returns the file backing key.
func (b *FileBackend) Path(key string) string {
	return filepath.Join(b.dir, key+".json")
}

func (b *FileBackend) Get(key string) ([]byte, error) {
	data, err := os.ReadFile(b.Path(key))
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	return data, err
}

func (b *FileBackend) Put(key string, data []byte) error {
	path := b.Path(key)
	// A failed copy must not block the write itself.
	_ = fsutil.KeepPrevious(path, dataFilePerm)
	return fsutil.WriteFileAtomic(path, data, dataFilePerm)
}

// Backup returns the .bak copy written before the last overwrite.
func (b *FileBackend) Backup(key string) ([]byte, error) {
	return fsutil.ReadPrevious(b.Path(key))
}

// Quarantine renames the current file to <file>.corrupt.<timestamp>.
func (b *FileBackend) Quarantine(key string) (string, error) {
	return fsutil.MoveAside(b.Path(key), "corrupt."+b.now().Format(quarantineLayout))
}

func (b *FileBackend) Close() error { return nil }
