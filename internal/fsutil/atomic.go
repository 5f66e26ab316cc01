// Package fsutil holds the file operations persisted data relies on.
package fsutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
)

// PrevSuffix names the copy KeepPrevious leaves next to a file.
const PrevSuffix = ".bak"

// WriteFileAtomic replaces path with data. The bytes go to a synced temp
// file in the same directory which is then renamed over path, so readers
// see either the old or the new content.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file in %s: %w", dir, err)
	}
	tmpPath := tmp.Name()

	if err := writeSynced(tmp, data, perm); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := replace(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename %s -> %s: %w", tmpPath, path, err)
	}
	syncDir(dir)
	return nil
}

func writeSynced(f *os.File, data []byte, perm os.FileMode) error {
	err := f.Chmod(perm)
	if err == nil {
		_, err = f.Write(data)
	}
	if err == nil {
		err = f.Sync()
	}
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", f.Name(), err)
	}
	return nil
}

// replace renames src over dst. Windows refuses to rename onto an existing
// file, so there dst is removed first and the swap is not atomic.
func replace(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil || runtime.GOOS != "windows" {
		return err
	}
	if rmErr := os.Remove(dst); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
		return err
	}
	return os.Rename(src, dst)
}

// KeepPrevious copies the current content of path to path+PrevSuffix. A
// missing path is not an error: there is nothing to keep yet.
func KeepPrevious(path string, perm os.FileMode) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	return WriteFileAtomic(path+PrevSuffix, data, perm)
}

// ReadPrevious returns the copy saved by KeepPrevious.
func ReadPrevious(path string) ([]byte, error) {
	return os.ReadFile(path + PrevSuffix)
}

// MoveAside renames path to path+"."+tag and returns the new name.
func MoveAside(path, tag string) (string, error) {
	moved := path + "." + tag
	if err := os.Rename(path, moved); err != nil {
		return "", err
	}
	return moved, nil
}

// syncDir flushes the directory entry after a rename where supported.
func syncDir(dir string) {
	f, err := os.Open(dir)
	if err != nil {
		return
	}
	_ = f.Sync()
	_ = f.Close()
}
