package fsutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Permissions for files that may hold instance identifiers or credentials.
const (
	DirPermUserOnly  os.FileMode = 0o700
	FilePermUserOnly os.FileMode = 0o600
)

// ErrEmptyPath is returned when a helper is given an empty path.
var ErrEmptyPath = errors.New("path is empty")

// WriteFileAtomic replaces path with data. The content is written to a
// temporary file in the same directory, synced, and renamed over path, so
// readers see either the old or the new file and never a partial one.
// Missing parent directories are created with DirPermUserOnly.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) (err error) {
	if path == "" {
		return ErrEmptyPath
	}

	dir := filepath.Dir(path)

	err = os.MkdirAll(dir, DirPermUserOnly)
	if err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temporary file in %s: %w", dir, err)
	}

	tmpName := tmp.Name()

	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	_, err = tmp.Write(data)
	if err != nil {
		return fmt.Errorf("write %s: %w", tmpName, err)
	}

	err = tmp.Sync()
	if err != nil {
		return fmt.Errorf("sync %s: %w", tmpName, err)
	}

	err = tmp.Chmod(perm)
	if err != nil {
		return fmt.Errorf("chmod %s: %w", tmpName, err)
	}

	err = tmp.Close()
	if err != nil {
		return fmt.Errorf("close %s: %w", tmpName, err)
	}

	err = os.Rename(tmpName, path)
	if err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}

	return nil
}
