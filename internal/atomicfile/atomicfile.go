// Package atomicfile writes owner-only files, optionally via a temp file and
// rename so a reader never sees partial content.
package atomicfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ErrInvalidJSON is returned when WriteJSON is handed content that does not
// parse. The destination is left untouched.
var ErrInvalidJSON = errors.New("refusing to write invalid JSON")

// TempPath is the temp file WriteJSON uses for path. The pid suffix keeps two
// concurrent invocations from sharing a temp file.
func TempPath(path string) string {
	return fmt.Sprintf("%s.tmp.%d", path, os.Getpid())
}

// WriteJSON validates content as JSON, writes it to a temp file in the same
// directory, syncs, renames it over path and restricts path to 0600.
func WriteJSON(path string, content []byte) error {
	if !json.Valid(content) {
		return fmt.Errorf("%w: %s", ErrInvalidJSON, path)
	}

	tmpPath := TempPath(path)
	f, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("creating temp file %s: %w", tmpPath, err)
	}
	if _, err := f.Write(content); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing temp file %s: %w", tmpPath, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("syncing temp file %s: %w", tmpPath, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file %s: %w", tmpPath, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("finalizing %s: %w", path, err)
	}
	if err := os.Chmod(path, 0600); err != nil {
		return fmt.Errorf("restricting %s: %w", path, err)
	}
	return nil
}

// WritePrivate writes content to path and leaves it readable and writable by
// the owner only, including when path already existed with wider bits.
func WritePrivate(path string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, content, 0600); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Chmod(path, 0600); err != nil {
		return fmt.Errorf("restricting %s: %w", path, err)
	}
	return nil
}

// Remove deletes path. A missing file is not an error.
func Remove(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing %s: %w", path, err)
	}
	return nil
}
