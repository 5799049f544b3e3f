// Package fsutil provides the file system primitives rustgen needs when
// writing generated source: atomic whole-file writes and small read helpers.
package fsutil

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultFileMode is the permission mode for newly created files.
const DefaultFileMode os.FileMode = 0644

// ReadFileString reads path and returns its content as a string.
func ReadFileString(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(content), nil
}

// EnsureDir creates the directory that will hold path, along with any
// missing parents. Generated file paths routinely point into directories
// that do not exist yet.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}
	return nil
}
