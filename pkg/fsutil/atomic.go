package fsutil

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// WriteAtomic writes content to path through a temp file plus rename, so a
// crash mid-write never leaves a truncated generated file behind. If mode is
// 0, DefaultFileMode is used.
func WriteAtomic(ctx context.Context, path string, content []byte, mode os.FileMode) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("write atomic: %w", ctx.Err())
	default:
	}

	if mode == 0 {
		mode = DefaultFileMode
	}

	dir := filepath.Dir(path)
	base := filepath.Base(path)

	// The temp file must live in the target directory; rename is only
	// atomic within one filesystem.
	tmp, err := os.CreateTemp(dir, base+".tmp.*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}

	committed = true
	return nil
}

// WriteAtomicIfChanged writes content to path only when it differs from
// what is already there, and reports whether a write happened. Skipping
// identical content keeps modification times stable for build tools that
// watch generated files.
func WriteAtomicIfChanged(ctx context.Context, path string, content []byte, mode os.FileMode) (bool, error) {
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("write atomic: %w", ctx.Err())
	default:
	}

	existing, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if err := WriteAtomic(ctx, path, content, mode); err != nil {
				return false, err
			}
			return true, nil
		}
		return false, fmt.Errorf("read existing: %w", err)
	}

	if bytes.Equal(existing, content) {
		return false, nil
	}

	if err := WriteAtomic(ctx, path, content, mode); err != nil {
		return false, err
	}
	return true, nil
}
