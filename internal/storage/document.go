// Package storage persists whole documents as JSON files with atomic
// replace-on-write semantics.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// ParsePolicy controls how a Document treats a file it cannot parse.
type ParsePolicy int

const (
	// Strict propagates parse errors to the caller.
	Strict ParsePolicy = iota
	// Lenient degrades a corrupt file to the zero value and logs a warning.
	Lenient
)

// Document owns one JSON file holding a single value of type T.
// A file that does not exist yet reads as the zero value of T.
type Document[T any] struct {
	path   string
	policy ParsePolicy
}

// NewDocument returns a Document backed by the given file path.
func NewDocument[T any](path string, policy ParsePolicy) *Document[T] {
	return &Document[T]{path: path, policy: policy}
}

// Path returns the file the document is stored in.
func (d *Document[T]) Path() string {
	return d.path
}

// Load reads the current document value. A missing file is the zero value.
func (d *Document[T]) Load() (T, error) {
	var value T

	data, err := os.ReadFile(d.path)
	if errors.Is(err, os.ErrNotExist) {
		return value, nil
	}
	if err != nil {
		return value, fmt.Errorf("failed to read %s: %w", d.path, err)
	}

	if err := json.Unmarshal(data, &value); err != nil {
		if d.policy == Lenient {
			slog.Warn("Discarding unparseable document", "path", d.path, "err", err)
			var zero T
			return zero, nil
		}
		return value, fmt.Errorf("failed to parse %s: %w", d.path, err)
	}

	return value, nil
}

// Save atomically replaces the document with the given value: the new
// representation is written to a temporary file in the same directory,
// synced, and renamed over the target. A failed write never leaves a
// truncated or corrupt document behind.
func (d *Document[T]) Save(value T) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	dir := filepath.Dir(d.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(d.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to sync %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close %s: %w", tmpName, err)
	}

	if err := os.Rename(tmpName, d.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", d.path, err)
	}

	return nil
}
