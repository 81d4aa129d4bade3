package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Slot is a single named key-value entry holding the serialized collection.
type Slot interface {
	// Read returns the stored value, or ErrSlotEmpty if nothing was ever written.
	Read(ctx context.Context) ([]byte, error)
	// Write replaces the stored value in full.
	Write(ctx context.Context, data []byte) error
	Close() error
}

// FileSlot keeps the slot value in a single file.
type FileSlot struct {
	path string
}

// NewFileSlot creates a FileSlot at <dir>/<sanitized name>.<ext>.
func NewFileSlot(dir, name, ext string) *FileSlot {
	return &FileSlot{path: filepath.Join(dir, SanitizeName(name)+"."+ext)}
}

// Path returns the file backing the slot.
func (s *FileSlot) Path() string {
	return s.path
}

// Read reads the slot file.
func (s *FileSlot) Read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, ErrSlotEmpty
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Write replaces the slot file atomically: readers see either the old or the new value.
func (s *FileSlot) Write(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	//nolint:gosec // G301: 0755 is appropriate for user-accessible data directory
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create slot directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // No-op once renamed

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	//nolint:gosec // G302: 0644 is appropriate for user-readable task files
	if err = os.Chmod(tmpPath, 0o644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err = os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("replace slot file: %w", err)
	}
	return nil
}

// Close is a no-op; FileSlot holds no open handles.
func (s *FileSlot) Close() error {
	return nil
}
