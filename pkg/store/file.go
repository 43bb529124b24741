package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Backend persists the whole task document as one blob. Read returns an
// error wrapping fs.ErrNotExist when nothing has been persisted yet.
type Backend interface {
	Read() ([]byte, error)
	Write(data []byte) error
	String() string
}

// FileBackend stores the document in a single JSON file
type FileBackend struct {
	Path string
}

// NewFileBackend creates a file backend, expanding a leading tilde and
// creating the parent directory.
func NewFileBackend(path string) (*FileBackend, error) {
	expanded, err := expandPath(path)
	if err != nil {
		return nil, err
	}

	// Create the directory structure if it doesn't exist
	dir := filepath.Dir(expanded)
	if dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}

	return &FileBackend{Path: expanded}, nil
}

// Read returns the file contents.
func (b *FileBackend) Read() ([]byte, error) {
	data, err := os.ReadFile(b.Path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", b.Path, err)
	}
	return data, nil
}

// Write replaces the file atomically: the document goes to a temp file in
// the same directory which is then renamed over the target.
func (b *FileBackend) Write(data []byte) error {
	dir := filepath.Dir(b.Path)
	base := filepath.Base(b.Path)

	tempFile, err := os.CreateTemp(dir, base+".tmp.*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tempPath := tempFile.Name()
	defer func() {
		_ = tempFile.Close()
		_ = os.Remove(tempPath) // no-op once renamed
	}()

	if _, err := tempFile.Write(data); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tempFile.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tempPath, b.Path); err != nil {
		return fmt.Errorf("replace %s: %w", b.Path, err)
	}
	return nil
}

func (b *FileBackend) String() string {
	return b.Path
}

// expandPath expands a leading tilde to the home directory
func expandPath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("store path is empty")
	}
	if strings.HasPrefix(path, "~") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = homeDir + path[1:]
	}
	return path, nil
}

func isNotExist(err error) bool {
	return err != nil && errors.Is(err, fs.ErrNotExist)
}
