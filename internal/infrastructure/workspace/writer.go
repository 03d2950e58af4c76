// Package workspace holds the filesystem collaborators of the generator:
// writing env files, detecting application directories, bootstrapping a
// template and reading existing env files back.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// Writer writes generated files, creating parent directories as needed
type Writer struct {
	fs afero.Fs
}

// NewWriter creates a writer over fs
func NewWriter(fs afero.Fs) *Writer {
	return &Writer{fs: fs}
}

// Write stores content at path, overwriting any existing file
func (w *Writer) Write(path, content string) error {
	if err := w.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	if err := afero.WriteFile(w.fs, path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// ExistsError is returned when a file that must not exist is already present
type ExistsError struct {
	Path string
}

func (e *ExistsError) Error() string {
	return fmt.Sprintf("%s already exists", e.Path)
}

// WriteTemplate creates a starter configuration document at path. It refuses
// to overwrite an existing file.
func WriteTemplate(fs afero.Fs, path string) error {
	if _, err := fs.Stat(path); err == nil {
		return &ExistsError{Path: path}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to check %s: %w", path, err)
	}

	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	if err := afero.WriteFile(fs, path, []byte(TemplateFor(path)), 0o644); err != nil {
		return fmt.Errorf("failed to write template: %w", err)
	}
	return nil
}
