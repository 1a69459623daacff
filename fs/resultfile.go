// Package fs writes discovery results to local files.
package fs

import (
	"os"
	"path/filepath"
)

// ResultFile writes a discovery result to a file with atomic replace
// semantics. Content is saved to path+".tmp" and renamed over path on
// Commit, so readers never see a partial product list.
type ResultFile struct {
	path string
}

// NewResultFile creates a ResultFile targeting path.
func NewResultFile(path string) *ResultFile {
	return &ResultFile{path: path}
}

func (f *ResultFile) tempPath() string {
	return f.path + ".tmp"
}

// Save writes data to the temporary file, creating parent directories.
func (f *ResultFile) Save(data []byte) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
		return err
	}
	return os.WriteFile(f.tempPath(), data, 0644)
}

// Commit replaces the target file with the saved content.
func (f *ResultFile) Commit() error {
	return os.Rename(f.tempPath(), f.path)
}

// Abort discards saved content. The target file is left untouched.
func (f *ResultFile) Abort() error {
	if err := os.Remove(f.tempPath()); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
