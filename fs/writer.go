package fs

import (
	"os"
	"path/filepath"
)

// AtomicFile writes to a temporary file next to its destination and moves
// it into place on Commit, so readers never observe a partial file.
type AtomicFile struct {
	f    *os.File
	path string
}

// CreateAtomic creates the parent directories of path and opens a
// temporary file beside it.
func CreateAtomic(path string) (*AtomicFile, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	f, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return nil, err
	}
	return &AtomicFile{f: f, path: path}, nil
}

func (a *AtomicFile) Write(p []byte) (int, error) {
	return a.f.Write(p)
}

// Commit flushes the temporary file and renames it over the destination.
func (a *AtomicFile) Commit() error {
	if err := a.f.Sync(); err != nil {
		_ = a.Abort()
		return err
	}
	if err := a.f.Close(); err != nil {
		_ = os.Remove(a.f.Name())
		return err
	}
	if err := os.Chmod(a.f.Name(), 0644); err != nil {
		_ = os.Remove(a.f.Name())
		return err
	}
	return os.Rename(a.f.Name(), a.path)
}

// Abort discards the temporary file. The destination is left untouched.
func (a *AtomicFile) Abort() error {
	_ = a.f.Close()
	if err := os.Remove(a.f.Name()); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
