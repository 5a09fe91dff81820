// Package fs provides file-based dataset sources and atomic output files.
package fs

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/fwojciec/linkopp"
	"github.com/fwojciec/linkopp/dataset"
)

// Ensure FileSource implements linkopp.RowSource at compile time.
var _ linkopp.RowSource = (*FileSource)(nil)

// FileSource loads the dataset from a local CSV or JSON file.
type FileSource struct {
	Path   string
	Format dataset.Format
}

// NewFileSource creates a FileSource, guessing the format from the extension.
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path, Format: dataset.FormatOf(path)}
}

// LoadRows reads the whole file. The file is re-read on every call.
func (s *FileSource) LoadRows(ctx context.Context) ([]*linkopp.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, linkopp.Errorf(linkopp.ENOTFOUND, "dataset file %s not found", s.Path)
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := dataset.Decode(f, s.Format)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", s.Path, err)
	}
	return rows, nil
}
