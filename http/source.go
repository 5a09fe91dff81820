package http

import (
	"context"
	"fmt"
	"strings"

	"github.com/fwojciec/linkopp"
	"github.com/fwojciec/linkopp/dataset"
)

var _ linkopp.RowSource = (*Source)(nil)

// Source loads a CSV or JSON dataset published at a URL.
type Source struct {
	URL     string
	Format  dataset.Format
	Fetcher linkopp.Fetcher
}

// NewSource creates a Source, guessing the format from the URL path.
func NewSource(url string, fetcher linkopp.Fetcher) *Source {
	return &Source{URL: url, Format: dataset.FormatOf(url), Fetcher: fetcher}
}

// LoadRows downloads and decodes the whole dataset.
func (s *Source) LoadRows(ctx context.Context) ([]*linkopp.Row, error) {
	body, err := s.Fetcher.Fetch(ctx, s.URL)
	if err != nil {
		return nil, err
	}

	rows, err := dataset.Decode(strings.NewReader(body), s.Format)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", s.URL, err)
	}
	return rows, nil
}
