// Package csv decodes the opportunity dataset from its CSV export.
package csv

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fwojciec/linkopp"
)

// Column headers of the CSV export.
const (
	ColumnSourcePageURL   = "Source Page URL"
	ColumnTargetPageURL   = "Target Page URL"
	ColumnStatus          = "Status"
	ColumnMatchingText    = "Matching Text"
	ColumnAnchor          = "Anchor"
	ColumnType            = "type"
	ColumnID              = "id"
	ColumnInjectionStatus = "injectionStatus"
	ColumnRootSiteID      = "rootSiteId"
)

// columns maps a header to the row field it fills.
var columns = map[string]func(*linkopp.Row) *string{
	ColumnSourcePageURL:   func(r *linkopp.Row) *string { return &r.SourcePageURL },
	ColumnTargetPageURL:   func(r *linkopp.Row) *string { return &r.TargetPageURL },
	ColumnStatus:          func(r *linkopp.Row) *string { return &r.Status },
	ColumnMatchingText:    func(r *linkopp.Row) *string { return &r.MatchingText },
	ColumnAnchor:          func(r *linkopp.Row) *string { return &r.Anchor },
	ColumnType:            func(r *linkopp.Row) *string { return &r.Type },
	ColumnID:              func(r *linkopp.Row) *string { return &r.ID },
	ColumnInjectionStatus: func(r *linkopp.Row) *string { return &r.InjectionStatus },
	ColumnRootSiteID:      func(r *linkopp.Row) *string { return &r.RootSiteID },
}

// Decode reads every record of a CSV export with a header line.
// Unknown columns are ignored, short records leave the trailing fields
// absent, and blank lines are skipped.
func Decode(r io.Reader) ([]*linkopp.Row, error) {
	cr := csv.NewReader(bufio.NewReader(r))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return []*linkopp.Row{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	rows := []*linkopp.Row{}
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV record %d: %w", len(rows)+1, err)
		}
		if isBlank(record) {
			continue
		}

		row := &linkopp.Row{}
		for i, value := range record {
			if i >= len(header) {
				break
			}
			if field, ok := columns[strings.TrimSpace(header[i])]; ok {
				*field(row) = value
			}
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
