// Package json reads and writes the JSON form of the opportunity dataset:
// an array of objects keyed by the CSV column headers, blank values omitted.
package json

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/fwojciec/linkopp"
)

// Decode reads a JSON dataset. Number and boolean values are accepted and
// kept in their textual form; null values are absent.
func Decode(r io.Reader) ([]*linkopp.Row, error) {
	var records []map[string]any
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("decoding JSON dataset: %w", err)
	}

	rows := make([]*linkopp.Row, 0, len(records))
	for i, record := range records {
		row, err := decodeRow(record)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func decodeRow(record map[string]any) (*linkopp.Row, error) {
	row := &linkopp.Row{}
	fields := map[string]*string{
		"Source Page URL": &row.SourcePageURL,
		"Target Page URL": &row.TargetPageURL,
		"Status":          &row.Status,
		"Matching Text":   &row.MatchingText,
		"Anchor":          &row.Anchor,
		"type":            &row.Type,
		"id":              &row.ID,
		"injectionStatus": &row.InjectionStatus,
		"rootSiteId":      &row.RootSiteID,
	}

	for key, value := range record {
		dst, ok := fields[key]
		if !ok {
			continue
		}
		switch v := value.(type) {
		case nil:
		case string:
			*dst = v
		case json.Number:
			*dst = v.String()
		case bool:
			*dst = strconv.FormatBool(v)
		default:
			return nil, linkopp.Errorf(linkopp.EINVALID, "field %q is not a string", key)
		}
	}
	return row, nil
}

// Encode writes rows as an indented JSON array.
func Encode(w io.Writer, rows []*linkopp.Row) error {
	if rows == nil {
		rows = []*linkopp.Row{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(rows)
}
