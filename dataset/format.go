// Package dataset acquires, caches and queries the opportunity dataset.
package dataset

import (
	"io"
	"path"
	"strings"

	"github.com/fwojciec/linkopp"
	"github.com/fwojciec/linkopp/csv"
	linkjson "github.com/fwojciec/linkopp/json"
)

// Format identifies a dataset encoding.
type Format string

// Supported dataset formats.
const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// FormatOf guesses the format of a file name or URL from its extension.
// Anything that is not ".json" is read as CSV.
func FormatOf(name string) Format {
	if i := strings.IndexAny(name, "?#"); i >= 0 {
		name = name[:i]
	}
	if strings.EqualFold(path.Ext(name), ".json") {
		return FormatJSON
	}
	return FormatCSV
}

// Decode reads rows encoded in format.
func Decode(r io.Reader, format Format) ([]*linkopp.Row, error) {
	switch format {
	case FormatJSON:
		return linkjson.Decode(r)
	case FormatCSV:
		return csv.Decode(r)
	default:
		return nil, linkopp.Errorf(linkopp.EINVALID, "unsupported dataset format %q", format)
	}
}
