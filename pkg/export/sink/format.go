package sink

import (
	"slices"
	"strings"

	"github.com/matzehuels/treelayout/pkg/errors"
)

// Output formats.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
	FormatXLSX = "xlsx"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
)

// Formats lists every supported output format.
var Formats = []string{FormatCSV, FormatJSON, FormatXLSX, FormatDOT, FormatSVG}

// TabularFormats lists the formats produced from flattened rows.
var TabularFormats = []string{FormatCSV, FormatJSON, FormatXLSX}

// ValidateFormat reports an INVALID_FORMAT error for unknown formats.
func ValidateFormat(format string) error {
	if !slices.Contains(Formats, format) {
		return errors.New(errors.ErrCodeInvalidFormat,
			"unknown format %q (want one of %s)", format, strings.Join(Formats, ", "))
	}
	return nil
}

// ParseFormats splits a comma-separated list, lowercases and deduplicates
// it, and validates each entry.
func ParseFormats(s string) ([]string, error) {
	var out []string
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || slices.Contains(out, f) {
			continue
		}
		if err := ValidateFormat(f); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	if len(out) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "no output format given")
	}
	return out, nil
}

// IsTabular reports whether format is built from flattened rows.
func IsTabular(format string) bool { return slices.Contains(TabularFormats, format) }

// ContentType returns the MIME type for format.
func ContentType(format string) string {
	switch format {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatJSON:
		return "application/json"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatDOT:
		return "text/vnd.graphviz"
	case FormatSVG:
		return "image/svg+xml"
	}
	return "application/octet-stream"
}
