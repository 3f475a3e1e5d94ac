package sink

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/matzehuels/treelayout/pkg/export"
)

// RenderCSV encodes rows as CSV with an [export.Columns] header.
func RenderCSV(rows []export.Row) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(export.Columns); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	for _, r := range rows {
		if err := w.Write(r.Strings()); err != nil {
			return nil, fmt.Errorf("write row %s: %w", r.Node, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
