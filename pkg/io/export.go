package io

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/treelayout/pkg/hierarchy"
)

// WriteEdges encodes edges as a delimited table with a header row. Root
// edges get an empty parent cell. Only Delimiter and the column names of
// opts are used.
func WriteEdges(edges []hierarchy.Edge, w io.Writer, opts ReadOptions) error {
	opts = opts.withDefaults()

	cw := csv.NewWriter(w)
	cw.Comma = opts.Delimiter
	if err := cw.Write([]string{opts.ChildColumn, opts.ParentColumn}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, e := range edges {
		if err := cw.Write([]string{e.Child, e.Parent}); err != nil {
			return fmt.Errorf("write %s: %w", e.Child, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteEdgesJSON encodes edges as a JSON edge document. The output can be
// read back with [ReadEdgesJSON].
func WriteEdgesJSON(edges []hierarchy.Edge, w io.Writer) error {
	out := edgeFile{Edges: edges}
	if out.Edges == nil {
		out.Edges = []hierarchy.Edge{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportEdges writes edges to path, choosing the format by extension the
// same way [ImportEdges] does.
func ExportEdges(edges []hierarchy.Edge, path string, opts ReadOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if IsJSON(path) {
		err = WriteEdgesJSON(edges, f)
	} else {
		err = WriteEdges(edges, f, opts)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}
