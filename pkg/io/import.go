package io

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/treelayout/pkg/hierarchy"
)

// Default column names, as produced by the upstream edge exports.
const (
	DefaultChildColumn  = "start_point"
	DefaultParentColumn = "end_point"
)

// ErrMissingColumn is returned when the header lacks the child or parent
// column.
var ErrMissingColumn = errors.New("missing column")

// ReadOptions configures delimited input. The zero value reads CSV with the
// default column names.
type ReadOptions struct {
	Delimiter    rune   // field separator, ',' when zero
	ChildColumn  string // DefaultChildColumn when empty
	ParentColumn string // DefaultParentColumn when empty
}

func (o ReadOptions) withDefaults() ReadOptions {
	if o.Delimiter == 0 {
		o.Delimiter = ','
	}
	if o.ChildColumn == "" {
		o.ChildColumn = DefaultChildColumn
	}
	if o.ParentColumn == "" {
		o.ParentColumn = DefaultParentColumn
	}
	return o
}

type edgeFile struct {
	Edges []hierarchy.Edge `json:"edges"`
}

// missing reports whether a parent cell stands for "no parent".
func missing(cell string) bool {
	switch strings.ToLower(strings.TrimSpace(cell)) {
	case "", "nan", "null", "none":
		return true
	}
	return false
}

// ReadEdges decodes a delimited edge table from r.
//
// The first record is the header and must contain both configured columns.
// Cells are trimmed of surrounding spaces. Rows may have a different number
// of fields than the header as long as the child column is present; a short
// row without the parent column is a root.
//
// ReadEdges returns an error for malformed input, a missing column, or a
// row with an empty child. The line number is included in row errors.
// ReadEdges does not close r.
func ReadEdges(r io.Reader, opts ReadOptions) ([]hierarchy.Edge, error) {
	opts = opts.withDefaults()

	cr := csv.NewReader(r)
	cr.Comma = opts.Delimiter
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("read header: empty input")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	childIdx, parentIdx := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")) {
		case opts.ChildColumn:
			childIdx = i
		case opts.ParentColumn:
			parentIdx = i
		}
	}
	if childIdx < 0 {
		return nil, fmt.Errorf("%w %q", ErrMissingColumn, opts.ChildColumn)
	}
	if parentIdx < 0 {
		return nil, fmt.Errorf("%w %q", ErrMissingColumn, opts.ParentColumn)
	}

	var edges []hierarchy.Edge
	seen := make(map[hierarchy.Edge]struct{})
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		line, _ := cr.FieldPos(0)

		if childIdx >= len(rec) {
			return nil, fmt.Errorf("line %d: %w", line, hierarchy.ErrInvalidNodeID)
		}
		e := hierarchy.Edge{Child: strings.TrimSpace(rec[childIdx])}
		if e.Child == "" {
			if isBlank(rec) {
				continue
			}
			return nil, fmt.Errorf("line %d: %w", line, hierarchy.ErrInvalidNodeID)
		}
		if parentIdx < len(rec) && !missing(rec[parentIdx]) {
			e.Parent = strings.TrimSpace(rec[parentIdx])
		}

		if _, dup := seen[e]; dup {
			continue
		}
		seen[e] = struct{}{}
		edges = append(edges, e)
	}
	return edges, nil
}

func isBlank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// ReadEdgesJSON decodes a JSON edge document from r. Exact duplicate edges
// are dropped. ReadEdgesJSON does not close r.
func ReadEdgesJSON(r io.Reader) ([]hierarchy.Edge, error) {
	var data edgeFile
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	edges := make([]hierarchy.Edge, 0, len(data.Edges))
	seen := make(map[hierarchy.Edge]struct{}, len(data.Edges))
	for i, e := range data.Edges {
		if e.Child == "" {
			return nil, fmt.Errorf("edge %d: %w", i, hierarchy.ErrInvalidNodeID)
		}
		if missing(e.Parent) {
			e.Parent = ""
		}
		if _, dup := seen[e]; dup {
			continue
		}
		seen[e] = struct{}{}
		edges = append(edges, e)
	}
	return edges, nil
}

// ImportEdges reads the edge file at path. Files ending in .json are decoded
// with [ReadEdgesJSON]; everything else with [ReadEdges].
//
// The returned error wraps the underlying cause with the file path.
func ImportEdges(path string, opts ReadOptions) ([]hierarchy.Edge, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var edges []hierarchy.Edge
	if IsJSON(path) {
		edges, err = ReadEdgesJSON(f)
	} else {
		edges, err = ReadEdges(f, opts)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return edges, nil
}

// IsJSON reports whether path names a JSON edge file.
func IsJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}
