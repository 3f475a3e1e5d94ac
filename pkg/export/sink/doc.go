// Package sink encodes flattened layout rows into output files.
//
// # Overview
//
// A "sink" turns the output of [export.Flatten] (or a whole
// [hierarchy.Forest]) into bytes ready to be written or served:
//
//   - CSV: one header row followed by one line per [export.Row]
//   - JSON: a document with the run id, version, per-root rows and failures
//   - XLSX: a workbook with one sheet per root
//
// Diagram formats (DOT and SVG) are produced by pkg/render/nodelink; they are
// listed in [Formats] so callers can validate every format in one place.
//
// # Usage
//
//	rows := export.Flatten(tree)
//	data, err := sink.RenderCSV(rows)
//
//	doc, err := sink.RenderJSON(forest,
//	    sink.WithJSONRunID(runID),
//	    sink.WithJSONVersion(buildinfo.Version),
//	)
//
//	book, err := sink.RenderXLSX(forest.Trees)
//
// All functions are safe to call concurrently and do not modify their input.
//
// [export.Flatten]: github.com/matzehuels/treelayout/pkg/export.Flatten
// [export.Row]: github.com/matzehuels/treelayout/pkg/export.Row
// [hierarchy.Forest]: github.com/matzehuels/treelayout/pkg/hierarchy.Forest
package sink
