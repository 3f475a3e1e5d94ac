// Package io reads and writes edge lists for the layout engine.
//
// # Overview
//
// An edge list is a table with one row per (child, parent) pair. A row with
// no parent declares its child as the root of a tree. This package decodes
// such tables into [hierarchy.Edge] values and encodes them back.
//
// # Delimited Format
//
// The default format is CSV with a header row:
//
//	start_point,end_point
//	A,
//	B,A
//	C,A
//
// start_point is the child and end_point is the parent. The column names and
// the delimiter are configurable through [ReadOptions]; other columns are
// ignored. A parent cell that is empty or holds one of "NaN", "null" or
// "None" (case-insensitive) is treated as absent, which matches how
// spreadsheet and dataframe tools export missing values.
//
// # JSON Format
//
//	{
//	  "edges": [
//	    {"child": "A"},
//	    {"child": "B", "parent": "A"}
//	  ]
//	}
//
// # Import
//
// Use [ImportEdges] to read a file by path; the format follows the file
// extension (.json for JSON, anything else delimited). Use [ReadEdges] or
// [ReadEdgesJSON] to read from any io.Reader.
//
// Exact duplicate rows are dropped while reading. A child listed under two
// different parents is kept as is; pass the result through [Disambiguate]
// to give each occurrence its own id before layout.
//
// # Export
//
// [WriteEdges] and [WriteEdgesJSON] write edges back out in the same
// formats, so an edge list can be normalized, disambiguated and saved.
//
// [hierarchy.Edge]: github.com/matzehuels/treelayout/pkg/hierarchy.Edge
package io
