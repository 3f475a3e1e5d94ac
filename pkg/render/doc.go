// Package render groups the diagram renderers for tree layouts.
//
// The [nodelink] subpackage draws a tree as boxes and arrows with every node
// pinned at its computed coordinates:
//
//	dot := nodelink.ToDOT(tree, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// Tabular outputs (CSV, JSON, XLSX) live in pkg/export/sink.
//
// [nodelink]: github.com/matzehuels/treelayout/pkg/render/nodelink
package render
