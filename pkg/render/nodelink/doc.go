// Package nodelink renders tree layouts as node-link diagrams.
//
// # Overview
//
// Nodes are drawn as boxes at the coordinates computed by pkg/hierarchy and
// connected to their parent by arrows. Unlike a plain Graphviz layout, the
// positions are not chosen by Graphviz: every node is pinned, so the
// diagram shows exactly the x (depth) and y (slot midpoint) of the layout.
//
// # Usage
//
//	dot := nodelink.ToDOT(tree, nodelink.Options{Scale: 1.5})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Options
//
//   - Scale: inches per layout unit, [DefaultScale] when zero
//   - Detailed: include coordinates, slot range and capacity in labels
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering with the neato engine.
package nodelink
