package hierarchy

import (
	"fmt"
	"maps"
	"slices"
)

// Edge links a child node to its parent. An empty Parent marks Child as a
// root of its own tree.
type Edge struct {
	Child  string `json:"child"`
	Parent string `json:"parent,omitempty"`
}

// IsRoot reports whether the edge declares a root.
func (e Edge) IsRoot() bool { return e.Parent == "" }

// Graph indexes an edge list for layout. Children keep the order in which
// their edges first appear, which fixes branch order and y placement.
//
// A Graph is immutable after [NewGraph] returns and is safe for concurrent
// reads.
type Graph struct {
	children map[string][]string // parent -> children in input order
	parents  map[string][]string // child -> distinct parents ("" for a root edge)
	roots    []string
	nodes    []string // every id in first-appearance order
	edges    int
}

// NewGraph builds the child index and root list from edges.
//
// Exact duplicate edges are ignored. A child listed under two different
// parents is indexed under both; the conflict surfaces as a
// [DuplicateNodeError] when a tree containing it is laid out.
//
// Returns [ErrInvalidNodeID] if any edge has an empty Child, or
// [ErrEmptyGraph] if no edge declares a root.
func NewGraph(edges []Edge) (*Graph, error) {
	return NewGraphWithRoots(edges, nil)
}

// NewGraphWithRoots is [NewGraph] with extra roots forced onto nodes that
// have no root edge, for edge lists that lost their root rows. Forced roots
// follow the declared ones in the order given; ids that already have a root
// edge are skipped.
//
// Returns [ErrRootNotFound] if a forced id is not named by any edge.
func NewGraphWithRoots(edges []Edge, roots []string) (*Graph, error) {
	g := &Graph{
		children: make(map[string][]string),
		parents:  make(map[string][]string),
	}
	seen := make(map[Edge]struct{}, len(edges))
	known := make(map[string]struct{}, len(edges))
	addNode := func(id string) {
		if _, ok := known[id]; !ok {
			known[id] = struct{}{}
			g.nodes = append(g.nodes, id)
		}
	}

	for _, e := range edges {
		if e.Child == "" {
			return nil, ErrInvalidNodeID
		}
		if _, dup := seen[e]; dup {
			continue
		}
		seen[e] = struct{}{}
		g.edges++

		addNode(e.Child)
		g.parents[e.Child] = append(g.parents[e.Child], e.Parent)
		if e.IsRoot() {
			g.roots = append(g.roots, e.Child)
			continue
		}
		addNode(e.Parent)
		g.children[e.Parent] = append(g.children[e.Parent], e.Child)
	}

	for _, id := range roots {
		if _, ok := known[id]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrRootNotFound, id)
		}
		if !slices.Contains(g.roots, id) {
			g.roots = append(g.roots, id)
		}
	}

	if len(g.roots) == 0 {
		return nil, ErrEmptyGraph
	}
	return g, nil
}

// Roots returns root ids in the order their edges appear.
// The returned slice should not be modified.
func (g *Graph) Roots() []string { return g.roots }

// Children returns the ordered children of id, or nil for a leaf or an
// unknown id. The returned slice should not be modified.
func (g *Graph) Children(id string) []string { return g.children[id] }

// Parents returns the distinct parents recorded for id. A root edge
// contributes an empty string. The returned slice should not be modified.
func (g *Graph) Parents(id string) []string { return g.parents[id] }

// NodeCount returns the number of distinct node ids named by the edges.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of distinct edges, root edges included.
func (g *Graph) EdgeCount() int { return g.edges }

// Unreached returns ids that no root's tree contains, sorted. These come from
// edges whose ancestor chain never reaches a root edge (for example a cycle
// with no root).
func (g *Graph) Unreached() []string {
	reached := make(map[string]struct{}, len(g.nodes))
	for _, r := range g.roots {
		stack := []string{r}
		for len(stack) > 0 {
			id := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if _, ok := reached[id]; ok {
				continue
			}
			reached[id] = struct{}{}
			stack = append(stack, g.children[id]...)
		}
	}

	var out []string
	for _, id := range g.nodes {
		if _, ok := reached[id]; !ok {
			out = append(out, id)
		}
	}
	slices.Sort(out)
	return out
}

// Parentless returns ids that appear only as parents, never as a child, in
// sorted order. Edge files usually declare these as roots; a non-empty
// result often means a missing root row that [NewGraphWithRoots] can supply.
func (g *Graph) Parentless() []string {
	var out []string
	for _, id := range slices.Sorted(maps.Keys(g.children)) {
		if len(g.parents[id]) == 0 {
			out = append(out, id)
		}
	}
	return out
}
