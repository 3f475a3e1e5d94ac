package io

import (
	"fmt"

	"github.com/matzehuels/treelayout/pkg/hierarchy"
)

// Disambiguate renames every child id that occurs in more than one row to
// id_1, id_2, ... in row order, so a node attached to several parents
// becomes one distinct node per parent. A suffix is skipped when that id
// is already named elsewhere in edges.
//
// Parent references are left untouched: an edge whose parent was renamed
// still points at the original id. Callers that need the renamed node to
// keep its subtree must repeat those edges for each copy.
//
// Input is not modified. Exact duplicates should be removed first (both
// readers in this package already do).
func Disambiguate(edges []hierarchy.Edge) []hierarchy.Edge {
	counts := make(map[string]int, len(edges))
	taken := make(map[string]bool, len(edges))
	for _, e := range edges {
		counts[e.Child]++
		taken[e.Child] = true
		taken[e.Parent] = true
	}

	out := make([]hierarchy.Edge, len(edges))
	next := make(map[string]int)
	for i, e := range edges {
		if counts[e.Child] > 1 {
			base := e.Child
			for {
				next[base]++
				e.Child = fmt.Sprintf("%s_%d", base, next[base])
				if !taken[e.Child] {
					break
				}
			}
			taken[e.Child] = true
		}
		out[i] = e
	}
	return out
}
