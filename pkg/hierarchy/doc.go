// Package hierarchy computes 2D layout coordinates for the nodes of a forest
// described by a parent/child edge list.
//
// # Overview
//
// Each tree in the forest is laid out independently. Nodes are placed in
// columns by depth (the x coordinate) and in vertical slots by recursively
// splitting an integer range among siblings (the y coordinate), so sibling
// subtrees never overlap and are evenly spaced. The output is suitable for
// hierarchy diagrams such as org charts or tree-style Sankey plots.
//
// # Pipeline
//
// A tree passes through four stages:
//
//  1. Depth assignment: a pre-order walk emits one [Record] per node with its
//     depth, parent, sibling group and 1-indexed branch order.
//  2. Capacity: a bottom-up pass computes how many vertical slots each subtree
//     needs: max(number of children or 1, sum of child capacities).
//  3. Range allocation: the root owns [1, capacity(root)]; each child takes
//     the next capacity(child) slots in branch order and is placed at the
//     midpoint of its range.
//  4. Cluster join: each record gets the size of its own children group and
//     the size of the group it belongs to.
//
// All traversals use explicit stacks, so tree height is bounded only by memory
// (and by [WithMaxDepth] when set).
//
// # Basic Usage
//
//	edges := []hierarchy.Edge{
//	    {Child: "A"},
//	    {Child: "B", Parent: "A"},
//	    {Child: "C", Parent: "A"},
//	}
//	forest, err := hierarchy.Layout(edges)
//	if err != nil {
//	    log.Fatal(err) // no roots, or an invalid edge
//	}
//	for _, t := range forest.Trees {
//	    for _, r := range t.Records {
//	        fmt.Println(r.Node, r.XCord, r.YCord)
//	    }
//	}
//
// # Errors
//
// [Layout] fails as a whole only when the edge list has no root
// ([ErrEmptyGraph]) or names an empty node ([ErrInvalidNodeID]). Problems
// inside one tree (cycles, duplicate node ids, depth limits) fail that tree
// only and are reported in [Forest.Failures]; other trees are still laid out.
//
// # Concurrency
//
// A [Graph] is read-only after [NewGraph] returns and may be shared by
// goroutines. [WithWorkers] lays out roots in parallel; the result is
// identical to sequential processing.
package hierarchy
