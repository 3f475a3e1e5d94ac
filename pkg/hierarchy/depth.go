package hierarchy

import "slices"

// assignDepths walks the tree under root in pre-order and emits one record
// per node with depth, parent, sibling group and branch order filled in.
//
// The walk uses an explicit stack. A child already on the current ancestor
// path, or one that can reach one of its own parents, fails with
// [CycleError]. A child with more than one recorded parent fails with
// [DuplicateNodeError] and a child deeper than maxDepth (when positive)
// fails with [DepthLimitError].
func assignDepths(g *Graph, root string, maxDepth int) ([]Record, error) {
	type frame struct {
		id      string
		depth   int
		next    int      // index of the next child to visit
		cluster []string // copy of the children, shared by their records
	}

	records := []Record{{
		Node:             root,
		XCord:            0,
		NodeClusterCount: 1,
		NodeClusterList:  []string{root},
		BranchOrder:      1,
	}}

	stack := []frame{{id: root, cluster: slices.Clone(g.Children(root))}}
	path := []string{root}
	onPath := map[string]bool{root: true}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next == len(top.cluster) {
			delete(onPath, top.id)
			path = path[:len(path)-1]
			stack = stack[:len(stack)-1]
			continue
		}

		child := top.cluster[top.next]
		top.next++
		depth := top.depth + 1

		if onPath[child] {
			return nil, &CycleError{Root: root, Node: child, Path: slices.Clone(path)}
		}
		if ps := g.Parents(child); len(ps) > 1 {
			// A node on a cycle below the root has the cycle's last node as a
			// second parent, so it would otherwise read as a duplicate.
			if loop := loopBack(g, child, ps); loop != nil {
				return nil, &CycleError{Root: root, Node: child, Path: append(slices.Clone(path), loop...)}
			}
			return nil, &DuplicateNodeError{Node: child, Parents: slices.Clone(ps)}
		}
		if maxDepth > 0 && depth > maxDepth {
			return nil, &DepthLimitError{Node: child, Depth: depth, Limit: maxDepth}
		}

		records = append(records, Record{
			Node:             child,
			Target:           top.id,
			XCord:            depth,
			NodeClusterCount: len(top.cluster),
			NodeClusterList:  top.cluster,
			BranchOrder:      top.next,
		})

		onPath[child] = true
		path = append(path, child)
		stack = append(stack, frame{id: child, depth: depth, cluster: slices.Clone(g.Children(child))})
	}
	return records, nil
}

// loopBack returns the walk from id down to the first of parents it can
// reach, id included, or nil if no parent of id is a descendant of id.
func loopBack(g *Graph, id string, parents []string) []string {
	want := make(map[string]bool, len(parents))
	for _, p := range parents {
		if p != "" {
			want[p] = true
		}
	}

	prev := map[string]string{id: ""}
	queue := []string{id}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, c := range g.Children(cur) {
			if want[c] {
				if c == id {
					return []string{id}
				}
				loop := []string{c}
				for n := cur; n != ""; n = prev[n] {
					loop = append(loop, n)
				}
				slices.Reverse(loop)
				return loop
			}
			if _, seen := prev[c]; !seen {
				prev[c] = cur
				queue = append(queue, c)
			}
		}
	}
	return nil
}
