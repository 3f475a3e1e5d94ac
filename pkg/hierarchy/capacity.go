package hierarchy

// capacities computes the slot requirement of every node in order, where
// order is a pre-order listing of one tree. Reverse pre-order visits every
// child before its parent, so a single pass suffices and each capacity is
// computed exactly once.
//
//	capacity(n) = max(len(children) or 1, sum(capacity(child)))
//
// Every child needs at least one slot, so for an inner node the sum always
// dominates; the max is kept so a leaf resolves to 1 without a special case.
func capacities(g *Graph, order []string) map[string]int {
	caps := make(map[string]int, len(order))
	for i := len(order) - 1; i >= 0; i-- {
		id := order[i]
		kids := g.Children(id)
		sum := 0
		for _, k := range kids {
			sum += caps[k]
		}
		caps[id] = max(len(kids), 1, sum)
	}
	return caps
}
