package hierarchy

import "slices"

// Range is a closed interval of vertical slots.
type Range struct {
	Min, Max int
}

// Width returns the number of slots in r.
func (r Range) Width() int { return r.Max - r.Min + 1 }

// Mid returns the y coordinate for r: whole when the width is odd, .5 when
// it is even.
func (r Range) Mid() float64 { return float64(r.Min+r.Max) / 2 }

// allocate assigns every node under root a slot range. The root owns
// [1, caps[root]]; each child, in branch order, takes the next caps[child]
// slots of its parent's range.
//
// If a child needs more slots than remain, allocate fails with
// [CapacityOverflowError] rather than handing out a short range. With
// capacities from [capacities] this cannot happen.
func allocate(g *Graph, root string, caps map[string]int) (map[string]Range, error) {
	type span struct {
		id string
		r  Range
	}

	ranges := make(map[string]Range, len(caps))
	stack := []span{{id: root, r: Range{Min: 1, Max: caps[root]}}}
	var pending []span

	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		ranges[s.id] = s.r

		pending = pending[:0]
		cursor := s.r.Min
		for _, child := range g.Children(s.id) {
			need := caps[child]
			if remaining := s.r.Max - cursor + 1; need > remaining {
				return nil, &CapacityOverflowError{Node: child, Parent: s.id, Needed: need, Remaining: remaining}
			}
			pending = append(pending, span{id: child, r: Range{Min: cursor, Max: cursor + need - 1}})
			cursor += need
		}
		// Reverse so the first child is popped first.
		for _, p := range slices.Backward(pending) {
			stack = append(stack, p)
		}
	}
	return ranges, nil
}
