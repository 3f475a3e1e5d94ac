package hierarchy

// Record is the layout of one node. Fields are filled stage by stage and
// the record is read-only once it leaves [LayoutTree].
type Record struct {
	Node   string `json:"node"`
	Target string `json:"target,omitempty"` // parent id, "" for the root

	XCord int     `json:"x_cord"` // depth from the root
	YCord float64 `json:"y_cord"` // midpoint of [RangeMin, RangeMax]

	// BranchOrder is the 1-indexed position among siblings in input order.
	BranchOrder int `json:"branch_order"`
	// NodeClusterCount is the size of the sibling group, NodeClusterList its
	// members in branch order. The root is a group of one.
	NodeClusterCount int      `json:"node_cluster_count"`
	NodeClusterList  []string `json:"node_cluster_list"`

	// MaxDownstreamClusterSize is the number of vertical slots the subtree
	// rooted here occupies.
	MaxDownstreamClusterSize int `json:"max_downstream_cluster_size"`
	RangeMin                 int `json:"range_min"`
	RangeMax                 int `json:"range_max"`

	NextClusterCount  int `json:"next_cluster_count"`  // own children, or 1 for a leaf
	PriorClusterCount int `json:"prior_cluster_count"` // same as NodeClusterCount
}

// IsRoot reports whether the record belongs to a tree's root.
func (r Record) IsRoot() bool { return r.Target == "" }

// Width returns the number of slots in the allocated range.
func (r Record) Width() int { return r.RangeMax - r.RangeMin + 1 }

// Tree is the finished layout of one root.
type Tree struct {
	Root string `json:"root"`
	// Span is the root's capacity, which is also the total height of the
	// tree in slots.
	Span    int      `json:"span"`
	Records []Record `json:"records"` // pre-order, root first
}

// Record returns the record for id and true, or the zero value and false.
func (t *Tree) Record(id string) (Record, bool) {
	for _, r := range t.Records {
		if r.Node == id {
			return r, true
		}
	}
	return Record{}, false
}

// Depth returns the largest XCord in the tree.
func (t *Tree) Depth() int {
	d := 0
	for _, r := range t.Records {
		d = max(d, r.XCord)
	}
	return d
}
