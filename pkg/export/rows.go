// Package export flattens tree layouts into edge-oriented rows for
// spreadsheets and BI tools.
//
// Every node with a parent yields two rows: a "target" row placed at the
// parent's coordinates and a "source" row placed at its own. Drawing a line
// through the pair of rows that share a node id draws the edge. Roots yield
// a single source row.
//
// Records are ordered by (x, y, target, node) before flattening. The layout
// core emits records in walk order; sorting happens here, after y is final.
package export

import (
	"cmp"
	"slices"
	"strconv"

	"github.com/matzehuels/treelayout/pkg/hierarchy"
)

// Node types.
const (
	TypeTarget = "target"
	TypeSource = "source"
)

// Columns lists the row fields in output order.
var Columns = []string{
	"original_node",
	"node",
	"target",
	"x_cord",
	"y_cord",
	"branch_order",
	"node_cluster_count",
	"next_cluster_count",
	"prior_cluster_count",
	"max_downstream_cluster_size",
	"overall_max_cluster_size",
	"node_type",
}

// Row is one flattened output row.
type Row struct {
	OriginalNode             string  `json:"original_node"` // root of the tree
	Node                     string  `json:"node"`
	Target                   string  `json:"target"`
	XCord                    int     `json:"x_cord"`
	YCord                    float64 `json:"y_cord"`
	BranchOrder              int     `json:"branch_order"`
	NodeClusterCount         int     `json:"node_cluster_count"`
	NextClusterCount         int     `json:"next_cluster_count"`
	PriorClusterCount        int     `json:"prior_cluster_count"`
	MaxDownstreamClusterSize int     `json:"max_downstream_cluster_size"`
	OverallMaxClusterSize    int     `json:"overall_max_cluster_size"`
	NodeType                 string  `json:"node_type"`
}

// Strings returns the row formatted in [Columns] order. Y is written with
// the shortest representation that round-trips, so 2 prints as "2" and 1.5
// as "1.5".
func (r Row) Strings() []string {
	return []string{
		r.OriginalNode,
		r.Node,
		r.Target,
		strconv.Itoa(r.XCord),
		strconv.FormatFloat(r.YCord, 'f', -1, 64),
		strconv.Itoa(r.BranchOrder),
		strconv.Itoa(r.NodeClusterCount),
		strconv.Itoa(r.NextClusterCount),
		strconv.Itoa(r.PriorClusterCount),
		strconv.Itoa(r.MaxDownstreamClusterSize),
		strconv.Itoa(r.OverallMaxClusterSize),
		r.NodeType,
	}
}

// Values returns the row in [Columns] order with numbers kept numeric, for
// sinks that store typed cells.
func (r Row) Values() []any {
	return []any{
		r.OriginalNode,
		r.Node,
		r.Target,
		r.XCord,
		r.YCord,
		r.BranchOrder,
		r.NodeClusterCount,
		r.NextClusterCount,
		r.PriorClusterCount,
		r.MaxDownstreamClusterSize,
		r.OverallMaxClusterSize,
		r.NodeType,
	}
}

// Sorted returns a copy of the tree's records ordered by x, then y, then
// target, then node.
func Sorted(t *hierarchy.Tree) []hierarchy.Record {
	recs := slices.Clone(t.Records)
	slices.SortStableFunc(recs, func(a, b hierarchy.Record) int {
		return cmp.Or(
			cmp.Compare(a.XCord, b.XCord),
			cmp.Compare(a.YCord, b.YCord),
			cmp.Compare(a.Target, b.Target),
			cmp.Compare(a.Node, b.Node),
		)
	})
	return recs
}

// Flatten converts one tree into rows: all target rows first, then all
// source rows, each group in [Sorted] order.
func Flatten(t *hierarchy.Tree) []Row {
	recs := Sorted(t)

	coords := make(map[string]hierarchy.Record, len(recs))
	for _, r := range recs {
		coords[r.Node] = r
	}

	rows := make([]Row, 0, 2*len(recs))
	for _, r := range recs {
		if r.IsRoot() {
			continue
		}
		p, ok := coords[r.Target]
		if !ok {
			continue
		}
		row := newRow(t, r)
		row.XCord, row.YCord = p.XCord, p.YCord
		row.NodeType = TypeTarget
		rows = append(rows, row)
	}
	for _, r := range recs {
		row := newRow(t, r)
		row.NodeType = TypeSource
		rows = append(rows, row)
	}
	return rows
}

// FlattenForest flattens every successful tree, in root order.
func FlattenForest(f *hierarchy.Forest) []Row {
	var rows []Row
	for _, t := range f.Trees {
		rows = append(rows, Flatten(t)...)
	}
	return rows
}

func newRow(t *hierarchy.Tree, r hierarchy.Record) Row {
	return Row{
		OriginalNode:             t.Root,
		Node:                     r.Node,
		Target:                   r.Target,
		XCord:                    r.XCord,
		YCord:                    r.YCord,
		BranchOrder:              r.BranchOrder,
		NodeClusterCount:         r.NodeClusterCount,
		NextClusterCount:         r.NextClusterCount,
		PriorClusterCount:        r.PriorClusterCount,
		MaxDownstreamClusterSize: r.MaxDownstreamClusterSize,
		OverallMaxClusterSize:    t.Span,
	}
}
