package hierarchy

import (
	"errors"
	"slices"

	"golang.org/x/sync/errgroup"
)

// Option configures [Layout] and [LayoutTree].
type Option func(*config)

type config struct {
	maxDepth int
	workers  int
	roots    []string
}

// WithMaxDepth rejects trees deeper than n with [DepthLimitError]. Zero or a
// negative n disables the limit.
func WithMaxDepth(n int) Option { return func(c *config) { c.maxDepth = n } }

// WithWorkers lays out up to n roots concurrently. Values below 2 keep the
// work on the calling goroutine. Output does not depend on n.
func WithWorkers(n int) Option { return func(c *config) { c.workers = n } }

// WithRoots lays out ids as roots even though no edge declares them, see
// [NewGraphWithRoots]. It only affects [Layout]; an indexed graph already
// has its roots fixed.
func WithRoots(ids ...string) Option { return func(c *config) { c.roots = append(c.roots, ids...) } }

func newConfig(opts []Option) config {
	var c config
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Forest is the layout of every root in an edge list.
type Forest struct {
	// Roots lists every root in input order, failed ones included.
	Roots []string `json:"roots"`
	// Trees holds the successful layouts in root order.
	Trees []*Tree `json:"trees"`
	// Failures holds one error per failed root, in root order.
	Failures []*RootError `json:"-"`
	// Unreached lists nodes that belong to no root's tree, sorted.
	Unreached []string `json:"unreached,omitempty"`
}

// Tree returns the layout for root, or nil and false if root is unknown or
// failed.
func (f *Forest) Tree(root string) (*Tree, bool) {
	for _, t := range f.Trees {
		if t.Root == root {
			return t, true
		}
	}
	return nil, false
}

// Records returns the records of every successful tree keyed by root.
func (f *Forest) Records() map[string][]Record {
	out := make(map[string][]Record, len(f.Trees))
	for _, t := range f.Trees {
		out[t.Root] = t.Records
	}
	return out
}

// RecordCount returns the number of records across all trees.
func (f *Forest) RecordCount() int {
	n := 0
	for _, t := range f.Trees {
		n += len(t.Records)
	}
	return n
}

// Err joins every per-root failure, or returns nil if all roots succeeded.
func (f *Forest) Err() error {
	errs := make([]error, len(f.Failures))
	for i, e := range f.Failures {
		errs[i] = e
	}
	return errors.Join(errs...)
}

// Layout indexes edges and lays out every root.
//
// Layout returns an error only if the edges cannot be indexed (see
// [NewGraphWithRoots]). A root whose tree is invalid is recorded in
// [Forest.Failures] and produces no records; the other roots are unaffected.
func Layout(edges []Edge, opts ...Option) (*Forest, error) {
	g, err := NewGraphWithRoots(edges, newConfig(opts).roots)
	if err != nil {
		return nil, err
	}
	return LayoutGraph(g, opts...), nil
}

// LayoutGraph lays out every root of an indexed graph.
func LayoutGraph(g *Graph, opts ...Option) *Forest {
	cfg := newConfig(opts)
	roots := slices.Clone(g.Roots())

	trees := make([]*Tree, len(roots))
	errs := make([]error, len(roots))

	if cfg.workers < 2 {
		for i, root := range roots {
			trees[i], errs[i] = layoutTree(g, root, cfg)
		}
	} else {
		var eg errgroup.Group
		eg.SetLimit(cfg.workers)
		for i, root := range roots {
			eg.Go(func() error {
				trees[i], errs[i] = layoutTree(g, root, cfg)
				return nil
			})
		}
		_ = eg.Wait() // failures are kept per root
	}

	f := &Forest{Roots: roots, Unreached: g.Unreached()}
	for i, root := range roots {
		if errs[i] != nil {
			f.Failures = append(f.Failures, &RootError{Root: root, Err: errs[i]})
			continue
		}
		f.Trees = append(f.Trees, trees[i])
	}
	return f
}

// LayoutTree lays out the single tree under root. Any node of g can be
// given, not only one of its roots.
func LayoutTree(g *Graph, root string, opts ...Option) (*Tree, error) {
	return layoutTree(g, root, newConfig(opts))
}

func layoutTree(g *Graph, root string, cfg config) (*Tree, error) {
	records, err := assignDepths(g, root, cfg.maxDepth)
	if err != nil {
		return nil, err
	}

	order := make([]string, len(records))
	for i, r := range records {
		order[i] = r.Node
	}
	caps := capacities(g, order)

	ranges, err := allocate(g, root, caps)
	if err != nil {
		return nil, err
	}

	for i := range records {
		r := &records[i]
		rng := ranges[r.Node]
		r.MaxDownstreamClusterSize = caps[r.Node]
		r.RangeMin, r.RangeMax = rng.Min, rng.Max
		r.YCord = rng.Mid()
	}
	joinClusters(g, records)

	return &Tree{Root: root, Span: caps[root], Records: records}, nil
}
