package pipeline

import (
	stderrors "errors"
	"io/fs"

	"github.com/matzehuels/treelayout/pkg/errors"
	"github.com/matzehuels/treelayout/pkg/hierarchy"
	edgeio "github.com/matzehuels/treelayout/pkg/io"
)

// Load reads the edge list named by opts. In-memory edges take precedence
// over opts.Input. When opts.Disambiguate is set, repeated child ids are
// renamed with [edgeio.Disambiguate].
func Load(opts Options) ([]hierarchy.Edge, error) {
	opts.setLogger()

	var edges []hierarchy.Edge
	if opts.Edges != nil {
		edges = uniqueEdges(opts.Edges)
	} else {
		var err error
		edges, err = edgeio.ImportEdges(opts.Input, opts.ReadOptions())
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read edges")
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read edges")
		}
	}
	if len(edges) == 0 {
		return nil, errors.Wrap(errors.ErrCodeInvalidGraph, hierarchy.ErrEmptyGraph, "read edges")
	}

	if opts.Disambiguate {
		edges = edgeio.Disambiguate(edges)
		opts.Logger.Debug("disambiguated edges", "edges", len(edges))
	}
	return edges, nil
}

// uniqueEdges drops exact duplicate rows, keeping the first occurrence. The
// file readers already do this.
func uniqueEdges(edges []hierarchy.Edge) []hierarchy.Edge {
	seen := make(map[hierarchy.Edge]struct{}, len(edges))
	out := make([]hierarchy.Edge, 0, len(edges))
	for _, e := range edges {
		if _, dup := seen[e]; dup {
			continue
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}
	return out
}
