// Package pkg provides the core libraries for Treelayout.
//
// # Overview
//
// Treelayout turns a parent/child edge list into plotting coordinates: every
// node gets a depth (x) and a vertical slot (y) so that each tree can be
// drawn as a line chart in a spreadsheet or BI tool without overlapping
// branches. The pkg directory is organized into three areas:
//
//  1. Domain logic ([hierarchy], [export])
//  2. Input and output ([io], [export/sink], [render/nodelink])
//  3. Infrastructure ([pipeline], [cache], [store], [observability], [errors])
//
// # Architecture
//
// The typical data flow:
//
//	CSV / TSV / JSON edge list
//	         ↓
//	    [io] package (read, deduplicate, disambiguate)
//	         ↓
//	    [hierarchy] package (depths → capacities → ranges → clusters)
//	         ↓
//	    [export] package (target/source rows)
//	         ↓
//	    CSV / XLSX / JSON / DOT / SVG output
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/treelayout/pkg/hierarchy"
//	    "github.com/matzehuels/treelayout/pkg/export/sink"
//	)
//
//	forest, _ := hierarchy.Layout([]hierarchy.Edge{
//	    {Child: "A"},
//	    {Child: "B", Parent: "A"},
//	    {Child: "C", Parent: "A"},
//	})
//	data, _ := sink.RenderXLSX(forest.Trees)
//
// # Main Packages
//
// [hierarchy] - The layout engine. Each root is laid out independently and
// in parallel; a failing root (cycle, depth limit, duplicate id) is reported
// in the forest without affecting the others.
//
// [export] - Flattens records into the edge-oriented target/source rows the
// downstream charts expect.
//
// [export/sink] - Output encoders for CSV, JSON and XLSX.
//
// [render/nodelink] - Node-link diagrams via Graphviz, with nodes pinned at
// their computed coordinates.
//
// [io] - Edge list readers and writers, plus duplicate-child
// disambiguation.
//
// [pipeline] - Load → layout → export orchestration with caching, shared by
// the CLI and the HTTP API.
//
// [cache] - Content-addressed caching with file and Redis backends.
//
// [store] - Run persistence for the API, in memory or in MongoDB.
//
// [observability] - Hooks for pipeline, cache and server events.
//
// [errors] - Coded errors and input validation.
//
// # Testing
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/hierarchy/...          # Specific package
//	go test -run Example                 # Examples only
//
// [hierarchy]: https://pkg.go.dev/github.com/matzehuels/treelayout/pkg/hierarchy
// [export]: https://pkg.go.dev/github.com/matzehuels/treelayout/pkg/export
// [export/sink]: https://pkg.go.dev/github.com/matzehuels/treelayout/pkg/export/sink
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/treelayout/pkg/render/nodelink
// [io]: https://pkg.go.dev/github.com/matzehuels/treelayout/pkg/io
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/treelayout/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/treelayout/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/treelayout/pkg/store
// [observability]: https://pkg.go.dev/github.com/matzehuels/treelayout/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/treelayout/pkg/errors
package pkg
