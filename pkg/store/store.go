// Package store persists finished layouts so they can be fetched later by
// run id and root.
//
// A run is one execution of the pipeline over an edge list. Each successful
// tree of the run is stored as its own document keyed by (run id, root).
// Failed roots are not stored.
//
// [MongoStore] is the production backend. [MemoryStore] keeps everything in
// process and is used by tests and by the API server when no database is
// configured.
package store

import (
	"context"
	"time"

	"github.com/matzehuels/treelayout/pkg/hierarchy"
)

// Store saves and loads tree layouts.
type Store interface {
	// SaveForest stores every successful tree of f under runID.
	SaveForest(ctx context.Context, runID string, f *hierarchy.Forest) error
	// LoadTree returns the tree for root in runID. A missing run or root is
	// reported with the NOT_FOUND code from pkg/errors.
	LoadTree(ctx context.Context, runID, root string) (*hierarchy.Tree, error)
	// Roots lists the stored roots of runID in the order they were saved.
	Roots(ctx context.Context, runID string) ([]string, error)
	// Close releases backend resources.
	Close(ctx context.Context) error
}

// TreeDocument is the persisted form of one tree.
type TreeDocument struct {
	RunID     string             `bson:"run_id" json:"run_id"`
	Root      string             `bson:"root" json:"root"`
	Position  int                `bson:"position" json:"position"` // index among the run's trees
	Span      int                `bson:"span" json:"span"`
	Records   []hierarchy.Record `bson:"records" json:"records"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// Tree converts the document back into a layout.
func (d *TreeDocument) Tree() *hierarchy.Tree {
	return &hierarchy.Tree{Root: d.Root, Span: d.Span, Records: d.Records}
}

// documents builds one document per successful tree of f.
func documents(runID string, f *hierarchy.Forest, now time.Time) []TreeDocument {
	docs := make([]TreeDocument, len(f.Trees))
	for i, t := range f.Trees {
		docs[i] = TreeDocument{
			RunID:     runID,
			Root:      t.Root,
			Position:  i,
			Span:      t.Span,
			Records:   t.Records,
			CreatedAt: now,
		}
	}
	return docs
}
