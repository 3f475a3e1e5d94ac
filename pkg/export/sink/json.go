package sink

import (
	"encoding/json"

	"github.com/matzehuels/treelayout/pkg/export"
	"github.com/matzehuels/treelayout/pkg/hierarchy"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	runID   string
	version string
	records bool
}

// WithJSONRunID records the run id, so the document can be matched with
// the trees persisted by the store.
func WithJSONRunID(id string) JSONOption { return func(r *jsonRenderer) { r.runID = id } }

// WithJSONVersion records the version of the tool that produced the layout.
func WithJSONVersion(v string) JSONOption { return func(r *jsonRenderer) { r.version = v } }

// WithJSONRecords includes the raw layout records (ranges and cluster lists)
// next to the flattened rows.
func WithJSONRecords() JSONOption { return func(r *jsonRenderer) { r.records = true } }

type jsonOutput struct {
	RunID     string        `json:"run_id,omitempty"`
	Version   string        `json:"version,omitempty"`
	Roots     []string      `json:"roots"`
	Trees     []jsonTree    `json:"trees"`
	Failures  []jsonFailure `json:"failures,omitempty"`
	Unreached []string      `json:"unreached,omitempty"`
}

type jsonTree struct {
	Root    string             `json:"root"`
	Span    int                `json:"span"`
	Rows    []export.Row       `json:"rows"`
	Records []hierarchy.Record `json:"records,omitempty"`
}

type jsonFailure struct {
	Root  string `json:"root"`
	Error string `json:"error"`
}

// RenderJSON exports a forest as a pretty-printed JSON document with one
// entry per successful tree and one per failed root.
//
// RenderJSON returns an error only if JSON marshaling fails.
func RenderJSON(f *hierarchy.Forest, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		RunID:     r.runID,
		Version:   r.version,
		Roots:     f.Roots,
		Trees:     make([]jsonTree, 0, len(f.Trees)),
		Unreached: f.Unreached,
	}
	if out.Roots == nil {
		out.Roots = []string{}
	}
	for _, t := range f.Trees {
		jt := jsonTree{Root: t.Root, Span: t.Span, Rows: export.Flatten(t)}
		if r.records {
			jt.Records = t.Records
		}
		out.Trees = append(out.Trees, jt)
	}
	for _, fe := range f.Failures {
		out.Failures = append(out.Failures, jsonFailure{Root: fe.Root, Error: fe.Err.Error()})
	}

	return json.MarshalIndent(out, "", "  ")
}
