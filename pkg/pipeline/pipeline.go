// Package pipeline provides the load → layout → export pipeline for treelayout.
//
// The CLI and the API server both drive this package, so an edge list gets
// the same defaults, cache keys and output files no matter where it comes
// from.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Read an edge list from a CSV/TSV/JSON file or take it in memory
//  2. Layout: Compute depth, slot range and coordinates for every root
//  3. Export: Write the flattened rows or diagrams (CSV, XLSX, JSON, DOT, SVG)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Input:   "edges.csv",
//	    Formats: []string{"xlsx"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, a := range result.Artifacts {
//	    os.WriteFile(a.Name, a.Data, 0o644)
//	}
//
// Run individual stages:
//
//	edges, err := runner.Load(ctx, opts)
//	forest, err := runner.Layout(ctx, edges, opts)
//	artifacts, err := pipeline.Export(ctx, forest, "csv", opts)
package pipeline

import (
	"io"
	"runtime"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/treelayout/pkg/cache"
	"github.com/matzehuels/treelayout/pkg/errors"
	"github.com/matzehuels/treelayout/pkg/export/sink"
	"github.com/matzehuels/treelayout/pkg/hierarchy"
	edgeio "github.com/matzehuels/treelayout/pkg/io"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultDelimiter separates fields in delimited edge files.
	DefaultDelimiter = ","

	// DefaultMaxDepth disables the depth limit. Recursion-free traversal
	// makes deep chains safe, so the limit is opt-in.
	DefaultMaxDepth = 0

	// DefaultScale is the diagram scale in inches per unit.
	DefaultScale = 1.5
)

// DefaultFormats matches the one-workbook-per-root output of the upstream
// reports.
var DefaultFormats = []string{sink.FormatXLSX}

// DefaultWorkers is the number of roots laid out concurrently.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the layout pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Load options
	Input        string           `json:"input,omitempty"` // edge file path
	Edges        []hierarchy.Edge `json:"edges,omitempty"` // used instead of Input when set
	Delimiter    string           `json:"delimiter,omitempty"`
	ChildColumn  string           `json:"child_column,omitempty"`
	ParentColumn string           `json:"parent_column,omitempty"`
	Disambiguate bool             `json:"disambiguate,omitempty"`

	// Layout options
	MaxDepth int      `json:"max_depth,omitempty"`
	Workers  int      `json:"workers,omitempty"`
	Refresh  bool     `json:"refresh,omitempty"`
	Roots    []string `json:"roots,omitempty"` // forced roots for edges without root rows

	// Export options
	Formats  []string `json:"formats,omitempty"`
	Combine  bool     `json:"combine,omitempty"` // one csv/xlsx for the whole forest
	Scale    float64  `json:"scale,omitempty"`
	Detailed bool     `json:"detailed,omitempty"`
	RunID    string   `json:"run_id,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies the run in the store and in JSON exports.
	RunID string

	// Edges is the loaded edge list after deduplication and, when enabled,
	// disambiguation.
	Edges []hierarchy.Edge

	// EdgesHash is the content hash of the loaded edge list.
	EdgesHash string

	// Forest is the computed layout.
	Forest *hierarchy.Forest

	// Artifacts contains the exported files in format order.
	Artifacts []Artifact

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	EdgeCount    int
	RootCount    int
	TreeCount    int
	FailureCount int
	RecordCount  int
	LoadTime     time.Duration
	LayoutTime   time.Duration
	ExportTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the forest came from cache
	ExportHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := sink.ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ParseDelimiter converts a delimiter option into a rune. "tab" and `\t`
// select a tab; anything else must be a single character.
func ParseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return ',', nil
	case "tab", `\t`, "\t":
		return '\t', nil
	}
	r, size := utf8.DecodeRuneInString(s)
	if size != len(s) || r == utf8.RuneError || r == '"' || r == '\r' || r == '\n' {
		return 0, errors.New(errors.ErrCodeInvalidInput, "invalid delimiter %q", s)
	}
	return r, nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForExport(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks the input source and column options.
func (o *Options) ValidateForLoad() error {
	if o.Input == "" && o.Edges == nil {
		return errors.New(errors.ErrCodeInvalidInput, "input file or edges required")
	}
	if o.Delimiter == "" {
		o.Delimiter = DefaultDelimiter
	}
	if _, err := ParseDelimiter(o.Delimiter); err != nil {
		return err
	}
	if o.ChildColumn == "" {
		o.ChildColumn = edgeio.DefaultChildColumn
	}
	if o.ParentColumn == "" {
		o.ParentColumn = edgeio.DefaultParentColumn
	}
	if err := errors.ValidateColumnName(o.ChildColumn); err != nil {
		return err
	}
	if err := errors.ValidateColumnName(o.ParentColumn); err != nil {
		return err
	}
	if o.ChildColumn == o.ParentColumn {
		return errors.New(errors.ErrCodeInvalidInput, "child and parent column are both %q", o.ChildColumn)
	}
	o.setLogger()
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.MaxDepth < 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	if o.Workers <= 0 {
		o.Workers = DefaultWorkers
	}
	o.setLogger()
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	return nil
}

// SetExportDefaults sets default values for exporting.
func (o *Options) SetExportDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = DefaultFormats
	}
	if o.Scale <= 0 {
		o.Scale = DefaultScale
	}
	o.setLogger()
}

// ValidateForExport validates and sets defaults for exporting.
func (o *Options) ValidateForExport() error {
	o.SetExportDefaults()
	if o.RunID != "" {
		if err := errors.ValidateRunID(o.RunID); err != nil {
			return err
		}
	}
	return ValidateFormats(o.Formats)
}

func (o *Options) setLogger() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ReadOptions returns the reader configuration for delimited input.
// Call after ValidateForLoad.
func (o *Options) ReadOptions() edgeio.ReadOptions {
	d, _ := ParseDelimiter(o.Delimiter)
	return edgeio.ReadOptions{
		Delimiter:    d,
		ChildColumn:  o.ChildColumn,
		ParentColumn: o.ParentColumn,
	}
}

// LayoutOptions returns the core layout options.
func (o *Options) LayoutOptions() []hierarchy.Option {
	return []hierarchy.Option{
		hierarchy.WithMaxDepth(o.MaxDepth),
		hierarchy.WithWorkers(o.Workers),
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		MaxDepth:     o.MaxDepth,
		Disambiguate: o.Disambiguate,
		Roots:        o.Roots,
	}
}

// ArtifactKeyOpts returns cache key options for one artifact.
func (o *Options) ArtifactKeyOpts(format, root string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format, Root: root}
	if format == sink.FormatCSV || format == sink.FormatXLSX {
		k.Combine = o.Combine
	}
	switch format {
	case sink.FormatDOT, sink.FormatSVG:
		k.Scale = o.Scale
		k.Detailed = o.Detailed
	case sink.FormatJSON:
		k.Detailed = o.Detailed
		k.RunID = o.RunID
	}
	return k
}
