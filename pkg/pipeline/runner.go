package pipeline

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/treelayout/pkg/cache"
	"github.com/matzehuels/treelayout/pkg/errors"
	"github.com/matzehuels/treelayout/pkg/hierarchy"
	"github.com/matzehuels/treelayout/pkg/observability"
	"github.com/matzehuels/treelayout/pkg/store"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for its backends - it doesn't keep
// pipeline results. Multiple goroutines can safely use the same Runner with
// different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Store  store.Store // optional; Execute saves each run when set
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → layout → export pipeline with caching.
//
// Roots that fail to lay out do not fail the run; they are reported in
// Result.Forest.Failures and in Stats.FailureCount.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if opts.RunID == "" {
		opts.RunID = uuid.NewString()
	}

	result := &Result{RunID: opts.RunID}

	// Stage 1: Load
	loadStart := time.Now()
	edges, err := r.Load(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Edges = edges
	result.EdgesHash = cache.HashEdges(edges)
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.EdgeCount = len(edges)

	r.Logger.Info("loaded edges",
		"edges", len(edges),
		"duration", result.Stats.LoadTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	forest, layoutHit, err := r.LayoutWithCacheInfo(ctx, edges, opts)
	if err != nil {
		return nil, err
	}
	result.Forest = forest
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.RootCount = len(forest.Roots)
	result.Stats.TreeCount = len(forest.Trees)
	result.Stats.FailureCount = len(forest.Failures)
	result.Stats.RecordCount = forest.RecordCount()
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"roots", len(forest.Roots),
		"records", result.Stats.RecordCount,
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)
	for _, f := range forest.Failures {
		r.Logger.Warn("root failed", "root", f.Root, "err", f.Err)
	}
	if len(forest.Unreached) > 0 {
		r.Logger.Warn("nodes not reachable from any root", "count", len(forest.Unreached))
	}

	if r.Store != nil {
		if err := r.Store.SaveForest(ctx, opts.RunID, forest); err != nil {
			return nil, err
		}
		r.Logger.Debug("saved run", "run_id", opts.RunID, "trees", len(forest.Trees))
	}

	// Stage 3: Export
	exportStart := time.Now()
	artifacts, exportHit, err := r.ExportWithCacheInfo(ctx, forest, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.ExportTime = time.Since(exportStart)
	result.CacheInfo.ExportHit = exportHit

	r.Logger.Info("exported outputs",
		"formats", opts.Formats,
		"files", len(artifacts),
		"duration", result.Stats.ExportTime)

	return result, nil
}

// Load reads the edge list and fires the load hooks.
func (r *Runner) Load(ctx context.Context, opts Options) ([]hierarchy.Edge, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLoad(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	source := opts.Input
	if opts.Edges != nil {
		source = "request"
	}
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, source)
	start := time.Now()

	edges, err := Load(opts)
	hooks.OnLoadComplete(ctx, source, len(edges), time.Since(start), err)
	return edges, err
}

// LayoutWithCacheInfo lays out every root with caching and returns cache hit info.
//
// Only forests without failed roots are cached, since per-root errors do not
// survive serialization.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, edges []hierarchy.Edge, opts Options) (*hierarchy.Forest, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return nil, false, err
	}

	cacheKey := r.Keyer.LayoutKey(cache.HashEdges(edges), opts.LayoutKeyOpts())
	cacheHooks := observability.Cache()

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var f hierarchy.Forest
			if err := json.Unmarshal(data, &f); err == nil {
				cacheHooks.OnCacheHit(ctx, "layout")
				return &f, true, nil
			}
			// If deserialization fails, fall through to recompute
		} else if err != nil {
			opts.Logger.Warn("cache read failed", "err", err)
		}
		cacheHooks.OnCacheMiss(ctx, "layout")
	}

	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	g, err := hierarchy.NewGraphWithRoots(edges, opts.Roots)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInvalidGraph, err, "index edges")
	}
	if missing := g.Parentless(); len(missing) > 0 {
		opts.Logger.Warn("parents without a root row", "nodes", missing)
	}

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, len(g.Roots()))
	start := time.Now()
	f := hierarchy.LayoutGraph(g, opts.LayoutOptions()...)
	hooks.OnLayoutComplete(ctx, len(f.Trees), len(f.Failures), time.Since(start), f.Err())

	opts.Logger.Debug("indexed graph",
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"roots", len(f.Roots))

	// Cache the result
	if len(f.Failures) == 0 {
		if data, err := json.Marshal(f); err == nil {
			if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout); err != nil {
				opts.Logger.Debug("cache write failed", "err", err)
			} else {
				cacheHooks.OnCacheSet(ctx, "layout", len(data))
			}
		}
	}

	return f, false, nil
}

// Layout is a convenience wrapper that calls LayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) Layout(ctx context.Context, edges []hierarchy.Edge, opts Options) (*hierarchy.Forest, error) {
	f, _, err := r.LayoutWithCacheInfo(ctx, edges, opts)
	return f, err
}

// ExportWithCacheInfo renders every format in opts.Formats with caching and
// reports whether all of them came from cache.
func (r *Runner) ExportWithCacheInfo(ctx context.Context, f *hierarchy.Forest, opts Options) ([]Artifact, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForExport(); err != nil {
		return nil, false, err
	}

	layoutHash, err := forestHash(f)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "hash layout")
	}

	hooks := observability.Pipeline()
	cacheHooks := observability.Cache()
	hooks.OnExportStart(ctx, opts.Formats)
	start := time.Now()

	var artifacts []Artifact
	allCached := true
	for _, format := range opts.Formats {
		if err := ctx.Err(); err != nil {
			hooks.OnExportComplete(ctx, opts.Formats, time.Since(start), err)
			return nil, false, err
		}
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format, ""))

		if !opts.Refresh {
			if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
				var cached []Artifact
				if err := json.Unmarshal(data, &cached); err == nil {
					cacheHooks.OnCacheHit(ctx, "artifact")
					artifacts = append(artifacts, cached...)
					continue
				}
			}
			cacheHooks.OnCacheMiss(ctx, "artifact")
		}
		allCached = false

		arts, err := Export(ctx, f, format, opts)
		if err != nil {
			hooks.OnExportComplete(ctx, opts.Formats, time.Since(start), err)
			return nil, false, err
		}
		if data, err := json.Marshal(arts); err == nil {
			if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact); err == nil {
				cacheHooks.OnCacheSet(ctx, "artifact", len(data))
			}
		}
		artifacts = append(artifacts, arts...)
	}

	hooks.OnExportComplete(ctx, opts.Formats, time.Since(start), nil)
	return artifacts, allCached && len(opts.Formats) > 0, nil
}

// Export is a convenience wrapper that calls ExportWithCacheInfo and discards the cache hit info.
func (r *Runner) Export(ctx context.Context, f *hierarchy.Forest, opts Options) ([]Artifact, error) {
	arts, _, err := r.ExportWithCacheInfo(ctx, f, opts)
	return arts, err
}

// Close releases resources held by the runner's cache and store.
func (r *Runner) Close(ctx context.Context) error {
	var errs []error
	if r.Cache != nil {
		errs = append(errs, r.Cache.Close())
	}
	if r.Store != nil {
		errs = append(errs, r.Store.Close(ctx))
	}
	return stderrors.Join(errs...)
}

// forestHash hashes everything an export depends on, failures included.
func forestHash(f *hierarchy.Forest) (string, error) {
	failures := make([]string, len(f.Failures))
	for i, e := range f.Failures {
		failures[i] = e.Error()
	}
	data, err := json.Marshal(struct {
		Forest   *hierarchy.Forest `json:"forest"`
		Failures []string          `json:"failures"`
	}{f, failures})
	if err != nil {
		return "", err
	}
	return cache.Hash(data), nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
