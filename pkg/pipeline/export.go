package pipeline

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/treelayout/pkg/buildinfo"
	"github.com/matzehuels/treelayout/pkg/errors"
	"github.com/matzehuels/treelayout/pkg/export"
	"github.com/matzehuels/treelayout/pkg/export/sink"
	"github.com/matzehuels/treelayout/pkg/hierarchy"
	"github.com/matzehuels/treelayout/pkg/render/nodelink"
)

// Artifact is one exported file.
type Artifact struct {
	Name   string // file name, unique within a run
	Format string
	Root   string // empty for whole-forest artifacts
	Data   []byte
}

// ForestName is the base name of whole-forest artifacts.
const ForestName = "forest"

// ArtifactName returns the file name for root's artifact in format, in the
// original_node_<root>_data_set.<ext> form of the upstream reports. An
// empty root names a whole-forest artifact.
func ArtifactName(root, format string) string {
	if root == "" {
		return ForestName + "." + format
	}
	return fmt.Sprintf("original_node_%s_data_set.%s", fileSafe(root), format)
}

// fileSafe replaces characters that are unsafe in file names.
func fileSafe(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_' || r == '.':
			return r
		}
		return '_'
	}, s)
}

// Export renders f in one format.
//
// JSON is always one document for the whole forest. CSV and XLSX produce
// one file per successful tree, or a single file when opts.Combine is set.
// DOT and SVG always produce one diagram per tree. Failed roots produce no
// files. Per-tree files are rendered concurrently with opts.Workers.
func Export(ctx context.Context, f *hierarchy.Forest, format string, opts Options) ([]Artifact, error) {
	if err := sink.ValidateFormat(format); err != nil {
		return nil, err
	}
	opts.SetExportDefaults()

	var (
		arts []Artifact
		err  error
	)
	switch {
	case format == sink.FormatJSON:
		arts, err = exportForest(format, func() ([]byte, error) {
			jopts := []sink.JSONOption{sink.WithJSONVersion(buildinfo.Version)}
			if opts.RunID != "" {
				jopts = append(jopts, sink.WithJSONRunID(opts.RunID))
			}
			if opts.Detailed {
				jopts = append(jopts, sink.WithJSONRecords())
			}
			return sink.RenderJSON(f, jopts...)
		})
	case opts.Combine && format == sink.FormatCSV:
		arts, err = exportForest(format, func() ([]byte, error) {
			return sink.RenderCSV(export.FlattenForest(f))
		})
	case opts.Combine && format == sink.FormatXLSX:
		arts, err = exportForest(format, func() ([]byte, error) {
			return sink.RenderXLSX(f.Trees)
		})
	default:
		arts, err = exportTrees(ctx, f.Trees, format, opts.Workers, treeRenderer(format, opts))
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "export %s", format)
	}
	return arts, nil
}

func exportForest(format string, render func() ([]byte, error)) ([]Artifact, error) {
	data, err := render()
	if err != nil {
		return nil, err
	}
	return []Artifact{{Name: ArtifactName("", format), Format: format, Data: data}}, nil
}

type treeRenderFunc func(context.Context, *hierarchy.Tree) ([]byte, error)

func treeRenderer(format string, opts Options) treeRenderFunc {
	dotOpts := nodelink.Options{Scale: opts.Scale, Detailed: opts.Detailed}
	switch format {
	case sink.FormatCSV:
		return func(_ context.Context, t *hierarchy.Tree) ([]byte, error) { return sink.RenderCSV(export.Flatten(t)) }
	case sink.FormatXLSX:
		return func(_ context.Context, t *hierarchy.Tree) ([]byte, error) { return sink.RenderXLSX([]*hierarchy.Tree{t}) }
	case sink.FormatDOT:
		return func(_ context.Context, t *hierarchy.Tree) ([]byte, error) { return []byte(nodelink.ToDOT(t, dotOpts)), nil }
	default:
		return func(ctx context.Context, t *hierarchy.Tree) ([]byte, error) {
			return nodelink.RenderSVG(ctx, nodelink.ToDOT(t, dotOpts))
		}
	}
}

// exportTrees renders one artifact per tree in tree order. Names that
// collide after cleaning get a numeric suffix.
func exportTrees(ctx context.Context, trees []*hierarchy.Tree, format string, workers int, render treeRenderFunc) ([]Artifact, error) {
	arts := make([]Artifact, len(trees))
	used := make(map[string]int, len(trees))
	for i, t := range trees {
		name := ArtifactName(t.Root, format)
		if n := used[name]; n > 0 {
			used[name]++
			name = strings.TrimSuffix(name, "."+format) + fmt.Sprintf("_%d.%s", n+1, format)
		} else {
			used[name] = 1
		}
		arts[i] = Artifact{Name: name, Format: format, Root: t.Root}
	}

	eg, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		eg.SetLimit(workers)
	}
	for i, t := range trees {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := render(ctx, t)
			if err != nil {
				return fmt.Errorf("root %q: %w", t.Root, err)
			}
			arts[i].Data = data
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return arts, nil
}
