package cli

import (
	"context"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/treelayout/pkg/errors"
	"github.com/matzehuels/treelayout/pkg/export/sink"
	"github.com/matzehuels/treelayout/pkg/hierarchy"
	"github.com/matzehuels/treelayout/pkg/pipeline"
)

// renderCommand creates the render command for node-link diagrams.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		in       inputFlags
		output   string
		formats  string
		roots    []string
		scale    float64
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "render [edges.csv]",
		Short: "Draw each tree as a node-link diagram",
		Long: `Draw each tree as a node-link diagram at its computed coordinates.

Depth runs left to right and slots top to bottom, matching the line charts
built from the layout files. Output is Graphviz DOT or SVG, one file per root.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.options(cmd, args[0], &in)
			fs, err := parseFormats(formats, []string{sink.FormatSVG})
			if err != nil {
				return err
			}
			for _, f := range fs {
				if sink.IsTabular(f) {
					return errors.New(errors.ErrCodeInvalidFormat, "render writes dot or svg, use layout for %s", f)
				}
			}
			opts.Formats = fs
			if cmd.Flags().Changed("scale") {
				opts.Scale = scale
			}
			if cmd.Flags().Changed("detailed") {
				opts.Detailed = detailed
			}
			if output == "" {
				output = c.Config.Output.Dir
			}
			return c.runRender(cmd.Context(), opts, roots, output, in.noCache)
		},
	}

	in.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output directory (default from config, else .)")
	cmd.Flags().StringVarP(&formats, "format", "f", "", "output formats: dot, svg (comma-separated, default svg)")
	cmd.Flags().StringSliceVarP(&roots, "root", "r", nil, "only render these roots (repeatable)")
	cmd.Flags().Float64Var(&scale, "scale", pipeline.DefaultScale, "inches between neighbouring depths and slots")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "label nodes with depth, range and capacity")

	_ = cmd.RegisterFlagCompletionFunc("format", formatCompletion(renderFormats))

	return cmd
}

func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, roots []string, dir string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close(context.WithoutCancel(ctx))

	forest, cached, err := c.computeForest(ctx, runner, opts)
	if err != nil {
		return err
	}
	forest, err = selectRoots(forest, roots)
	if err != nil {
		return err
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %d trees...", len(forest.Trees)))
	spinner.Start()
	arts, err := runner.Export(ctx, forest, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	paths, err := writeArtifacts(dir, arts)
	if err != nil {
		return err
	}

	printSuccess("Rendered %d trees", len(forest.Trees))
	for _, p := range paths {
		printFile(p)
	}
	printStats(pipeline.Stats{
		TreeCount:    len(forest.Trees),
		FailureCount: len(forest.Failures),
		RecordCount:  forest.RecordCount(),
	}, cached)
	printFailures(forest)
	return nil
}

// computeForest runs the load and layout stages with a spinner.
func (c *CLI) computeForest(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options) (*hierarchy.Forest, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()

	edges, err := runner.Load(ctx, opts)
	if err != nil {
		spinner.StopWithError("Load failed")
		return nil, false, err
	}
	spinner.SetMessage(fmt.Sprintf("Laying out %d edges...", len(edges)))

	forest, cached, err := runner.LayoutWithCacheInfo(ctx, edges, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return nil, false, err
	}
	spinner.Stop()
	return forest, cached, ctx.Err()
}

// selectRoots narrows f to the named roots, keeping forest order. An empty
// selection keeps everything.
func selectRoots(f *hierarchy.Forest, roots []string) (*hierarchy.Forest, error) {
	if len(roots) == 0 {
		return f, nil
	}
	for _, r := range roots {
		if !slices.Contains(f.Roots, r) {
			return nil, errors.New(errors.ErrCodeNotFound, "no root %q", r)
		}
	}

	out := &hierarchy.Forest{Unreached: f.Unreached}
	for _, r := range f.Roots {
		if !slices.Contains(roots, r) {
			continue
		}
		out.Roots = append(out.Roots, r)
		if t, ok := f.Tree(r); ok {
			out.Trees = append(out.Trees, t)
		}
	}
	for _, e := range f.Failures {
		if slices.Contains(roots, e.Root) {
			out.Failures = append(out.Failures, e)
		}
	}
	return out, nil
}
