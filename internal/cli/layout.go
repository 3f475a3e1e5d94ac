package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/treelayout/pkg/errors"
	"github.com/matzehuels/treelayout/pkg/export/sink"
	edgeio "github.com/matzehuels/treelayout/pkg/io"
	"github.com/matzehuels/treelayout/pkg/pipeline"
)

// layoutCommand creates the layout command for computing plot coordinates.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		in       inputFlags
		output   string
		formats  string
		combine  bool
		edgesOut string
	)

	cmd := &cobra.Command{
		Use:   "layout [edges.csv]",
		Short: "Compute plotting coordinates for every root in an edge list",
		Long: `Compute plotting coordinates for every root in an edge list.

The input is a CSV/TSV file with a child and a parent column (start_point and
end_point by default) or a JSON array of {"child", "parent"} objects. Rows
with an empty parent start a new tree.

Use --edges-out to keep the edge list as it was laid out, after duplicate
rows are dropped and, with --disambiguate, shared children are renamed.

One file is written per root and format, named
original_node_<root>_data_set.<ext>. With --combine, csv and xlsx output is
written as a single forest file instead.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.options(cmd, args[0], &in)
			if cmd.Flags().Changed("combine") {
				opts.Combine = combine
			}
			fs, err := parseFormats(formats, opts.Formats)
			if err != nil {
				return err
			}
			opts.Formats = fs
			if output == "" {
				output = c.Config.Output.Dir
			}
			return c.runLayout(cmd.Context(), opts, output, edgesOut, in.noCache)
		},
	}

	in.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output directory (default from config, else .)")
	cmd.Flags().StringVarP(&formats, "format", "f", "", "output formats: csv, xlsx, json, dot, svg (comma-separated, default xlsx)")
	cmd.Flags().BoolVar(&combine, "combine", false, "write one csv/xlsx file for the whole forest")
	cmd.Flags().StringVar(&edgesOut, "edges-out", "", "also write the cleaned edge list (.json, else delimited like the input)")

	_ = cmd.RegisterFlagCompletionFunc("format", formatCompletion(sink.Formats))

	return cmd
}

// runLayout executes the pipeline and writes every artifact to dir.
func (c *CLI) runLayout(ctx context.Context, opts pipeline.Options, dir, edgesOut string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close(context.WithoutCancel(ctx))

	stage := startStage(c.Logger)
	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	paths, err := writeArtifacts(dir, result.Artifacts)
	if err != nil {
		return err
	}
	if edgesOut != "" {
		// Execute validated its own copy of opts.
		if err := opts.ValidateForLoad(); err != nil {
			return err
		}
		if err := edgeio.ExportEdges(result.Edges, edgesOut, opts.ReadOptions()); err != nil {
			return err
		}
		paths = append(paths, edgesOut)
	}
	stage.done("layout finished", "trees", result.Stats.TreeCount, "failed", result.Stats.FailureCount)

	printSuccess("Layout complete")
	for _, p := range paths {
		printFile(p)
	}
	printStats(result.Stats, result.CacheInfo.LayoutHit)
	printFailures(result.Forest)
	printNewline()
	printNextStep("Browse", appName+" browse "+opts.Input)

	return nil
}

// writeArtifacts writes each artifact into dir, creating it if needed, and
// returns the written paths.
func writeArtifacts(dir string, arts []pipeline.Artifact) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "create output dir")
	}
	paths := make([]string, 0, len(arts))
	for _, a := range arts {
		// Names never leave dir.
		if strings.ContainsAny(a.Name, `/\`) {
			return nil, errors.New(errors.ErrCodeInternal, "artifact name %q contains a path separator", a.Name)
		}
		p := filepath.Join(dir, a.Name)
		if err := os.WriteFile(p, a.Data, 0o644); err != nil {
			return nil, fmt.Errorf("write output %s: %w", p, err)
		}
		paths = append(paths, p)
	}
	return paths, nil
}
