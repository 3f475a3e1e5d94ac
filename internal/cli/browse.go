package cli

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/treelayout/pkg/pipeline"
)

// browseCommand creates the browse command for interactive inspection.
func (c *CLI) browseCommand() *cobra.Command {
	var in inputFlags

	cmd := &cobra.Command{
		Use:   "browse [edges.csv]",
		Short: "Explore the computed trees in the terminal",
		Long: `Explore the computed trees in the terminal.

Lists every root with its span, depth and record count, failed roots
included. Select a root to page through its records with their coordinates,
slot ranges and sibling groups.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBrowse(cmd.Context(), c.options(cmd, args[0], &in), in.noCache)
		},
	}

	in.register(cmd)
	return cmd
}

func (c *CLI) runBrowse(ctx context.Context, opts pipeline.Options, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close(context.WithoutCancel(ctx))

	// The TUI owns the terminal; keep pipeline logs out of it.
	opts.Logger = log.New(io.Discard)

	forest, _, err := c.computeForest(ctx, runner, opts)
	if err != nil {
		return err
	}
	if len(forest.Roots) == 0 {
		printInfo("No trees to browse")
		return nil
	}

	p := tea.NewProgram(NewBrowseModel(forest), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("browse: %w", err)
	}
	return nil
}
