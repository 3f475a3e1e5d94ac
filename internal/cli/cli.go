// Package cli implements the treelayout command-line interface.
//
// The CLI reads edge lists from CSV, TSV or JSON files, lays out every root
// and writes one file per root and format, as the upstream spreadsheet
// reports expect. It can also render diagrams, browse a layout in the
// terminal, and serve the pipeline over HTTP.
//
// # Commands
//
//   - layout: Compute coordinates and write CSV/XLSX/JSON files
//   - render: Draw node-link diagrams (DOT/SVG) per root
//   - browse: Inspect roots and records interactively
//   - serve: Run the HTTP API
//   - cache: Manage the layout cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/treelayout/internal/config"
	"github.com/matzehuels/treelayout/pkg/buildinfo"
	"github.com/matzehuels/treelayout/pkg/cache"
	"github.com/matzehuels/treelayout/pkg/errors"
	"github.com/matzehuels/treelayout/pkg/export/sink"
	"github.com/matzehuels/treelayout/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "treelayout"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Config is loaded before any command runs; see RootCommand.
	Config     config.Config
	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level. Debug output includes call sites.
func (c *CLI) SetLogLevel(level log.Level) {
	setLevel(c.Logger, level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Treelayout computes plotting coordinates for hierarchies",
		Long: `Treelayout turns parent/child edge lists into x/y coordinates for every node,
one tree per root, ready for spreadsheet and BI line charts.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/treelayout/config.toml)")

	// Register all subcommands
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. Keys are scoped to the
// build version so a changed layout never reads entries from an old one.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), buildinfo.Version+":")
	return pipeline.NewRunner(cc, keyer, c.Logger), nil
}

// newCache returns the configured cache, or a NullCache when caching is
// off.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache || !c.Config.Cache.Enabled {
		return cache.NewNullCache(), nil
	}
	return c.openCache(ctx)
}

// openCache picks Redis when configured, else the local file cache. A
// missing home directory disables caching instead of failing the command.
func (c *CLI) openCache(ctx context.Context) (cache.Cache, error) {
	if url := c.Config.Cache.RedisURL; url != "" {
		rc, err := cache.NewRedisCache(ctx, url, c.Config.Cache.Prefix)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeCacheUnavailable, err, "open redis cache")
		}
		return rc, nil
	}
	dir, err := c.cacheDir()
	if err != nil {
		c.Logger.Debug("cache disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the configured cache directory, falling back to the XDG
// standard (~/.cache/treelayout/).
func (c *CLI) cacheDir() (string, error) {
	if c.Config.Cache.Dir != "" {
		return c.Config.Cache.Dir, nil
	}
	return cacheDir()
}

func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// inputFlags holds the edge-file flags shared by layout, render and browse.
type inputFlags struct {
	delimiter    string
	childColumn  string
	parentColumn string
	disambiguate bool
	maxDepth     int
	workers      int
	roots        []string
	noCache      bool
	refresh      bool
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.delimiter, "delimiter", "d", "", `field delimiter, e.g. ";" or "tab" (default from config, else ",")`)
	cmd.Flags().StringVar(&f.childColumn, "child-column", "", "child column name (default start_point)")
	cmd.Flags().StringVar(&f.parentColumn, "parent-column", "", "parent column name (default end_point)")
	cmd.Flags().BoolVar(&f.disambiguate, "disambiguate", false, "rename nodes listed under several parents to id_1, id_2, ...")
	cmd.Flags().IntVar(&f.maxDepth, "max-depth", 0, "reject trees deeper than this (0: no limit)")
	cmd.Flags().IntVarP(&f.workers, "workers", "w", 0, "roots laid out concurrently (default GOMAXPROCS)")
	cmd.Flags().StringSliceVar(&f.roots, "force-root", nil, "lay out these nodes as roots even without a root row (repeatable)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "recompute even when cached")
}

// options merges config values with the flags that were set on cmd.
func (c *CLI) options(cmd *cobra.Command, input string, f *inputFlags) pipeline.Options {
	opts := c.Config.PipelineOptions()
	opts.Input = input
	opts.Logger = c.Logger
	opts.Refresh = f.refresh

	flags := cmd.Flags()
	if flags.Changed("delimiter") {
		opts.Delimiter = f.delimiter
	}
	if flags.Changed("child-column") {
		opts.ChildColumn = f.childColumn
	}
	if flags.Changed("parent-column") {
		opts.ParentColumn = f.parentColumn
	}
	if flags.Changed("disambiguate") {
		opts.Disambiguate = f.disambiguate
	}
	if flags.Changed("max-depth") {
		opts.MaxDepth = f.maxDepth
	}
	if flags.Changed("workers") {
		opts.Workers = f.workers
	}
	if flags.Changed("force-root") {
		opts.Roots = f.roots
	}
	return opts
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string, def []string) ([]string, error) {
	if s == "" {
		return def, nil
	}
	return sink.ParseFormats(s)
}
