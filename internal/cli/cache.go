package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/matzehuels/treelayout/pkg/cache"
)

// cacheCommand groups the cache maintenance subcommands. Both act on the
// configured backend (Redis or the local directory) even when caching is
// disabled for layout runs.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the layout cache",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete every cached forest and artifact",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc, err := c.openCache(cmd.Context())
			if err != nil {
				return err
			}
			defer cc.Close()

			cl, ok := cc.(cache.Clearer)
			if !ok {
				printInfo("No cache to clear")
				return nil
			}
			n, err := cl.Clear(cmd.Context())
			if err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			if n == 0 {
				printInfo("Cache is empty")
				return nil
			}
			printSuccess("Cleared %d cached entries", n)
			printDetail("%s", c.cacheLocation())
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print where cached layouts are kept",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			loc := c.cacheLocation()
			if loc == "" {
				return fmt.Errorf("no cache location: home directory unknown")
			}
			fmt.Fprintln(cmd.OutOrStdout(), loc)
			return nil
		},
	})

	return cmd
}

// cacheLocation names the cache backend for display: the Redis URL with
// its password masked, or the cache directory.
func (c *CLI) cacheLocation() string {
	if u := c.Config.Cache.RedisURL; u != "" {
		return redactURL(u)
	}
	dir, _ := c.cacheDir()
	return dir
}

func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "<invalid url>"
	}
	return u.Redacted()
}
