package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/treelayout/internal/api"
	"github.com/matzehuels/treelayout/pkg/store"
)

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout pipeline over HTTP",
		Long: `Serve the layout pipeline over HTTP.

POST a JSON edge list to /v1/layout to get the forest back as json, csv or
xlsx. Every run is stored under the id returned in the X-Run-ID header and
its trees can be fetched from /v1/runs/{runID}/trees/{root} in any format.

Runs are kept in MongoDB when store.mongo_uri (or TREELAYOUT_MONGO_URI) is
set, and in memory otherwise.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				c.Config.Server.Addr = addr
			}
			return c.runServe(cmd.Context(), noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, else :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close(context.WithoutCancel(ctx))

	if sc := c.Config.Store; sc.MongoURI != "" {
		s, err := store.NewMongoStore(ctx, store.MongoConfig{
			URI:        sc.MongoURI,
			Database:   sc.Database,
			Collection: sc.Collection,
			Timeout:    sc.Timeout,
		})
		if err != nil {
			return err
		}
		runner.Store = s
		c.Logger.Info("using mongodb store", "uri", redactURL(sc.MongoURI))
	}

	srv := api.NewServer(runner, c.apiConfig(), c.Logger)

	printKeyValue("Listening", c.Config.Server.Addr)
	printKeyValue("Cache", c.cacheLabel(noCache))
	printNewline()
	return srv.ListenAndServe(ctx, c.Config.Server.Addr)
}

// apiConfig maps the server section of the config onto api.Config.
func (c *CLI) apiConfig() api.Config {
	defaults := c.Config.PipelineOptions()
	defaults.Logger = c.Logger

	sc := c.Config.Server
	return api.Config{
		Defaults:        defaults,
		MaxBodyBytes:    sc.MaxBodyBytes,
		ReadTimeout:     sc.ReadTimeout,
		WriteTimeout:    sc.WriteTimeout,
		ShutdownTimeout: sc.ShutdownTimeout,
	}
}

func (c *CLI) cacheLabel(noCache bool) string {
	if noCache || !c.Config.Cache.Enabled {
		return "disabled"
	}
	return c.cacheLocation()
}
