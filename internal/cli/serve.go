package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gtww/internal/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string
	var noCache bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the solver over HTTP",
		Long: `Start the HTTP API.

  POST /v1/solve           solve the .gr graph in the request body
  GET  /v1/results         list recent runs (?name=, ?limit=)
  GET  /v1/results/{id}    fetch one run
  GET  /healthz            liveness probe

Results are stored in MongoDB when [store] mongo_uri is configured, and in
memory otherwise. Sequences are cached with the configured cache backend.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") {
				addr = c.Config.Server.Addr
			}
			return c.runServe(cmd.Context(), addr, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	st, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close(context.Background())

	storeKind := "memory"
	if c.Config.Store.MongoURI != "" {
		storeKind = "mongodb/" + c.Config.Store.Database
	}
	cacheKind := c.Config.Cache.Backend
	if noCache {
		cacheKind = "none"
	}
	printKeyValue("Listening", addr)
	printKeyValue("Cache", cacheKind)
	printKeyValue("Store", storeKind)

	srv := server.New(runner, st, c.Logger, server.Config{
		RequestTimeout: c.Config.Server.RequestTimeout.Duration,
		MaxBodyBytes:   c.Config.Server.MaxBodyBytes,
		Verify:         c.Config.Solve.Verify,
	})
	return srv.ListenAndServe(ctx, addr)
}
