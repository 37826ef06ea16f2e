package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/extractgym/pkg/observability"
	"github.com/matzehuels/extractgym/pkg/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the extraction pipeline over HTTP",
		Long: `Serve the extraction pipeline over HTTP.

  POST /v1/extract?extractor=NAME&mode=MODE   e-graph JSON in the body
  GET  /v1/extractors
  GET  /healthz

The server shares the configured selection cache with the CLI and shuts
down gracefully on interrupt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			if !cmd.Flags().Changed("addr") {
				addr = c.config.Server.Addr
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			hooks := observability.NewLogHooks(logger)
			observability.SetHTTPHooks(hooks)
			observability.SetPipelineHooks(hooks)
			observability.SetCacheHooks(hooks)
			defer observability.Reset()

			srv := server.New(runner, logger)
			srv.Defaults.Extractor = c.config.Extractor
			srv.Defaults.Mode = c.pipelineOptions(cmd, "", "").Mode

			err = srv.ListenAndServe(ctx, addr)
			if errors.Is(err, context.Canceled) {
				printSuccess("Server stopped")
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address (default from config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
