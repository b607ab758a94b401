package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/diskmosaic/diskmosaic/internal/server"
	"github.com/diskmosaic/diskmosaic/pkg/cache"
	"github.com/diskmosaic/diskmosaic/pkg/pipeline"
)

// serveCommand creates the serve command for running the layout API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		redisAddr string
		noCache   bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the layout HTTP API",
		Long: `Run the layout HTTP API.

The server exposes the same layout pipeline as the CLI:

  POST /api/v1/layout   compute a layout from inline holdings
  GET  /healthz         health and version

With --redis, layouts are cached in Redis so multiple instances share
results; otherwise the local file cache is used.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd, addr, redisAddr, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&redisAddr, "redis", "", "redis address (host:port) for shared caching")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command, addr, redisAddr string, noCache bool) error {
	ctx := cmd.Context()

	var (
		store cache.Cache
		err   error
	)
	switch {
	case noCache:
		store = cache.NewNullCache()
	case redisAddr != "":
		store, err = cache.NewRedisCache(ctx, redisAddr)
		if err != nil {
			return fmt.Errorf("connect redis %s: %w", redisAddr, err)
		}
		c.Logger.Info("using redis cache", "addr", redisAddr)
	default:
		store, err = newCache(false)
		if err != nil {
			return fmt.Errorf("initialize cache: %w", err)
		}
	}

	runner := pipeline.NewRunner(store, nil, c.Logger)
	defer runner.Close()

	printInfo("Listening on %s", StyleHighlight.Render(addr))
	srv := server.New(runner, c.Logger, addr)
	return srv.Start(withLogger(ctx, c.Logger))
}
