package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/figlayout/internal/server"
	"github.com/matzehuels/figlayout/pkg/cache"
	"github.com/matzehuels/figlayout/pkg/pipeline"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and websocket server",
		Long: `Run the figlayout HTTP server.

Configuration is read from FIGLAYOUT_* environment variables (PORT, REDIS_URL,
CACHE_TTL, SETTLE_TIMEOUT, ALLOWED_ORIGINS, MAX_BODY_BYTES). Artifacts are cached
in Redis when FIGLAYOUT_REDIS_URL is set, otherwise in the local cache directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), port)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "listen port (overrides FIGLAYOUT_PORT)")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, port int) error {
	cfg, err := server.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if port > 0 {
		cfg.Port = port
	}

	backend, err := c.serverCache(ctx, cfg)
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(cache.WithTTL(backend, cfg.CacheTTL), nil, c.Logger)
	defer runner.Close()

	return server.New(cfg, runner, c.Logger).ListenAndServe(ctx)
}

// serverCache picks Redis when configured, else the file cache.
func (c *CLI) serverCache(ctx context.Context, cfg *server.Config) (cache.Cache, error) {
	if cfg.RedisURL == "" {
		c.Logger.Info("using file cache")
		return newCache(false)
	}
	rc, err := cache.NewRedisCache(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}
	if err := rc.Ping(ctx); err != nil {
		rc.Close()
		return nil, fmt.Errorf("redis: %w", err)
	}
	c.Logger.Info("using redis cache")
	return rc, nil
}
