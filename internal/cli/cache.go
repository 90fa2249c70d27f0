package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gtww/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the sequence cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached sequences",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCacheClear(cmd.Context())
		},
	}
}

func (c *CLI) runCacheClear(ctx context.Context) error {
	backend := c.Config.Cache.Backend
	if backend == cache.BackendNone {
		printInfo("Caching is disabled")
		return nil
	}

	cc, err := c.newCache(ctx, false)
	if err != nil {
		return err
	}
	defer cc.Close()

	clearer, ok := cc.(cache.Clearer)
	if !ok {
		return fmt.Errorf("the %s cache cannot be cleared", backend)
	}
	count, err := clearer.Clear(ctx)
	if err != nil {
		return fmt.Errorf("clear %s cache: %w", backend, err)
	}

	if count == 0 {
		printInfo("Cache is empty")
		return nil
	}
	printSuccess("Cleared %d cached entries", count)
	if loc, err := c.cacheLocation(); err == nil {
		printDetail("%s: %s", backend, loc)
	}
	return nil
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where cached sequences are kept",
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := c.cacheLocation()
			if err != nil {
				return fmt.Errorf("get cache location: %w", err)
			}
			fmt.Fprintln(c.out, loc)
			return nil
		},
	}
}

// cacheLocation returns the directory or server address of the configured
// backend.
func (c *CLI) cacheLocation() (string, error) {
	cfg := c.Config.Cache
	switch cfg.Backend {
	case cache.BackendRedis:
		return "redis://" + cfg.RedisAddr, nil
	case cache.BackendNone:
		return "", fmt.Errorf("caching is disabled")
	}
	dir := cfg.Dir
	if dir == "" {
		base, err := cacheDir()
		if err != nil {
			return "", err
		}
		dir = base
		if cfg.Backend == cache.BackendBadger {
			dir = filepath.Join(base, "badger")
		}
	}
	return dir, nil
}
