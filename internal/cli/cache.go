package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pathloom/internal/config"
	"github.com/matzehuels/pathloom/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the upstream response cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	var pattern string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear cached upstream responses and identifier mappings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}

			count, where, err := clearCache(ctx, cfg.Cache, pattern)
			if err != nil {
				return err
			}
			if count == 0 {
				printInfo("Cache is empty")
				return nil
			}
			printSuccess("Cleared %d cached entries", count)
			printDetail("Location: %s", where)
			return nil
		},
	}

	cmd.Flags().StringVar(&pattern, "pattern", "*", "key pattern to delete, after the configured key prefix (redis backend only)")
	return cmd
}

// clearCache empties the configured backend and reports where it lives.
func clearCache(ctx context.Context, cfg config.Cache, pattern string) (int, string, error) {
	switch cfg.Backend {
	case config.CacheNone:
		return 0, "disabled", nil

	case config.CacheRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return 0, "", err
		}
		defer rc.Close()
		n, err := rc.Clear(ctx, cfg.KeyPrefix+pattern)
		return n, "redis://" + cfg.RedisAddr, err

	default:
		fc, err := cache.NewFileCache(cfg.Dir)
		if err != nil {
			return 0, "", fmt.Errorf("open cache %s: %w", cfg.Dir, err)
		}
		n, err := fc.Clear()
		return n, fc.Dir(), err
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where the cache lives",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			switch cfg.Cache.Backend {
			case config.CacheRedis:
				fmt.Fprintln(cmd.OutOrStdout(), "redis://"+cfg.Cache.RedisAddr)
			case config.CacheNone:
				fmt.Fprintln(cmd.OutOrStdout(), "disabled")
			default:
				fmt.Fprintln(cmd.OutOrStdout(), cfg.Cache.Dir)
			}
			return nil
		},
	}
}
