package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/priceowl/searchcache/cache"
	"github.com/priceowl/searchcache/logger"
	"github.com/priceowl/searchcache/store"
)

var (
	redisURL   string
	configPath string
)

func buildCache(ctx context.Context) (*cache.Cache, func(), error) {
	var cfg cache.Config
	if configPath != "" {
		loaded, err := cache.LoadConfig(configPath)
		if err != nil {
			return nil, nil, err
		}
		cfg = loaded
	}

	url := redisURL
	if url == "" {
		url = cfg.RedisURL
	}
	if url == "" {
		url = "redis://localhost:6379"
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("connecting to redis: %w", err)
	}

	log := logger.NewConsole(logger.GetLevelFromEnv())
	c := cache.New(store.NewRedis(client), log, cfg.Options()...)
	cleanup := func() { client.Close() }
	return c, cleanup, nil
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "searchcache-cli",
		Short:        "Administer the search-result cache",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&redisURL, "redis-url", "", "redis connection url (default redis://localhost:6379)")
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")

	root.AddCommand(newKeysCmd(), newInfoCmd(), newSweepCmd(), newClearCmd())
	return root
}

func newKeysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "List live cache keys",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, cleanup, err := buildCache(ctx)
			if err != nil {
				return err
			}
			defer cleanup()
			keys, err := c.Keys(ctx, "")
			if err != nil {
				return err
			}
			for _, key := range keys {
				fmt.Println(key)
			}
			fmt.Fprintf(os.Stderr, "%d keys\n", len(keys))
			return nil
		},
	}
}

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <key>",
		Short: "Show the metadata of one cache entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, cleanup, err := buildCache(ctx)
			if err != nil {
				return err
			}
			defer cleanup()
			info, ok := c.EntryInfo(ctx, args[0])
			if !ok {
				return fmt.Errorf("no live entry for %s", args[0])
			}
			fmt.Printf("key:            %s\n", info.Key)
			fmt.Printf("created:        %s\n", info.CreatedAt.Format(time.RFC3339))
			fmt.Printf("ttl:            %s\n", info.TTL)
			fmt.Printf("last accessed:  %s\n", info.LastAccessedAt.Format(time.RFC3339))
			fmt.Printf("access count:   %d\n", info.AccessCount)
			fmt.Printf("payload bytes:  %d\n", info.Size)
			return nil
		},
	}
}

func newSweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Run one expiry sweep and report removals",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, cleanup, err := buildCache(ctx)
			if err != nil {
				return err
			}
			defer cleanup()
			removed, err := c.Sweep(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("removed %d entries\n", removed)
			return nil
		},
	}
}

func newClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every entry in the cache namespace",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, cleanup, err := buildCache(ctx)
			if err != nil {
				return err
			}
			defer cleanup()
			if !c.Clear(ctx) {
				return fmt.Errorf("clear failed")
			}
			return nil
		},
	}
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
