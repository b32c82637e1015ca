package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	cachepkg "github.com/pario-ai/oars/pkg/cache/sqlite"
	"github.com/pario-ai/oars/pkg/config"
	"github.com/pario-ai/oars/pkg/models"
)

func newCacheCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or prune the OpenAlex response cache",
	}

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show cached responses, expired entries and size",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, c, err := openCache(configPath)
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			stats, err := c.Stats()
			if err != nil {
				return err
			}
			return printCacheStats(os.Stdout, cfg, stats)
		},
	}

	var expiredOnly bool
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Drop cached responses",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, c, err := openCache(configPath)
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			n, err := c.Clear(expiredOnly)
			if err != nil {
				return err
			}
			what := "cached responses"
			if expiredOnly {
				what = "expired responses"
			}
			fmt.Printf("Removed %d %s.\n", n, what)
			return nil
		},
	}
	clearCmd.Flags().BoolVar(&expiredOnly, "expired", false, "only drop responses older than cache.ttl")

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "oars.yaml", "path to config file")
	cmd.AddCommand(statsCmd, clearCmd)
	return cmd
}

func openCache(configPath string) (*config.Config, *cachepkg.Cache, error) {
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return nil, nil, err
	}
	if !cfg.Cache.Enabled {
		fmt.Fprintln(os.Stderr, "warning: cache.enabled is false, fetches do not use this cache")
	}
	c, err := cachepkg.New(cfg.DBPath, cfg.Cache.TTL)
	if err != nil {
		return nil, nil, err
	}
	return cfg, c, nil
}

func printCacheStats(out io.Writer, cfg *config.Config, stats models.CacheStats) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DB\tTTL\tENTRIES\tEXPIRED\tBYTES")
	fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\n", cfg.DBPath, cfg.Cache.TTL, stats.Entries, stats.Expired, stats.Bytes)
	return w.Flush()
}
