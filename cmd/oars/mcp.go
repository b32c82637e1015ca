package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pario-ai/oars/pkg/client"
	"github.com/pario-ai/oars/pkg/config"
	"github.com/pario-ai/oars/pkg/mcp"
	"github.com/pario-ai/oars/pkg/tracker"
)

func newMCPCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve OpenAlex lookups as an MCP server over stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadOrDefault(configPath)
			if err != nil {
				return err
			}

			tr, err := tracker.New(cfg.DBPath)
			if err != nil {
				return err
			}
			defer func() { _ = tr.Close() }()

			c, err := client.New(cfg, client.WithRecorder(tr))
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			var cache mcp.CacheStatter
			if cc := c.Cache(); cc != nil {
				cache = cc
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := mcp.New(c, tr, cache, config.Version, nil)
			return srv.Run(ctx, os.Stdin, os.Stdout)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "oars.yaml", "path to config file")
	return cmd
}
