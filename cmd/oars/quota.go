package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pario-ai/oars/pkg/client"
	"github.com/pario-ai/oars/pkg/config"
)

func newQuotaCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "quota",
		Short: "Inspect or reset the request quota",
		Long: "Inspect or reset the request quota shared through redis.addr.\n" +
			"Without it the counter lives in process and these commands refuse\n" +
			"to run, since they could only ever see a fresh budget.",
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show quota usage vs ceiling",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newSharedQuotaClient(configPath, os.Stderr)
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			st, err := c.Quota(context.Background())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "CEILING\tUSED\tREMAINING\tWINDOW\tNEXT RESET")
			fmt.Fprintf(w, "%d\t%d\t%d\t%s\t%s\n", st.Ceiling, st.Used, st.Remaining, st.Window,
				st.NextReset.Local().Format("2006-01-02 15:04:05"))
			return w.Flush()
		},
	}

	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset the query count to zero",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newSharedQuotaClient(configPath, os.Stderr)
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			if err := c.ResetQueryCount(context.Background()); err != nil {
				return err
			}
			fmt.Println("Query count reset to 0.")
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "oars.yaml", "path to config file")
	cmd.AddCommand(statusCmd, resetCmd)
	return cmd
}

var errNoSharedCounter = errors.New("quota: redis.addr is not set, the in-process counter is always empty here")

// newSharedQuotaClient builds a client for commands that read or reset the
// shared counter. It refuses when there is nothing shared to look at.
func newSharedQuotaClient(configPath string, stderr io.Writer) (*client.Client, error) {
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return nil, err
	}
	if cfg.Redis.Addr == "" {
		fmt.Fprintf(stderr, "set redis.addr in %s to share the quota between processes\n", configPath)
		return nil, errNoSharedCounter
	}
	return client.New(cfg)
}
