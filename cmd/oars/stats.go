package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pario-ai/oars/pkg/config"
	"github.com/pario-ai/oars/pkg/tracker"
)

func newStatsCmd() *cobra.Command {
	var (
		configPath string
		kind       string
		recent     int
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show fetch history statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadOrDefault(configPath)
			if err != nil {
				return err
			}

			tr, err := tracker.New(cfg.DBPath)
			if err != nil {
				return err
			}
			defer tr.Close()

			ctx := context.Background()

			// Recent fetches view
			if recent > 0 {
				records, err := tr.Recent(ctx, recent)
				if err != nil {
					return err
				}
				if len(records) == 0 {
					fmt.Println("No fetches recorded.")
					return nil
				}
				w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "TIME\tKIND\tID\tOUTCOME\tSTATUS\tBYTES\tLATENCY MS")
				for _, r := range records {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%d\n",
						r.CreatedAt.Format("2006-01-02T15:04:05"), r.Kind, r.ResourceID, r.Outcome, r.StatusCode, r.Bytes, r.LatencyMs)
				}
				return w.Flush()
			}

			// Default: summary by kind and outcome
			summaries, err := tr.Summary(ctx, kind)
			if err != nil {
				return err
			}

			if len(summaries) == 0 {
				fmt.Println("No fetches recorded.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "KIND\tOUTCOME\tFETCHES\tBYTES\tAVG LATENCY MS")
			for _, s := range summaries {
				fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%.1f\n",
					s.Kind, s.Outcome, s.Count, s.TotalBytes, s.AvgLatencyMs)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "oars.yaml", "path to config file")
	cmd.Flags().StringVar(&kind, "kind", "", "filter by resource kind")
	cmd.Flags().IntVar(&recent, "recent", 0, "list the N most recent fetches instead of the summary")
	return cmd
}
