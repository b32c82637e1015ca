package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/pario-ai/oars/pkg/client"
	"github.com/pario-ai/oars/pkg/codec"
	"github.com/pario-ai/oars/pkg/config"
	"github.com/pario-ai/oars/pkg/tracker"
)

func newFetchCmd() *cobra.Command {
	var (
		configPath string
		format     string
		noRecord   bool
	)

	cmd := &cobra.Command{
		Use:   "fetch <kind> <id>",
		Short: "Fetch one entity and print it",
		Long: "Fetch one OpenAlex entity. Kind is one of works, authors, sources,\n" +
			"institutions, topics, funders, publishers or concepts.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := client.ParseResourceKind(args[0])
			if err != nil {
				return err
			}
			outKind, err := codec.ParseKind(format)
			if err != nil {
				return err
			}

			cfg, err := config.LoadOrDefault(configPath)
			if err != nil {
				return err
			}

			var opts []client.Option
			if !noRecord {
				tr, err := tracker.New(cfg.DBPath)
				if err != nil {
					return err
				}
				defer func() { _ = tr.Close() }()
				opts = append(opts, client.WithRecorder(tr))
			}

			c, err := client.New(cfg, opts...)
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			ctx := context.Background()
			entity, err := c.FetchKind(ctx, kind, args[1])
			if err != nil {
				return err
			}

			d, err := entity.Deflate(outKind)
			if err != nil {
				return err
			}
			if err := printDeflated(cmd.OutOrStdout(), d); err != nil {
				return err
			}

			if n, err := c.QueryCount(ctx); err == nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "queries used: %d/%d\n", n, cfg.DailyLimit)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "oars.yaml", "path to config file")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output representation: text, value or bytes")
	cmd.Flags().BoolVar(&noRecord, "no-record", false, "do not record the fetch in the history database")
	return cmd
}

// printDeflated writes text and bytes as-is and a structured value as YAML.
func printDeflated(w io.Writer, d codec.Deflated) error {
	switch d.Kind() {
	case codec.Text:
		s, _ := d.AsText()
		_, err := fmt.Fprintln(w, s)
		return err
	case codec.Bytes:
		b, _ := d.AsBytes()
		_, err := w.Write(b)
		return err
	default:
		v, _ := d.AsValue()
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
}
