package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pario-ai/oars/pkg/config"
)

func main() {
	root := &cobra.Command{
		Use:           "oars",
		Short:         "Oars — quota-governed OpenAlex client",
		Version:       config.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newFetchCmd(),
		newQuotaCmd(),
		newCacheCmd(),
		newStatsCmd(),
		newMCPCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
