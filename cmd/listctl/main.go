// Command listctl lists repair-shop entities through the list-view pipeline:
// the same source selection, normalization, total estimation and page
// reconciliation a dashboard view runs.
//
// Usage:
//
//	listctl list purchases --query "page=3&q=civic"
//	listctl list clients --page 2 --page-size 25 --filter city=porto
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type rootOptions struct {
	configPath string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "listctl",
		Short:         "List repair-shop entities page by page",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "listctl.yaml", "path to the configuration file")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log at debug level")

	cmd.AddCommand(newListCmd(opts))
	cmd.AddCommand(newEntitiesCmd(opts))

	return cmd
}
