package main

import (
	"fmt"

	"github.com/birdayz/kgraph/knode"
	"github.com/spf13/cobra"
)

func newCatalogCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "Validate the catalog and print template signatures",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			templates, err := opts.loadCatalog()
			if err != nil {
				return err
			}
			for _, t := range templates {
				fmt.Fprintln(cmd.OutOrStdout(), knode.Describe(t))
			}
			return nil
		},
	}
}
