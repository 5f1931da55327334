package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newSynthCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "synth",
		Short: "Print the pipelines that can be built from the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := opts.synthesize(cmd)
			if err != nil {
				return err
			}
			for i, c := range res.Candidates {
				fmt.Fprintf(cmd.OutOrStdout(), "%d: %s\n", i, strings.Join(c.Names(), " -> "))
			}
			return nil
		},
	}
}
