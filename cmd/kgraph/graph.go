package main

import (
	"fmt"

	"github.com/birdayz/kgraph"
	"github.com/spf13/cobra"
)

func newGraphCmd(opts *rootOptions) *cobra.Command {
	var idx int

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Print a wired candidate as a Mermaid flowchart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.candidate(cmd, idx)
			if err != nil {
				return err
			}
			g, err := kgraph.New(kgraph.WithLog(opts.log))
			if err != nil {
				return err
			}
			if _, err := g.Instantiate(c); err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), g.Mermaid())
			return nil
		},
	}

	cmd.Flags().IntVar(&idx, "candidate", 0, "Index of the candidate printed by synth")
	return cmd
}
