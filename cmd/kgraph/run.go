package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/birdayz/kgraph"
	"github.com/birdayz/kgraph/katom"
	"github.com/birdayz/kgraph/kbehavior"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
)

var errBadPublish = errors.New("invalid publish")

// publish is one --publish flag: NAME[#N]:PORT=KIND:VALUE. N selects the N-th
// node (from 0) built from template NAME.
type publish struct {
	name  string
	nth   int
	port  int
	value katom.Value
}

func parsePublish(s string) (publish, error) {
	target, value, ok := strings.Cut(s, "=")
	if !ok {
		return publish{}, fmt.Errorf("%w %q: want NAME[#N]:PORT=KIND:VALUE", errBadPublish, s)
	}
	node, port, ok := strings.Cut(target, ":")
	if !ok {
		return publish{}, fmt.Errorf("%w %q: missing port", errBadPublish, s)
	}

	p := publish{name: node}
	if name, nth, ok := strings.Cut(node, "#"); ok {
		n, err := strconv.Atoi(nth)
		if err != nil || n < 0 {
			return publish{}, fmt.Errorf("%w %q: bad node index", errBadPublish, s)
		}
		p.name, p.nth = name, n
	}

	var err error
	if p.port, err = strconv.Atoi(port); err != nil {
		return publish{}, fmt.Errorf("%w %q: bad port: %w", errBadPublish, s, err)
	}
	if p.value, err = katom.ParseValue(value); err != nil {
		return publish{}, fmt.Errorf("%w %q: %w", errBadPublish, s, err)
	}
	return p, nil
}

func newRunCmd(opts *rootOptions) *cobra.Command {
	var (
		idx         int
		publishes   []string
		showMetrics bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Wire a candidate, publish values into it and print what the sinks received",
		Example: `  kgraph run -c catalog.yaml --candidate 0 --publish numbers:0=usize:5
  kgraph run --publish numbers#1:0=usize:7 --metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var pubs []publish
			for _, s := range publishes {
				p, err := parsePublish(s)
				if err != nil {
					return err
				}
				pubs = append(pubs, p)
			}

			c, err := opts.candidate(cmd, idx)
			if err != nil {
				return err
			}

			reg := prometheus.NewRegistry()
			g, err := kgraph.New(kgraph.WithLog(opts.log), kgraph.WithMetrics(reg))
			if err != nil {
				return err
			}
			pipeline, err := g.Instantiate(c)
			if err != nil {
				return err
			}

			for _, p := range pubs {
				nodes := pipeline.Find(p.name)
				if p.nth >= len(nodes) {
					return fmt.Errorf("%w: no node %s#%d in candidate %d", errBadPublish, p.name, p.nth, idx)
				}
				if err := g.Publish(nodes[p.nth], p.port, p.value); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			printSinks(out, pipeline)
			if showMetrics {
				return printMetrics(out, reg)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&idx, "candidate", 0, "Index of the candidate printed by synth")
	cmd.Flags().StringArrayVarP(&publishes, "publish", "p", nil, "Value to publish, NAME[#N]:PORT=KIND:VALUE (repeatable)")
	cmd.Flags().BoolVar(&showMetrics, "metrics", false, "Print link metrics after the run")
	return cmd
}

func printSinks(w io.Writer, p *kgraph.Pipeline) {
	seen := map[string]int{}
	for _, n := range p.Nodes {
		name := n.Template().Name()
		nth := seen[name]
		seen[name]++

		sink, ok := n.State().(*kbehavior.SinkState)
		if !ok {
			continue
		}
		if v, ok := sink.Received(); ok {
			fmt.Fprintf(w, "%s#%d: %s (%d received)\n", name, nth, v, sink.Count)
		} else {
			fmt.Fprintf(w, "%s#%d: <none>\n", name, nth)
		}
	}
}

func printMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
