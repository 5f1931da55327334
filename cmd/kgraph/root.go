package main

import (
	"fmt"
	"log/slog"

	"github.com/birdayz/kgraph/kcatalog"
	"github.com/birdayz/kgraph/knode"
	"github.com/birdayz/kgraph/ksynth"
	"github.com/birdayz/kgraph/pkg/log"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	catalogPath string
	logLevel    string
	logFormat   string

	rounds      int
	policy      string
	frontier    string
	parallelism int

	log *slog.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "kgraph",
		Short:         "kgraph builds typed reactive dataflow graphs",
		Long:          `kgraph proposes pipelines from a catalog of node templates, wires them and pushes values through them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := log.ParseLevel(opts.logLevel)
			if err != nil {
				return err
			}
			format, err := log.ParseFormat(opts.logFormat)
			if err != nil {
				return err
			}
			opts.log = log.New(cmd.ErrOrStderr(), level, format)
			return nil
		},
	}

	// Persistent flags (available to all commands)
	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.catalogPath, "catalog", "c", "catalog.yaml", "Template catalog (YAML)")
	flags.StringVar(&opts.logLevel, "log-level", "info", "Log level: debug, info, warn or error")
	flags.StringVar(&opts.logFormat, "log-format", "auto", "Log format: auto, console, json or tint")
	flags.IntVar(&opts.rounds, "rounds", ksynth.DefaultRounds, "Maximum pipeline length explored")
	flags.StringVar(&opts.policy, "policy", ksynth.ReportBalanced.String(), "Completion policy: report or extend")
	flags.StringVar(&opts.frontier, "frontier", ksynth.FrontierLevel.String(), "Frontier mode: level or single")
	flags.IntVar(&opts.parallelism, "parallelism", 1, "Frontier entries expanded concurrently")

	cmd.AddCommand(
		newCatalogCmd(opts),
		newSynthCmd(opts),
		newRunCmd(opts),
		newGraphCmd(opts),
	)
	return cmd
}

func (o *rootOptions) loadCatalog() ([]knode.Template, error) {
	c, err := kcatalog.Load(o.catalogPath, nil)
	if err != nil {
		return nil, err
	}
	o.log.Debug("Loaded catalog", "path", o.catalogPath, "templates", c.Len())
	return c.Templates(), nil
}

func (o *rootOptions) synthesize(cmd *cobra.Command) (*ksynth.Result, error) {
	templates, err := o.loadCatalog()
	if err != nil {
		return nil, err
	}
	policy, err := ksynth.ParsePolicy(o.policy)
	if err != nil {
		return nil, err
	}
	frontier, err := ksynth.ParseFrontier(o.frontier)
	if err != nil {
		return nil, err
	}

	res, err := ksynth.Search(cmd.Context(), templates,
		ksynth.WithRounds(o.rounds),
		ksynth.WithPolicy(policy),
		ksynth.WithFrontier(frontier),
		ksynth.WithParallelism(o.parallelism),
		ksynth.WithLogger(o.log.WithGroup("synth")),
	)
	if err != nil {
		return nil, err
	}
	o.log.Info("Synthesized candidates",
		"candidates", len(res.Candidates),
		"rounds", res.Stats.Rounds,
		"frontier_left", res.Stats.FrontierLeft,
	)
	return res, nil
}

func (o *rootOptions) candidate(cmd *cobra.Command, idx int) (ksynth.Candidate, error) {
	res, err := o.synthesize(cmd)
	if err != nil {
		return nil, err
	}
	if idx < 0 || idx >= len(res.Candidates) {
		return nil, fmt.Errorf("candidate %d out of range, %d candidates found", idx, len(res.Candidates))
	}
	return res.Candidates[idx], nil
}
