package main

import (
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"

	"github.com/okian/matchmaker/internal/adapters/rosterfile"
	"github.com/okian/matchmaker/pkg/logger"
	"github.com/spf13/cobra"
)

type generateOptions struct {
	providers int
	seekers   int
	seed      int64
	out       string
}

func newGenerateCmd() *cobra.Command {
	opts := &generateOptions{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a synthetic roster as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.providers, "providers", 10, "number of providers")
	cmd.Flags().IntVar(&opts.seekers, "seekers", 30, "number of seekers")
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "generator seed; 0 picks one from the clock")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "output file (default stdout)")
	return cmd
}

func runGenerate(cmd *cobra.Command, opts *generateOptions) error {
	seed := opts.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	roster, err := rosterfile.Generate(rand.New(rand.NewSource(seed)), rosterfile.GenerateOptions{ //nolint:gosec // synthetic data
		Providers: opts.providers,
		Seekers:   opts.seekers,
	})
	if err != nil {
		return err
	}

	var w io.Writer = cmd.OutOrStdout()
	if opts.out != "" {
		f, err := os.Create(opts.out)
		if err != nil {
			return fmt.Errorf("create %s: %w", opts.out, err)
		}
		defer f.Close()
		w = f
	}
	if err := rosterfile.Encode(w, roster); err != nil {
		return err
	}

	logger.Get().Info(cmd.Context(), "generated roster",
		logger.Int("providers", len(roster.Providers)),
		logger.Int("seekers", len(roster.Seekers)),
		logger.Any("seed", seed),
	)
	return nil
}
