package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

type scoreOptions struct {
	roster   string
	provider string
	seeker   string
	load     int
}

func newScoreCmd() *cobra.Command {
	opts := &scoreOptions{}
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Print the score breakdown for one provider and seeker",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := startWithRoster(cmd, opts.roster)
			if err != nil {
				return err
			}
			defer svc.Stop()

			var load *int
			if cmd.Flags().Changed("load") {
				load = &opts.load
			}
			breakdown, err := svc.Score(cmd.Context(), opts.provider, opts.seeker, load)
			if err != nil {
				return fmt.Errorf("score: %w", err)
			}
			return printJSON(cmd.OutOrStdout(), breakdown)
		},
	}

	cmd.Flags().StringVarP(&opts.roster, "roster", "r", "", "roster file (YAML or JSON)")
	cmd.Flags().StringVarP(&opts.provider, "provider", "p", "", "provider id")
	cmd.Flags().StringVarP(&opts.seeker, "seeker", "s", "", "seeker id")
	cmd.Flags().IntVar(&opts.load, "load", 0, "provider load to score at (default: the provider's existing_load)")
	_ = cmd.MarkFlagRequired("roster")
	_ = cmd.MarkFlagRequired("provider")
	_ = cmd.MarkFlagRequired("seeker")
	return cmd
}
