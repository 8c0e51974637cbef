package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/okian/matchmaker/internal/adapters/rosterfile"
	service "github.com/okian/matchmaker/internal/app"
	"github.com/okian/matchmaker/internal/domain/model"
	"github.com/okian/matchmaker/internal/domain/types"
	"github.com/okian/matchmaker/pkg/logger"
	"github.com/spf13/cobra"
)

const defaultThreshold = 40

type assignOptions struct {
	roster    string
	threshold int
	seed      int64
	audit     bool
}

func newAssignCmd() *cobra.Command {
	opts := &assignOptions{}
	cmd := &cobra.Command{
		Use:   "assign",
		Short: "Run one greedy assignment pass over a roster file and print the outcome as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAssign(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.roster, "roster", "r", "", "roster file (YAML or JSON)")
	cmd.Flags().IntVarP(&opts.threshold, "threshold", "t", defaultThreshold, "minimum score for an automatic match")
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "shuffle seed for equal-priority seekers; 0 picks one from the clock")
	cmd.Flags().BoolVar(&opts.audit, "audit", false, "include every computed score in the output")
	_ = cmd.MarkFlagRequired("roster")
	return cmd
}

func runAssign(cmd *cobra.Command, opts *assignOptions) error {
	ctx := cmd.Context()
	svc, err := startWithRoster(cmd, opts.roster, service.WithSeed(opts.seed))
	if err != nil {
		return err
	}
	defer svc.Stop()

	out, err := svc.RunAssignment(ctx, &opts.threshold)
	if err != nil {
		return fmt.Errorf("run assignment: %w", err)
	}

	resp := types.Outcome{
		Relationships: out.Relationships,
		Unmatched:     out.Unmatched,
		AuditSize:     len(out.Audit),
	}
	if resp.Relationships == nil {
		resp.Relationships = []model.Relationship{}
	}
	if resp.Unmatched == nil {
		resp.Unmatched = []string{}
	}
	if opts.audit {
		resp.Audit = out.Audit
	}
	return printJSON(cmd.OutOrStdout(), resp)
}

// startWithRoster starts an in-memory service loaded with the roster at path.
func startWithRoster(cmd *cobra.Command, path string, opts ...service.Option) (*service.Service, error) {
	ctx := cmd.Context()
	roster, err := rosterfile.Load(path)
	if err != nil {
		return nil, err
	}

	svc := service.New(append(opts, service.WithLogger(logger.Named(app)))...)
	if err := svc.Start(ctx); err != nil {
		return nil, fmt.Errorf("start service: %w", err)
	}
	if err := svc.LoadRoster(ctx, roster); err != nil {
		svc.Stop()
		return nil, fmt.Errorf("load roster: %w", err)
	}
	return svc, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
