package main

import (
	"fmt"

	"github.com/okian/matchmaker/pkg/logger"
	"github.com/spf13/cobra"
)

const app = "matchctl"

type rootOptions struct {
	logLevel string
	json     bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:          app,
		Short:        "matchctl scores and assigns providers to seekers from roster files",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			format := logger.FormatText
			if opts.json {
				format = logger.FormatJSON
			}
			// Logs go to stderr so stdout stays machine readable.
			if err := logger.InitWithWriter(cmd.ErrOrStderr(), format); err != nil {
				return fmt.Errorf("init logging: %w", err)
			}
			return logger.SetLevelString(opts.logLevel)
		},
	}

	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	root.PersistentFlags().BoolVarP(&opts.json, "json", "j", false, "json format for logging")

	root.AddCommand(newAssignCmd(), newScoreCmd(), newGenerateCmd(), newVersionCmd())
	return root
}
