package main

import (
	"github.com/spf13/cobra"
)

// createRunCommand creates the run command, the explicit form of the root
// default.
func createRunCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the bootstrap sequence and exec the server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBootstrap(cmd, true)
		},
	}
}

// createPrepareCommand creates the prepare command: the full sequence
// without the final handoff, for init containers and debugging.
func createPrepareCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "prepare",
		Short: "Run the bootstrap sequence without starting the server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBootstrap(cmd, false)
		},
	}
}

func runBootstrap(cmd *cobra.Command, handoff bool) error {
	seq, opts, err := newSequencer(cmd)
	if err != nil {
		return err
	}
	ctx := loggingContext(seq, opts)

	if err := seq.Run(ctx); err != nil {
		return err
	}
	if !handoff {
		return nil
	}
	return seq.Handoff(ctx)
}
