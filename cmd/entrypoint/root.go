package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"photoframe-entrypoint/internal/config"
	"photoframe-entrypoint/internal/logging"
	"photoframe-entrypoint/internal/paths"
	"photoframe-entrypoint/internal/sequencer"
)

// createRootCommand creates the main root command. Running the binary with
// no subcommand performs the full bootstrap and server handoff, which is
// what a container CMD wants.
func createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "entrypoint",
		Short: "Photo server container bootstrap",
		Long: "Reconciles the persistent data volume, seeds default configuration,\n" +
			"prepares the database, and hands control to the photo server.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBootstrap(cmd, true)
		},
	}

	rootCmd.PersistentFlags().StringP("config", "c", "",
		"Path to options file (default <config dir>/"+config.OptionsFilename+")")

	rootCmd.AddCommand(
		createRunCommand(),
		createPrepareCommand(),
		createStatusCommand(),
		createPathsCommand(),
	)

	return rootCmd
}

// newSequencer loads options and builds a sequencer over the real
// filesystem, honoring the --config flag.
func newSequencer(cmd *cobra.Command) (*sequencer.Sequencer, *config.Options, error) {
	fs := afero.NewOsFs()

	configFlag, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get config flag: %w", err)
	}

	optionsFile := configFlag
	if optionsFile == "" {
		// The options file lives inside the config dir, which is itself
		// configurable, so resolve paths from the environment first.
		envOnly, err := config.Load(fs, "")
		if err != nil {
			return nil, nil, err
		}
		resolved := paths.Resolve(fs, envOnly.Overrides())
		optionsFile = filepath.Join(resolved.ConfigDir, config.OptionsFilename)
	}

	opts, err := config.Load(fs, optionsFile)
	if err != nil {
		return nil, nil, err
	}

	return sequencer.New(fs, opts), opts, nil
}

// loggingContext attaches the production logger to a fresh context.
func loggingContext(seq *sequencer.Sequencer, opts *config.Options) context.Context {
	return logging.New(context.Background(), logging.Config{
		LogDir: seq.Paths().LogDir,
		Level:  logging.ParseLevel(opts.LogLevel),
	})
}
