package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// createPathsCommand creates the paths command, printing the resolved
// canonical layout without touching anything.
func createPathsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "Print the resolved canonical paths",
		RunE: func(cmd *cobra.Command, _ []string) error {
			seq, _, err := newSequencer(cmd)
			if err != nil {
				return err
			}
			p := seq.Paths()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "volume root:  %s\n", p.VolumeRoot)
			fmt.Fprintf(out, "uploads:      %s\n", p.UploadDir)
			fmt.Fprintf(out, "thumbnails:   %s\n", p.ThumbnailDir)
			fmt.Fprintf(out, "logs:         %s\n", p.LogDir)
			fmt.Fprintf(out, "config:       %s\n", p.ConfigDir)
			fmt.Fprintf(out, "credentials:  %s\n", p.CredentialsDir)
			fmt.Fprintf(out, "database:     %s\n", p.DBFile)
			fmt.Fprintf(out, "db backups:   %s\n", p.DBBackupDir)
			return nil
		},
	}
}
