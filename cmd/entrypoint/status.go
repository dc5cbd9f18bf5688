package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// createStatusCommand creates the status command, a read-mostly volume
// health report (it still writes the persistence marker on a fresh volume).
func createStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Report volume health",
		RunE: func(cmd *cobra.Command, _ []string) error {
			seq, opts, err := newSequencer(cmd)
			if err != nil {
				return err
			}
			ctx := loggingContext(seq, opts)

			report := seq.Inspect(ctx)
			p := seq.Paths()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Volume root: %s\n", p.VolumeRoot)

			switch {
			case !report.Persistent:
				fmt.Fprintf(out, "Volume:      %s\n", color.YellowString("not present (non-persistent run)"))
			case report.Fresh:
				fmt.Fprintf(out, "Volume:      %s\n", color.GreenString("fresh, marker written"))
			default:
				fmt.Fprintf(out, "Volume:      %s\n",
					color.GreenString("persisting since %s", report.Marker.CreatedAt.Format("2006-01-02 15:04:05")))
			}
			if report.Marker.VolumeID != "" {
				fmt.Fprintf(out, "Volume ID:   %s\n", report.Marker.VolumeID)
			}

			if report.DBExists {
				detail := ""
				if report.DBTables >= 0 {
					detail = fmt.Sprintf(" (%d tables)", report.DBTables)
				}
				fmt.Fprintf(out, "Database:    %s%s\n", color.GreenString("present"), detail)
			} else {
				fmt.Fprintf(out, "Database:    %s\n", color.YellowString("missing, will be created"))
			}

			fmt.Fprintf(out, "Photos:      %d\n", report.PhotoCount)
			return nil
		},
	}
}
