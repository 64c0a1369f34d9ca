/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"os"

	"github.com/allbin/serial-monitor/internal/archive"
	"github.com/spf13/cobra"
)

// archiveCmd represents the archive-logs command
var archiveCmd = &cobra.Command{
	Use:   "archive-logs [dir]",
	Short: "Zip a log directory and delete it",
	Long: `Zip a log directory into its parent as <name>-<YYYY-MM-DD_HH-MM-SS>.zip
and delete the directory once the archive is written. If anything fails the
directory is kept.

The directory defaults to the monitor's log directory (./logs).`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := cfg.Monitor.LogDirectory
		if len(args) == 1 {
			dir = args[0]
		}

		archiver := &archive.Archiver{Out: os.Stdout}
		if _, err := archiver.Archive(dir); err != nil {
			return exitError{code: 1}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(archiveCmd)
}
