/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"os"

	"github.com/allbin/serial-monitor/internal/crlf"
	"github.com/spf13/cobra"
)

// crlfCmd represents the check-crlf command
var crlfCmd = &cobra.Command{
	Use:   "check-crlf [path]",
	Short: "Find files with CRLF line endings",
	Long: `Scan a directory tree for text files that use CRLF line endings.

Symlinks are not followed and binary files are skipped. Exits with status 1
when any CRLF file is found.

Examples:
  serialmon check-crlf
  serialmon check-crlf firmware --ignore build --ignore .venv -v`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := "."
		if len(args) == 1 {
			root = args[0]
		}

		ignore, _ := cmd.Flags().GetStringSlice("ignore")
		verbose, _ := cmd.Flags().GetBool("verbose")

		checker := &crlf.Checker{
			Out:     os.Stdout,
			Ignore:  append(cfg.CRLF.Ignore, ignore...),
			Verbose: verbose,
		}
		result, err := checker.Check(root)
		if err != nil {
			return err
		}
		if result.Found() {
			return exitError{code: 1}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(crlfCmd)

	crlfCmd.Flags().StringSlice("ignore", nil, "Directory to skip, relative to the root (repeatable)")
	crlfCmd.Flags().BoolP("verbose", "v", false, "List ignored directories")
}
