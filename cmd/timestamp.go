/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"

	"github.com/allbin/serial-monitor/internal/stamp"
	"github.com/allbin/serial-monitor/internal/tui/styles"
	"github.com/spf13/cobra"
)

// timestampCmd represents the timestamp command
var timestampCmd = &cobra.Command{
	Use:   "timestamp <value>",
	Short: "Convert between Unix timestamps and ISO 8601",
	Long: `Convert a Unix timestamp or an ISO 8601 string and print it as UTC,
local time and Unix seconds.

Values of 1e11 and above are taken as milliseconds. ISO strings without a
zone are taken as UTC.

Examples:
  serialmon timestamp 1700000000
  serialmon timestamp 1700000000123
  serialmon timestamp 2023-11-14T22:13:20Z`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		converted, err := stamp.Parse(args[0])
		if err != nil {
			return err
		}

		label := styles.HintStyle
		fmt.Printf("%s %s\n", label.Render("UTC:      "), converted.UTC())
		fmt.Printf("%s %s\n", label.Render("Local:    "), converted.Local())
		fmt.Printf("%s %.3f\n", label.Render("Timestamp:"), converted.Epoch)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(timestampCmd)
}
