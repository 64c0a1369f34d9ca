/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/allbin/serial-monitor/internal/format"
	"github.com/spf13/cobra"
)

// formatCmd represents the format-code command
var formatCmd = &cobra.Command{
	Use:   "format-code [path]",
	Short: "Run clang-format over C and C++ sources",
	Long: `Run clang-format over every .c .h .cpp .hpp .cc and .cxx file under a
directory, in parallel, using the project's .clang-format style.

With --check nothing is rewritten: a unified diff is printed for every file
that needs formatting and the command exits with status 1.

Examples:
  serialmon format-code
  serialmon format-code src --ignore third_party
  serialmon format-code --check`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := "."
		if len(args) == 1 {
			root = args[0]
		}

		check, _ := cmd.Flags().GetBool("check")
		verbose, _ := cmd.Flags().GetBool("verbose")
		ignore, _ := cmd.Flags().GetStringSlice("ignore")
		jobs, _ := cmd.Flags().GetInt("jobs")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		formatter := &format.Formatter{
			Binary:     cfg.Format.Binary,
			Extensions: cfg.Format.Extensions,
			Ignore:     append(cfg.Format.Ignore, ignore...),
			Check:      check,
			Verbose:    verbose,
			Jobs:       jobs,
			Out:        os.Stdout,
			Err:        os.Stderr,
		}
		result, err := formatter.Format(ctx, root)
		if err != nil {
			return err
		}
		if check && result.NeedsFormatting() {
			return exitError{code: 1}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(formatCmd)

	formatCmd.Flags().Bool("check", false, "Report files that need formatting without changing them")
	formatCmd.Flags().StringSlice("ignore", nil, "Directory to skip, relative to the root (repeatable)")
	formatCmd.Flags().BoolP("verbose", "v", false, "List ignored directories, found and reformatted files")
	formatCmd.Flags().IntP("jobs", "j", 0, "Parallel clang-format processes (default: number of CPUs)")
	formatCmd.Flags().String("clang-format", format.DefaultBinary, "clang-format binary to run")
}
