/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/allbin/serial-monitor/internal/config"
	"github.com/allbin/serial-monitor/internal/logging"
	"github.com/allbin/serial-monitor/internal/tui/styles"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     = config.DefaultConfig()
)

// exitError ends the process with code after the command has already
// reported what went wrong.
type exitError struct {
	code int
}

func (e exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "serialmon",
	Short: "Serial port monitor and embedded project helpers",
	Long: `serialmon watches a serial device, printing every line it sends with
optional timestamps and keyword highlighting. It keeps waiting while the
device is unplugged and reconnects when it comes back.

It also bundles a few helpers for embedded projects: timestamp conversion,
CRLF detection, log archiving and clang-format runs.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(cfgFile, cmd.Flags())
		if err != nil {
			return err
		}
		cfg = loaded

		logCfg := logging.DefaultConfig()
		logCfg.Level = cfg.LogLevel
		logging.Setup(logCfg, os.Stderr)

		log.Debug().Str("command", cmd.Name()).Str("config", cfgFile).Msg("configuration loaded")
		return nil
	},
}

// Execute runs the command tree and returns the process exit code.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() int {
	err := rootCmd.Execute()
	if err == nil {
		return 0
	}

	var exit exitError
	if errors.As(err, &exit) {
		return exit.code
	}
	fmt.Fprintf(os.Stderr, "%s %v\n", styles.ErrorStyle.Render("Error:"), err)
	return 1
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.serialmon.yaml)")
	rootCmd.PersistentFlags().String("log-level", "warn", "diagnostic log level (trace, debug, info, warn, error, disabled)")
}
