/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/allbin/serial-monitor"
	"github.com/allbin/serial-monitor/internal/highlight"
	"github.com/allbin/serial-monitor/internal/logsink"
	"github.com/allbin/serial-monitor/internal/monitor"
	"github.com/allbin/serial-monitor/internal/stamp"
	"github.com/allbin/serial-monitor/internal/tui/styles"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// monitorCmd represents the monitor command
var monitorCmd = &cobra.Command{
	Use:   "monitor <port>",
	Short: "Print everything a serial device sends",
	Long: `Open a serial device and print every line it sends until Ctrl+C.

The port may be a full path or a short name: ACM0 and ttyACM0 both mean
/dev/ttyACM0. If the device is missing the monitor waits for it, and if it
disappears mid-session the monitor reconnects.

Examples:
  serialmon monitor ACM0
  serialmon monitor /dev/ttyUSB0 -b 9600 -t ms
  serialmon monitor ACM0 --highlight ERROR,WARN -l
  serialmon monitor ACM0 -s          # also send typed lines to the device`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m := cfg.Monitor
		if err := m.Validate(); err != nil {
			return err
		}

		name := strings.TrimSpace(args[0])
		if name == "" {
			return errors.New("port name is required")
		}
		path := serial.Resolve(name)
		mode, _ := stamp.ParseMode(m.PrintTime)

		console := monitor.NewConsole(os.Stdout, os.Stderr)
		if m.Clear {
			console.Clear()
		}

		opts := monitor.Options{
			Path:          path,
			Baud:          m.Baud,
			Send:          m.Send,
			Highlight:     highlight.New(m.Highlight),
			Stamp:         mode,
			RetryInterval: m.RetryInterval,
			PollInterval:  m.PollInterval,
		}

		if m.Log || m.LogFile != "" {
			file := m.LogFile
			if file == "" {
				file = logsink.DefaultName(path, time.Now())
			}
			sink, err := logsink.Open(m.LogDirectory, file)
			if err != nil {
				return err
			}
			defer sink.Close()
			opts.Sink = sink
			console.Status(styles.StatusConnected, "Logging to %s", sink.Path())
		}

		var input monitor.Input
		if m.Send {
			if !term.IsTerminal(int(os.Stdin.Fd())) {
				log.Debug().Msg("stdin is not a terminal, sending piped input")
			}
			input = monitor.NewStdinInput()
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		supervisor := monitor.NewSupervisor(opts, console, input)
		err := supervisor.Run(ctx)
		if errors.Is(err, monitor.ErrInterrupted) {
			return nil
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(monitorCmd)

	monitorCmd.Flags().IntP("baud", "b", 115200, "Baud rate")
	monitorCmd.Flags().BoolP("send", "s", false, "Send lines typed on stdin to the device")
	monitorCmd.Flags().String("highlight", "", "Words to highlight, comma-separated (a,b or [a,b])")
	monitorCmd.Flags().BoolP("log", "l", false, "Append all traffic to a log file")
	monitorCmd.Flags().String("log-file", "", "Log file name (default <device>_<timestamp>.log)")
	monitorCmd.Flags().String("log-directory", "logs", "Directory for log files, created if missing")
	monitorCmd.Flags().StringP("print-time", "t", "", "Prefix lines with a timestamp: epoch, ms, dt or datetime")
	monitorCmd.Flags().BoolP("clear", "c", false, "Clear the terminal before starting")
	monitorCmd.Flags().Duration("retry-interval", monitor.DefaultRetryInterval, "Wait between attempts to open the device")
	monitorCmd.Flags().Duration("poll-interval", monitor.DefaultPollInterval, "How often send mode checks for input")
}
