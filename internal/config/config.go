// Package config loads serialmon settings from an optional YAML file,
// SERIALMON_* environment variables and command-line flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/allbin/serial-monitor/internal/highlight"
	"github.com/allbin/serial-monitor/internal/stamp"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. SERIALMON_MONITOR_BAUD.
const EnvPrefix = "SERIALMON"

// Monitor holds the settings consumed by the monitor command.
type Monitor struct {
	Baud          int           `mapstructure:"baud"`
	Send          bool          `mapstructure:"send"`
	Highlight     []string      `mapstructure:"highlight"`
	Log           bool          `mapstructure:"log"`
	LogFile       string        `mapstructure:"log_file"`
	LogDirectory  string        `mapstructure:"log_directory"`
	PrintTime     string        `mapstructure:"print_time"`
	Clear         bool          `mapstructure:"clear"`
	RetryInterval time.Duration `mapstructure:"retry_interval"`
	PollInterval  time.Duration `mapstructure:"poll_interval"`
}

// Format holds settings for format-code.
type Format struct {
	Binary     string   `mapstructure:"binary"`
	Extensions []string `mapstructure:"extensions"`
	Ignore     []string `mapstructure:"ignore"`
}

// CRLF holds settings for check-crlf.
type CRLF struct {
	Ignore []string `mapstructure:"ignore"`
}

// Config is the full configuration.
type Config struct {
	LogLevel string  `mapstructure:"log_level"`
	Monitor  Monitor `mapstructure:"monitor"`
	Format   Format  `mapstructure:"format"`
	CRLF     CRLF    `mapstructure:"crlf"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		LogLevel: "warn",
		Monitor: Monitor{
			Baud:          115200,
			LogDirectory:  "logs",
			RetryInterval: 250 * time.Millisecond,
			PollInterval:  100 * time.Millisecond,
		},
		Format: Format{
			Binary:     "clang-format",
			Extensions: []string{".c", ".h", ".cpp", ".hpp", ".cc", ".cxx"},
		},
	}
}

// DefaultConfigPath returns $HOME/.serialmon.yaml.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".serialmon.yaml"), nil
}

// flagKeys maps command-line flag names onto config keys.
var flagKeys = map[string]string{
	"log-level":      "log_level",
	"baud":           "monitor.baud",
	"send":           "monitor.send",
	"highlight":      "monitor.highlight",
	"log":            "monitor.log",
	"log-file":       "monitor.log_file",
	"log-directory":  "monitor.log_directory",
	"print-time":     "monitor.print_time",
	"clear":          "monitor.clear",
	"retry-interval": "monitor.retry_interval",
	"poll-interval":  "monitor.poll_interval",
	"clang-format":   "format.binary",
}

// Load reads path (or the default path when empty) and overlays the
// environment and any flags in flags that map onto config keys. A
// missing default file is not an error; a missing explicit one is.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	explicit := path != ""
	if !explicit {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return Config{}, err
		}
		path = defaultPath
	}

	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("log_level", cfg.LogLevel)
	v.SetDefault("monitor.baud", cfg.Monitor.Baud)
	v.SetDefault("monitor.send", cfg.Monitor.Send)
	v.SetDefault("monitor.highlight", cfg.Monitor.Highlight)
	v.SetDefault("monitor.log", cfg.Monitor.Log)
	v.SetDefault("monitor.log_file", cfg.Monitor.LogFile)
	v.SetDefault("monitor.log_directory", cfg.Monitor.LogDirectory)
	v.SetDefault("monitor.print_time", cfg.Monitor.PrintTime)
	v.SetDefault("monitor.clear", cfg.Monitor.Clear)
	v.SetDefault("monitor.retry_interval", cfg.Monitor.RetryInterval)
	v.SetDefault("monitor.poll_interval", cfg.Monitor.PollInterval)
	v.SetDefault("format.binary", cfg.Format.Binary)
	v.SetDefault("format.extensions", cfg.Format.Extensions)
	v.SetDefault("format.ignore", cfg.Format.Ignore)
	v.SetDefault("crlf.ignore", cfg.CRLF.Ignore)

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var pathErr *os.PathError
		if explicit || !errors.As(err, &pathErr) {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	// "[a,b]" from a flag or env var arrives split as "[a" and "b]"
	cfg.Monitor.Highlight = highlight.ParseWords(strings.Join(cfg.Monitor.Highlight, ","))

	return cfg, nil
}

// Validate checks the monitor settings.
func (m Monitor) Validate() error {
	if m.Baud <= 0 {
		return fmt.Errorf("invalid baud rate %d", m.Baud)
	}
	if _, err := stamp.ParseMode(m.PrintTime); err != nil {
		return err
	}
	if m.RetryInterval <= 0 {
		return fmt.Errorf("retry interval must be positive, got %s", m.RetryInterval)
	}
	if m.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %s", m.PollInterval)
	}
	if m.Log && m.LogDirectory == "" && m.LogFile == "" {
		return errors.New("logging enabled without a log file or directory")
	}
	return nil
}
