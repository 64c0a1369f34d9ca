package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) int {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	rootCmd.SetArgs(args)
	return Execute()
}

func TestTimestampExitCodes(t *testing.T) {
	assert.Equal(t, 0, run(t, "timestamp", "1700000000"))
	assert.Equal(t, 1, run(t, "timestamp", "yesterday"))
}

func TestCheckCRLFExitCodes(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "clean.txt"), []byte("unix\n"), 0o644))
	assert.Equal(t, 0, run(t, "check-crlf", dir))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "dirty.txt"), []byte("dos\r\n"), 0o644))
	assert.Equal(t, 1, run(t, "check-crlf", dir))

	assert.Equal(t, 1, run(t, "check-crlf", filepath.Join(dir, "missing")))
}

func TestArchiveLogsExitCodes(t *testing.T) {
	parent := t.TempDir()
	logs := filepath.Join(parent, "logs")
	require.NoError(t, os.Mkdir(logs, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(logs, "a.log"), []byte("x"), 0o644))

	assert.Equal(t, 0, run(t, "archive-logs", logs))
	assert.NoDirExists(t, logs)

	assert.Equal(t, 1, run(t, "archive-logs", logs))
}

func TestMonitorRejectsBadSettings(t *testing.T) {
	assert.Equal(t, 1, run(t, "monitor", "ACM0", "--print-time", "weekday"))
	assert.Equal(t, 1, run(t, "monitor", " ", "--print-time", "ms"))
}

func TestGetPortType(t *testing.T) {
	tests := map[string]string{
		"ttyUSB0": "USB Serial",
		"ttyACM1": "USB CDC/ACM",
		"ttyAMA0": "ARM Serial",
		"ttyS0":   "Standard Serial",
		"ttySAC0": "Samsung Serial",
		"COM3":    "Serial Port",
	}
	for name, want := range tests {
		assert.Equal(t, want, getPortType(name), name)
	}
}
