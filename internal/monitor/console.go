package monitor

import (
	"fmt"
	"io"
	"sync"

	"github.com/allbin/serial-monitor/internal/tui/styles"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
)

// Console prefixes distinguishing the kinds of operator-visible failure.
const (
	PrefixConnection = "Connection:"
	PrefixSend       = "Send error:"
	PrefixInput      = "Input error:"
	PrefixLog        = "Log error:"
)

// Console serializes monitor output. Device lines go to out; status
// lines, the retry spinner and errors go to errOut.
type Console struct {
	mu       sync.Mutex
	out      io.Writer
	errOut   io.Writer
	term     *termenv.Output
	spinning bool
}

func NewConsole(out, errOut io.Writer) *Console {
	return &Console{
		out:    out,
		errOut: errOut,
		term:   termenv.NewOutput(out),
	}
}

// Line prints one device or echo line.
func (c *Console) Line(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.endSpinLocked()
	fmt.Fprintln(c.out, s)
}

// Clear wipes the terminal and homes the cursor.
func (c *Console) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.term.ClearScreen()
}

// Spin overwrites the current status line without ending it.
func (c *Console) Spin(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprint(c.errOut, "\r"+ansi.EraseEntireLine+styles.StatusConnectingStyle.Render(text))
	c.spinning = true
}

// EndSpin erases the spinner line if one is showing.
func (c *Console) EndSpin() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.endSpinLocked()
}

func (c *Console) endSpinLocked() {
	if c.spinning {
		fmt.Fprint(c.errOut, "\r"+ansi.EraseEntireLine)
		c.spinning = false
	}
}

// Status prints an icon-prefixed status line.
func (c *Console) Status(status styles.StatusType, format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.endSpinLocked()
	icon := styles.GetStatusStyle(status).Render(styles.StatusIcon(status))
	fmt.Fprintf(c.errOut, "%s %s\n", icon, fmt.Sprintf(format, args...))
}

// Connection reports a connection problem.
func (c *Console) Connection(format string, args ...any) {
	c.prefixed(styles.StatusConnectingStyle.Render(PrefixConnection), fmt.Sprintf(format, args...))
}

// SendError reports a failed write to the device.
func (c *Console) SendError(err error) {
	c.prefixed(styles.ErrorStyle.Render(PrefixSend), err.Error())
}

// InputError reports a failure reading operator input.
func (c *Console) InputError(err error) {
	c.prefixed(styles.ErrorStyle.Render(PrefixInput), err.Error())
}

// LogError reports a failed log append.
func (c *Console) LogError(err error) {
	c.prefixed(styles.ErrorStyle.Render(PrefixLog), err.Error())
}

func (c *Console) prefixed(prefix, msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.endSpinLocked()
	fmt.Fprintf(c.errOut, "%s %s\n", prefix, msg)
}
