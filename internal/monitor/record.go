package monitor

import (
	"strings"
	"time"

	"github.com/allbin/serial-monitor/internal/highlight"
	"github.com/allbin/serial-monitor/internal/stamp"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// LineRecord is one unit of traffic on its way to the console and log.
type LineRecord struct {
	Raw      []byte
	Text     string // decoded, invalid UTF-8 replaced
	Stamp    string // "[...] " or ""
	Rendered string // Stamp + highlighted Text
}

// Logged is the form written to the log sink, without highlighting.
func (r LineRecord) Logged() string {
	return r.Stamp + r.Text
}

func newRecord(raw []byte, mode stamp.Mode, at time.Time, hl *highlight.Engine) LineRecord {
	text := decode(raw)
	rec := LineRecord{
		Raw:   raw,
		Text:  text,
		Stamp: stamp.Prefix(mode, at),
	}
	rec.Rendered = rec.Stamp + hl.Apply(text)
	return rec
}

// decode turns device bytes into text. Ill-formed UTF-8 becomes U+FFFD
// and a trailing carriage return from CRLF devices is dropped.
func decode(raw []byte) string {
	out, _, err := transform.Bytes(runes.ReplaceIllFormed(), raw)
	if err != nil {
		out = raw
	}
	return strings.TrimSuffix(string(out), "\r")
}
