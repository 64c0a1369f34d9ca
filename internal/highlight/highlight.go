// Package highlight colors literal words inside terminal output without
// disturbing the escape sequences already present in the line.
package highlight

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

const (
	// On is black text on a green background.
	On = "\x1b[30;42m"
	// Off resets all attributes.
	Off = "\x1b[0m"
)

// Engine highlights an ordered, immutable set of words.
//
// Matches are case-sensitive and never overlap. Scanning left to right,
// the leftmost match wins; when several words match at the same
// position the one listed first wins. Matching happens inside visible
// text only and never spans an escape sequence.
type Engine struct {
	words []string
}

// New returns an Engine for words. Empty words are dropped.
func New(words []string) *Engine {
	e := &Engine{}
	for _, w := range words {
		if w != "" {
			e.words = append(e.words, w)
		}
	}
	return e
}

// Enabled reports whether there is anything to highlight.
func (e *Engine) Enabled() bool {
	return e != nil && len(e.words) > 0
}

// Words returns a copy of the configured words.
func (e *Engine) Words() []string {
	return append([]string(nil), e.words...)
}

// Apply returns line with every match wrapped in On/Off. After each
// match the SGR sequences in effect at the match start are written
// again, so trailing text keeps its original attributes.
func (e *Engine) Apply(line string) string {
	if !e.Enabled() || line == "" {
		return line
	}

	var (
		out    strings.Builder
		text   strings.Builder // pending visible run
		active string          // SGRs since the last reset
		state  byte
	)
	out.Grow(len(line) + 16)

	flush := func() {
		if text.Len() > 0 {
			e.splice(&out, text.String(), active)
			text.Reset()
		}
	}

	remaining := line
	for len(remaining) > 0 {
		seq, _, n, newState := ansi.DecodeSequence(remaining, state, nil)
		state = newState
		if n <= 0 {
			// Not expected from DecodeSequence; copy the rest verbatim.
			text.WriteString(remaining)
			break
		}
		remaining = remaining[n:]

		if !isEscape(seq) {
			text.WriteString(seq)
			continue
		}

		flush()
		out.WriteString(seq)
		if isSGR(seq) {
			switch {
			case isReset(seq):
				active = ""
			case startsWithReset(seq):
				active = seq
			default:
				active += seq
			}
		}
	}
	flush()

	return out.String()
}

// splice writes run to out with matches wrapped.
func (e *Engine) splice(out *strings.Builder, run, active string) {
	for i := 0; i < len(run); {
		word := e.matchAt(run, i)
		if word == "" {
			out.WriteByte(run[i])
			i++
			continue
		}
		out.WriteString(On)
		out.WriteString(word)
		out.WriteString(Off)
		out.WriteString(active)
		i += len(word)
	}
}

// matchAt returns the first listed word that starts at run[i:].
func (e *Engine) matchAt(run string, i int) string {
	for _, w := range e.words {
		if strings.HasPrefix(run[i:], w) {
			return w
		}
	}
	return ""
}

func isEscape(seq string) bool {
	if seq == "" {
		return false
	}
	switch seq[0] {
	case ansi.ESC, ansi.CSI, ansi.OSC, ansi.DCS, ansi.APC, ansi.SOS, ansi.PM:
		return true
	}
	return false
}

// isSGR reports whether seq is a Select Graphic Rendition sequence.
func isSGR(seq string) bool {
	return (strings.HasPrefix(seq, "\x1b[") || strings.HasPrefix(seq, "\x9b")) && strings.HasSuffix(seq, "m")
}

func sgrParams(seq string) string {
	return strings.TrimSuffix(strings.TrimPrefix(strings.TrimPrefix(seq, "\x1b["), "\x9b"), "m")
}

func isReset(seq string) bool {
	params := sgrParams(seq)
	return params == "" || strings.Trim(params, "0") == ""
}

// startsWithReset reports whether seq clears attributes before setting
// new ones, as in "\x1b[0;31m".
func startsWithReset(seq string) bool {
	first, _, _ := strings.Cut(sgrParams(seq), ";")
	return first == "" || strings.Trim(first, "0") == ""
}

// ParseWords splits a highlight flag value. Both "a,b" and "[a,b]" are
// accepted; surrounding whitespace and empty entries are dropped.
func ParseWords(s string) []string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")

	var words []string
	for _, w := range strings.Split(s, ",") {
		w = strings.TrimSpace(w)
		if w != "" {
			words = append(words, w)
		}
	}
	return words
}
