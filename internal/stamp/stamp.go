// Package stamp formats line timestamps and converts timestamp strings
// between Unix and ISO 8601 forms.
package stamp

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Mode selects how a line timestamp is rendered.
type Mode string

const (
	ModeNone     Mode = ""
	ModeEpoch    Mode = "epoch"
	ModeMillis   Mode = "ms"
	ModeDateTime Mode = "datetime"
	ModeDT       Mode = "dt"
)

// DateTimeLayout is the local layout used by ModeDateTime.
const DateTimeLayout = "2006-01-02 15:04:05.000"

var ErrUnknownMode = errors.New("unknown timestamp mode")

// ParseMode validates a mode name given on the command line.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeNone, ModeEpoch, ModeMillis, ModeDateTime, ModeDT:
		return m, nil
	case "none":
		return ModeNone, nil
	default:
		return ModeNone, fmt.Errorf("%w: %q (want epoch, ms, dt or datetime)", ErrUnknownMode, s)
	}
}

// Format renders t in the given mode. Unknown modes render as "".
func Format(mode Mode, t time.Time) string {
	switch mode {
	case ModeEpoch:
		return strconv.FormatFloat(float64(t.UnixMicro())/1e6, 'f', 3, 64)
	case ModeMillis:
		return strconv.FormatInt(t.UnixMilli(), 10)
	case ModeDateTime, ModeDT:
		return t.Local().Format(DateTimeLayout)
	default:
		return ""
	}
}

// Prefix is Format wrapped for prepending to a line: "[stamp] ".
func Prefix(mode Mode, t time.Time) string {
	s := Format(mode, t)
	if s == "" {
		return ""
	}
	return "[" + s + "] "
}

// millisThreshold separates epoch seconds from epoch milliseconds.
// 1e11 seconds is far past year 5000, 1e11 ms is early 1973.
const millisThreshold = 1e11

var ErrInvalidTimestamp = errors.New("is neither a valid Unix timestamp nor ISO 8601 string")

var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// Converted is the result of Parse.
type Converted struct {
	Time  time.Time
	Epoch float64
}

// UTC renders the instant as 2006-01-02T15:04:05.000Z.
func (c Converted) UTC() string {
	return c.Time.UTC().Format("2006-01-02T15:04:05.000Z")
}

// Local renders the instant in the local zone with its offset.
func (c Converted) Local() string {
	return c.Time.Local().Format("2006-01-02T15:04:05.000-07:00")
}

// Parse accepts epoch seconds (optionally fractional), epoch
// milliseconds (values >= 1e11) or an ISO 8601 string. ISO strings
// without a zone are taken as UTC.
func Parse(value string) (Converted, error) {
	value = strings.TrimSpace(value)

	if f, err := strconv.ParseFloat(value, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		if math.Abs(f) >= millisThreshold {
			return Converted{
				Time:  time.UnixMicro(int64(math.Round(f * 1e3))).UTC(),
				Epoch: f / 1e3,
			}, nil
		}
		return Converted{
			Time:  time.UnixMicro(int64(math.Round(f * 1e6))).UTC(),
			Epoch: f,
		}, nil
	}

	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return Converted{
				Time:  t.UTC(),
				Epoch: float64(t.UnixMicro()) / 1e6,
			}, nil
		}
	}

	return Converted{}, fmt.Errorf("%q %w", value, ErrInvalidTimestamp)
}
