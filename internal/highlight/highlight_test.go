package highlight

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const red = "\x1b[31m"

func TestApplyPlainText(t *testing.T) {
	tests := []struct {
		name  string
		words []string
		line  string
		want  string
	}{
		{"single match", []string{"error"}, "an error here", "an " + On + "error" + Off + " here"},
		{"no match", []string{"error"}, "all good", "all good"},
		{"repeated", []string{"ab"}, "ab-ab", On + "ab" + Off + "-" + On + "ab" + Off},
		{"case sensitive", []string{"Error"}, "error Error", "error " + On + "Error" + Off},
		{"utf8 neighbours", []string{"ok"}, "✓ok✓", "✓" + On + "ok" + Off + "✓"},
		{"empty line", []string{"x"}, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, New(tt.words).Apply(tt.line))
		})
	}
}

func TestApplyLeavesOtherBytesIdentical(t *testing.T) {
	e := New([]string{"warn"})
	lines := []string{
		"warn",
		"  leading warn trailing  ",
		"tabs\tand warn\r",
		"prefixwarnsuffix",
	}

	for _, line := range lines {
		got := e.Apply(line)
		stripped := strings.ReplaceAll(strings.ReplaceAll(got, On, ""), Off, "")
		assert.Equal(t, line, stripped, "non-matched bytes changed for %q", line)
	}
}

func TestApplyRestoresActiveColor(t *testing.T) {
	e := New([]string{"fail"})
	line := red + "test fail done" + Off

	got := e.Apply(line)

	want := red + "test " + On + "fail" + Off + red + " done" + Off
	assert.Equal(t, want, got)

	// text after the match renders in the color active before it
	idx := strings.Index(got, "fail")
	after := got[idx+len("fail"):]
	require.True(t, strings.HasPrefix(after, Off+red), "got %q", after)
}

func TestApplyAfterResetEmitsPlainReset(t *testing.T) {
	e := New([]string{"x"})
	got := e.Apply(red + "a" + Off + " x")
	assert.Equal(t, red+"a"+Off+" "+On+"x"+Off, got)
}

func TestApplyRestoresStackedAttributes(t *testing.T) {
	bold := "\x1b[1m"
	e := New([]string{"ERR"})
	got := e.Apply(bold + red + "foo ERR bar")
	assert.Equal(t, bold+red+"foo "+On+"ERR"+Off+bold+red+" bar", got)
}

func TestApplyLaterColorStacksOnEarlier(t *testing.T) {
	green := "\x1b[32m"
	e := New([]string{"x"})
	got := e.Apply(red + "a" + green + "x b")
	assert.Equal(t, red+"a"+green+On+"x"+Off+red+green+" b", got)
}

func TestApplyResetClearsStackedAttributes(t *testing.T) {
	bold := "\x1b[1m"
	e := New([]string{"x"})

	assert.Equal(t, bold+red+Off+On+"x"+Off, e.Apply(bold+red+Off+"x"))

	compound := "\x1b[0;33m"
	assert.Equal(t, bold+compound+On+"x"+Off+compound, e.Apply(bold+compound+"x"))
}

func TestApplyDoesNotMatchAcrossEscapes(t *testing.T) {
	e := New([]string{"ab"})
	line := "a" + red + "b"
	assert.Equal(t, line, e.Apply(line))
}

func TestApplyDoesNotMatchInsideEscapes(t *testing.T) {
	e := New([]string{"31"})
	line := red + "value" + Off
	assert.Equal(t, line, e.Apply(line))
}

func TestApplyOverlapRules(t *testing.T) {
	t.Run("leftmost wins", func(t *testing.T) {
		e := New([]string{"bc", "ab"})
		assert.Equal(t, On+"ab"+Off+"c", e.Apply("abc"))
	})
	t.Run("first listed wins on tie", func(t *testing.T) {
		e := New([]string{"ab", "abc"})
		assert.Equal(t, On+"ab"+Off+"c", e.Apply("abc"))

		e = New([]string{"abc", "ab"})
		assert.Equal(t, On+"abc"+Off, e.Apply("abc"))
	})
}

func TestNewDropsEmptyWords(t *testing.T) {
	e := New([]string{"error", ""})
	assert.Equal(t, []string{"error"}, e.Words())
	assert.True(t, e.Enabled())

	assert.False(t, New([]string{""}).Enabled())
	assert.False(t, New(nil).Enabled())

	var nilEngine *Engine
	assert.False(t, nilEngine.Enabled())
	assert.Equal(t, "line", nilEngine.Apply("line"))
}

func TestParseWords(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"a,b", []string{"a", "b"}},
		{"[a,b]", []string{"a", "b"}},
		{" [ERROR, WARN ] ", []string{"ERROR", "WARN"}},
		{"single", []string{"single"}},
		{"a,,b,", []string{"a", "b"}},
		{"", nil},
		{"[]", nil},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseWords(tt.in), "ParseWords(%q)", tt.in)
	}
}
