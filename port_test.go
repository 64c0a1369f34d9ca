package serial

import (
	"strings"
	"testing"
)

func TestLineBufferSplitsOnDelimiter(t *testing.T) {
	b := newLineBuffer('\n', 0)
	b.write([]byte("one\ntwo\nthr"))

	var got []string
	for {
		line, ok := b.next()
		if !ok {
			break
		}
		got = append(got, string(line))
	}

	if strings.Join(got, ",") != "one,two" {
		t.Errorf("lines = %q, want [one two]", got)
	}
	if rest := b.flush(); string(rest) != "thr" {
		t.Errorf("flush() = %q, want %q", rest, "thr")
	}
	if rest := b.flush(); rest != nil {
		t.Errorf("second flush() = %q, want nil", rest)
	}
}

func TestLineBufferEmptyLine(t *testing.T) {
	b := newLineBuffer('\n', 0)
	b.write([]byte("\n"))

	line, ok := b.next()
	if !ok {
		t.Fatal("expected a line")
	}
	if len(line) != 0 {
		t.Errorf("line = %q, want empty", line)
	}
}

func TestLineBufferMaxLength(t *testing.T) {
	b := newLineBuffer('\n', 4)
	b.write([]byte("abcdefg"))

	line, ok := b.next()
	if !ok || string(line) != "abcd" {
		t.Fatalf("next() = %q, %v; want abcd, true", line, ok)
	}
	if _, ok := b.next(); ok {
		t.Error("expected no second line before delimiter")
	}
	if rest := b.flush(); string(rest) != "efg" {
		t.Errorf("flush() = %q, want efg", rest)
	}
}

func TestLineBufferReturnedLinesAreCopies(t *testing.T) {
	b := newLineBuffer('\n', 0)
	b.write([]byte("abc\n"))
	line, _ := b.next()
	b.write([]byte("xyz\n"))

	if string(line) != "abc" {
		t.Errorf("line mutated to %q", line)
	}
}
