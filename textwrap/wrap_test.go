package textwrap

import (
	"strings"
	"testing"
)

// charWidth measures 7px per rune, which is roughly what the default system
// font renders at. Line breaks measure as the widest line.
func charWidth(s string) int {
	widest := 0
	for _, line := range strings.Split(s, "\n") {
		if w := len(line) * 7; w > widest {
			widest = w
		}
	}
	return widest
}

func TestWrapShortTextUnchanged(t *testing.T) {
	t.Parallel()

	in := "short text"
	if got := Wrap(in, charWidth, DefaultMaxWidth); got != in {
		t.Errorf("short text modified: %q", got)
	}
}

func TestWrapKeepsCallerLineBreaks(t *testing.T) {
	t.Parallel()

	// Way over any width limit, but the caller formatted it already.
	in := strings.Repeat("formatted ", 30) + "\n" + strings.Repeat("by caller ", 30)
	if got := Wrap(in, charWidth, 100); got != in {
		t.Errorf("caller-formatted text modified: %q", got)
	}
}

func TestWrapBreaksLongText(t *testing.T) {
	t.Parallel()

	in := strings.TrimSpace(strings.Repeat("word ", 40))
	got := Wrap(in, charWidth, 100)

	if !strings.Contains(got, "\n") {
		t.Fatalf("expected line breaks in %q", got)
	}
	for i, line := range strings.Split(got, "\n") {
		if w := charWidth(line); w >= 100+charWidth("word ") {
			t.Errorf("line %d too wide (%dpx): %q", i, w, line)
		}
	}
}

func TestWrapTrailingSpaceFollowsEveryWord(t *testing.T) {
	t.Parallel()

	in := "aa bb cc dd"
	got := Wrap(in, charWidth, 30)
	for i, line := range strings.Split(got, "\n") {
		if !strings.HasSuffix(line, " ") {
			t.Errorf("line %d missing trailing space: %q", i, line)
		}
	}
}

func TestWrapIdempotent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		in       string
		maxWidth int
	}{
		{name: "short", in: "fits", maxWidth: 100},
		{name: "long", in: strings.TrimSpace(strings.Repeat("word ", 40)), maxWidth: 100},
		{name: "preformatted", in: "a\nb", maxWidth: 10},
		{name: "single oversized word", in: "incomprehensibilities", maxWidth: 50},
		{name: "default width", in: strings.TrimSpace(strings.Repeat("lorem ipsum ", 20)), maxWidth: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			once := Wrap(tt.in, charWidth, tt.maxWidth)
			twice := Wrap(once, charWidth, tt.maxWidth)
			if once != twice {
				t.Errorf("not idempotent:\nonce:  %q\ntwice: %q", once, twice)
			}
		})
	}
}

func TestWrapNeverSplitsSingleWord(t *testing.T) {
	t.Parallel()

	in := "supercalifragilisticexpialidocious"
	got := Wrap(in, charWidth, 50)

	for _, line := range strings.Split(got, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" && trimmed != in {
			t.Errorf("word was split: line %q", line)
		}
	}
}
