// Package textwrap breaks long bubble text into multiple lines bounded by a
// pixel width. Widths are measured by the caller, so the package stays free of
// any toolkit dependency.
package textwrap

import "strings"

// DefaultMaxWidth is the pixel width beyond which bubble text is wrapped.
const DefaultMaxWidth = 400

// MeasureFunc returns the rendered pixel width of s in the font the caller
// intends to draw with. It must honor explicit line breaks by measuring the
// widest line.
type MeasureFunc func(s string) int

// Wrap inserts line breaks so that no line of text measures wider than
// maxWidth, accumulating whole words greedily. Text that already contains a
// line break, or that fits maxWidth as-is, is returned unchanged: caller
// formatting always wins. A single word wider than maxWidth is placed alone
// on its line, never split. Every word keeps a trailing space so the drawn
// text retains its padding.
//
// Wrap is idempotent: wrapped output contains a line break and is therefore
// returned unchanged on a second pass.
func Wrap(text string, measure MeasureFunc, maxWidth int) string {
	if maxWidth <= 0 {
		maxWidth = DefaultMaxWidth
	}
	if strings.Contains(text, "\n") || measure(text) <= maxWidth {
		return text
	}

	var sb strings.Builder
	spaceWidth := measure(" ")

	currentWidth := 0
	for _, word := range strings.Split(text, " ") {
		wordWidth := measure(word)
		if currentWidth+wordWidth+spaceWidth < maxWidth {
			sb.WriteString(word)
			sb.WriteString(" ")
			currentWidth += wordWidth + spaceWidth
		} else {
			// The break always precedes the overflowing word, even when it is
			// the first one. The resulting string contains a line break, which
			// is what makes Wrap idempotent on its own output.
			sb.WriteString("\n")
			sb.WriteString(word)
			sb.WriteString(" ")
			currentWidth = wordWidth + spaceWidth
		}
	}
	return sb.String()
}
