package replacer

import "strings"

// countNewlines reports how many '\n' bytes s contains.
func countNewlines(s string) int {
	return strings.Count(s, "\n")
}

// preserveNewlines pads s with trailing '\n' bytes until it contains at
// least height of them, never truncating. Used so a rewritten region that
// condenses several source lines onto one line of output doesn't drag
// every following top-level statement's line number out of sync with the
// original source.
func preserveNewlines(s string, height int) string {
	n := countNewlines(s)
	if n >= height {
		return s
	}
	return s + strings.Repeat("\n", height-n)
}

// syncNewlines pads text to the newline height of the original [start,end)
// source span, using the replacer's source line table.
func (s *state) syncNewlines(start, end int, text string) string {
	if start >= end || start < 0 || end > len(s.ctx.SourceCode) {
		return text
	}
	height := countNewlines(s.ctx.SourceCode[start:end])
	return preserveNewlines(text, height)
}
