package digest

import "unicode/utf8"

// TruncationMarker is appended to text shortened by Clamp.
const TruncationMarker = "\n...[truncated]..."

// Clamp returns text unchanged when it has at most max characters.
// Otherwise it returns the first max characters followed by
// TruncationMarker. Characters are runes, so multi-byte text is never split.
// Clamping a clamped string returns it unchanged. A non-positive max
// disables clamping.
func Clamp(text string, max int) string {
	if max <= 0 || utf8.RuneCountInString(text) <= max {
		return text
	}

	n := 0
	for i := range text {
		if n == max {
			return text[:i] + TruncationMarker
		}
		n++
	}
	return text
}
