// Package textedit splices line breaks into input values. Selection
// offsets from the DOM are UTF-16 code unit indices, so the splice works
// in UTF-16 space to keep the caret honest around astral characters.
package textedit

import "unicode/utf16"

// InsertBreak replaces the selection [start, end) in value with a single
// newline and returns the new value plus the caret position immediately
// after the inserted character. Out-of-range offsets are clamped.
func InsertBreak(value string, start, end int) (string, int) {
	units := utf16.Encode([]rune(value))
	n := len(units)

	start = clamp(start, 0, n)
	end = clamp(end, 0, n)
	if end < start {
		start, end = end, start
	}

	out := make([]uint16, 0, n-(end-start)+1)
	out = append(out, units[:start]...)
	out = append(out, uint16('\n'))
	out = append(out, units[end:]...)
	return string(utf16.Decode(out)), start + 1
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
