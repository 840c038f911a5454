// Package ansi recognizes and removes SGR-style ANSI escape sequences
// so text width can be measured as a terminal would display it.
package ansi

import "regexp"

// sgr matches Select Graphic Rendition sequences: ESC '[' followed by
// any run of digits and semicolons, terminated by 'm'. Other CSI
// command codes (cursor movement, erase) are intentionally not matched
// and pass through as ordinary text.
var sgr = regexp.MustCompile("\x1b\\[[0-9;]*m")

// Strip returns s with every SGR escape sequence removed. All other
// characters keep their original relative order, so stripping an
// already-stripped string returns it unchanged.
func Strip(s string) string {
	return sgr.ReplaceAllString(s, "")
}

// Count returns the number of non-overlapping SGR sequences in s.
func Count(s string) int {
	return len(sgr.FindAllStringIndex(s, -1))
}
