// Package report renders file analysis results in text, Markdown, and
// JSON form.
package report

import (
	"fmt"
	"io"

	"github.com/harrison/framecheck/internal/analyzer"
)

// Writer renders the analysis of a single file. Implementations write
// one complete report per call so multiple files can be emitted to the
// same destination in sequence.
type Writer interface {
	Write(rep *analyzer.FileReport) error
}

// WriteError emits the one-line failure report used when a file cannot
// be read or decoded. It is shared by all formats so a failed file
// always looks the same.
func WriteError(w io.Writer, path string, err error) {
	fmt.Fprintf(w, "Error analyzing %s: %v\n", path, err)
}

// truncateRunes returns the first n runes of s. Truncation is for
// display only and never affects measurements.
func truncateRunes(s string, n int) string {
	if n <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
