package report

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/harrison/framecheck/internal/analyzer"
)

// colorScheme defines the colors used in text reports.
// Cyan: file headers. Yellow: inconsistency warnings. Green: the
// consistent-width confirmation.
type colorScheme struct {
	header *color.Color
	warn   *color.Color
	ok     *color.Color
}

// newColorScheme creates the scheme with color forced on or off.
// Forcing avoids depending on fatih/color's global TTY detection, which
// would make buffer-directed output in tests environment-dependent.
func newColorScheme(enabled bool) *colorScheme {
	scheme := &colorScheme{
		header: color.New(color.FgCyan, color.Bold),
		warn:   color.New(color.FgYellow),
		ok:     color.New(color.FgGreen),
	}
	for _, c := range []*color.Color{scheme.header, scheme.warn, scheme.ok} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return scheme
}

// TextWriter renders reports in the plain per-line listing format:
//
//	=== Analyzing <path> ===
//
//	Line  1: raw= 42, visual= 34, ansi= 2 | <visible text>
//	...
//
//	Width range: <min> - <max> characters
//	✓ Consistent width
//
// Visible text longer than the truncation limit is shortened for
// display; the measured lengths are unaffected.
type TextWriter struct {
	out      io.Writer
	truncate int
	scheme   *colorScheme
}

// NewTextWriter creates a TextWriter. Colors are applied only when out
// is the process stdout and stdout is a terminal.
func NewTextWriter(out io.Writer, truncate int) *TextWriter {
	enabled := out == os.Stdout && isatty.IsTerminal(os.Stdout.Fd())
	return &TextWriter{
		out:      out,
		truncate: truncate,
		scheme:   newColorScheme(enabled),
	}
}

// Write renders one file report.
func (w *TextWriter) Write(rep *analyzer.FileReport) error {
	header := w.scheme.header.Sprintf("=== Analyzing %s ===", rep.Path)
	if _, err := fmt.Fprintf(w.out, "\n%s\n\n", header); err != nil {
		return err
	}

	for _, rec := range rep.Lines {
		_, err := fmt.Fprintf(w.out, "Line %2d: raw=%3d, visual=%3d, ansi=%2d | %s\n",
			rec.Index, rec.RawLen, rec.VisibleLen, rec.EscapeCount,
			truncateRunes(rec.Visible, w.truncate))
		if err != nil {
			return err
		}
	}

	// A file with no visible text has no width range to report.
	if rep.Samples == 0 {
		return nil
	}

	if _, err := fmt.Fprintf(w.out, "\nWidth range: %d - %d characters\n", rep.MinWidth, rep.MaxWidth); err != nil {
		return err
	}

	var verdict string
	if rep.Consistent() {
		verdict = w.scheme.ok.Sprint("✓ Consistent width")
	} else {
		verdict = w.scheme.warn.Sprintf("⚠️  INCONSISTENT WIDTH: %d character difference", rep.WidthGap())
	}
	_, err := fmt.Fprintln(w.out, verdict)
	return err
}
