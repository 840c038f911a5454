// Package analyzer measures line widths in text containing ANSI escape
// sequences.
//
// For each input line it records the raw character count, the visible
// text after SGR sequences are stripped, and the number of sequences
// found. Per file it reduces the visible widths of non-empty lines to a
// min/max range, which is the signal used to spot misaligned frames:
// a well-formed banner has every visible line the same width.
package analyzer

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"

	"github.com/harrison/framecheck/internal/ansi"
)

// LineRecord holds the measurements for a single input line.
type LineRecord struct {
	Index        int    // 1-based line number within the file
	Raw          string // line as read, trailing newline removed
	RawLen       int    // rune count including escape sequences
	Visible      string // Raw with SGR sequences stripped
	VisibleLen   int    // rune count of Visible
	DisplayWidth int    // terminal cell width of Visible (wide runes count as 2)
	EscapeCount  int    // SGR sequences found in Raw
}

// AnalyzeLine measures one line of raw text. The line index is recorded
// as given; callers number lines from 1.
func AnalyzeLine(index int, raw string) LineRecord {
	visible := ansi.Strip(raw)
	return LineRecord{
		Index:        index,
		Raw:          raw,
		RawLen:       utf8.RuneCountInString(raw),
		Visible:      visible,
		VisibleLen:   utf8.RuneCountInString(visible),
		DisplayWidth: runewidth.StringWidth(visible),
		EscapeCount:  ansi.Count(raw),
	}
}

// FileReport aggregates the line records for one file together with the
// visible width range of its non-empty lines.
//
// Only lines whose visible text is non-empty contribute to Samples and
// the Min/Max range. Blank lines and lines consisting entirely of
// escape sequences are still listed in Lines but never skew the range.
type FileReport struct {
	Path     string
	Lines    []LineRecord
	Samples  int // lines whose visible text is non-empty
	MinWidth int // smallest sampled visible length, 0 when Samples == 0
	MaxWidth int // largest sampled visible length, 0 when Samples == 0
}

// Consistent reports whether every sampled line has the same visible
// width. A file with at most one sampled line is trivially consistent.
func (r *FileReport) Consistent() bool {
	return r.MinWidth == r.MaxWidth
}

// WidthGap returns the difference between the widest and narrowest
// sampled lines.
func (r *FileReport) WidthGap() int {
	return r.MaxWidth - r.MinWidth
}

// AnalyzeReader reads r line by line and returns the report for it.
// Trailing CR and LF characters are removed before measurement, so
// files with CRLF endings measure the same as LF files. Input that is
// not valid UTF-8 is rejected.
func AnalyzeReader(path string, r io.Reader) (*FileReport, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if !utf8.Valid(data) {
		return nil, errors.New("file is not valid UTF-8 text")
	}

	report := &FileReport{Path: path}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	index := 0
	for scanner.Scan() {
		index++
		line := strings.TrimRight(scanner.Text(), "\r")
		rec := AnalyzeLine(index, line)
		report.Lines = append(report.Lines, rec)

		if rec.VisibleLen > 0 {
			if report.Samples == 0 || rec.VisibleLen < report.MinWidth {
				report.MinWidth = rec.VisibleLen
			}
			if report.Samples == 0 || rec.VisibleLen > report.MaxWidth {
				report.MaxWidth = rec.VisibleLen
			}
			report.Samples++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", path, err)
	}

	return report, nil
}

// AnalyzeFile opens path, analyzes its contents, and closes the file
// before returning. Open and decode errors are returned for the caller
// to report; they never abort anything beyond this one file.
func AnalyzeFile(path string) (*FileReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return AnalyzeReader(path, f)
}
