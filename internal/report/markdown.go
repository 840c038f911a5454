package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"

	"github.com/harrison/framecheck/internal/analyzer"
)

// MarkdownWriter renders reports as GitHub-flavored Markdown, suitable
// for pasting into issues or docs when discussing alignment problems.
type MarkdownWriter struct {
	out io.Writer
}

// NewMarkdownWriter creates a MarkdownWriter that writes to out.
func NewMarkdownWriter(out io.Writer) *MarkdownWriter {
	return &MarkdownWriter{out: out}
}

// Write renders one file report.
func (w *MarkdownWriter) Write(rep *analyzer.FileReport) error {
	md := markdown.NewMarkdown(w.out)

	md.H2(fmt.Sprintf("Analysis: %s", rep.Path))
	md.PlainText("")

	rows := make([][]string, 0, len(rep.Lines))
	for _, rec := range rep.Lines {
		rows = append(rows, []string{
			strconv.Itoa(rec.Index),
			strconv.Itoa(rec.RawLen),
			strconv.Itoa(rec.VisibleLen),
			strconv.Itoa(rec.DisplayWidth),
			strconv.Itoa(rec.EscapeCount),
			"`" + rec.Visible + "`",
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Line", "Raw", "Visible", "Cells", "ANSI", "Text"},
		Rows:   rows,
	})
	md.PlainText("")

	switch {
	case rep.Samples == 0:
		md.PlainText("No visible lines.")
	case rep.Consistent():
		md.PlainTextf("Width range: %d - %d characters.", rep.MinWidth, rep.MaxWidth)
		md.Tip("Consistent width.")
	default:
		md.PlainTextf("Width range: %d - %d characters.", rep.MinWidth, rep.MaxWidth)
		md.Warningf("Inconsistent width: %d character difference.", rep.WidthGap())
	}

	return md.Build()
}
