package report

import (
	"encoding/json"
	"io"

	"github.com/harrison/framecheck/internal/analyzer"
)

// JSONWriter renders reports as one indented JSON document per file.
type JSONWriter struct {
	out io.Writer
}

// NewJSONWriter creates a JSONWriter that writes to out.
func NewJSONWriter(out io.Writer) *JSONWriter {
	return &JSONWriter{out: out}
}

type jsonLine struct {
	Line         int    `json:"line"`
	RawLength    int    `json:"raw_length"`
	VisibleLen   int    `json:"visible_length"`
	DisplayWidth int    `json:"display_width"`
	EscapeCount  int    `json:"escape_count"`
	Visible      string `json:"visible"`
}

type jsonRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
	Gap int `json:"gap"`
}

type jsonReport struct {
	Path       string     `json:"path"`
	Lines      []jsonLine `json:"lines"`
	Samples    int        `json:"samples"`
	WidthRange *jsonRange `json:"width_range,omitempty"`
	Consistent bool       `json:"consistent"`
}

// Write renders one file report.
func (w *JSONWriter) Write(rep *analyzer.FileReport) error {
	doc := jsonReport{
		Path:       rep.Path,
		Lines:      make([]jsonLine, 0, len(rep.Lines)),
		Samples:    rep.Samples,
		Consistent: rep.Consistent(),
	}
	for _, rec := range rep.Lines {
		doc.Lines = append(doc.Lines, jsonLine{
			Line:         rec.Index,
			RawLength:    rec.RawLen,
			VisibleLen:   rec.VisibleLen,
			DisplayWidth: rec.DisplayWidth,
			EscapeCount:  rec.EscapeCount,
			Visible:      rec.Visible,
		})
	}
	if rep.Samples > 0 {
		doc.WidthRange = &jsonRange{
			Min: rep.MinWidth,
			Max: rep.MaxWidth,
			Gap: rep.WidthGap(),
		}
	}

	enc := json.NewEncoder(w.out)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
