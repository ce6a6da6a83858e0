// Package output provides report formatters for nearest-transcript matches.
package output

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/alexpreynolds/nearest-transcripts/internal/nearest"
)

// TabWriter writes matches in tab-delimited format.
type TabWriter struct {
	w       *bufio.Writer
	columns []string
}

// NewTabWriter creates a new tab-delimited writer.
func NewTabWriter(w io.Writer) *TabWriter {
	return &TabWriter{
		w: bufio.NewWriter(w),
		columns: []string{
			"Chromosome",
			"Start",
			"End",
			"Transcript_Start",
			"Transcript_End",
			"Transcript_Strand",
			"Transcript_ID",
			"Transcript_Distance",
			"Gene_ID",
		},
	}
}

// WriteHeader writes the header line.
func (tw *TabWriter) WriteHeader() error {
	_, err := tw.w.WriteString(strings.Join(tw.columns, "\t") + "\n")
	return err
}

// Write writes a single match row.
func (tw *TabWriter) Write(m *nearest.Match) error {
	strand := "+"
	if m.Strand == -1 {
		strand = "-"
	}

	values := []string{
		m.Site.Chrom,
		strconv.FormatInt(m.Site.Start, 10),
		strconv.FormatInt(m.Site.End, 10),
		strconv.FormatInt(m.TranscriptStart, 10),
		strconv.FormatInt(m.TranscriptEnd, 10),
		strand,
		m.TranscriptID,
		strconv.FormatInt(m.Distance, 10),
		m.GeneID,
	}

	_, err := tw.w.WriteString(strings.Join(values, "\t") + "\n")
	return err
}

// Flush flushes any buffered data to the underlying writer.
func (tw *TabWriter) Flush() error {
	return tw.w.Flush()
}
