// Package sites provides BED site file parsing functionality.
package sites

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/alexpreynolds/nearest-transcripts/internal/genome"
)

// ParseError represents an error parsing a BED line.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("BED parse error at line %d: %s", e.Line, e.Message)
}

// Parser reads query sites from a BED file.
type Parser struct {
	reader     *bufio.Reader
	file       *os.File
	gzipReader *gzip.Reader
	lineNumber int
}

// NewParser creates a new BED parser for the given file.
// Supports both plain and gzipped (.bed.gz) files; use "-" for stdin.
func NewParser(path string) (*Parser, error) {
	if path == "-" {
		return NewParserFromReader(os.Stdin), nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sites file: %w", err)
	}

	p := &Parser{file: file}

	// Check for gzip magic bytes
	buf := make([]byte, 2)
	_, err = file.Read(buf)
	if err != nil && err != io.EOF {
		file.Close()
		return nil, fmt.Errorf("read sites file: %w", err)
	}

	if _, err := file.Seek(0, 0); err != nil {
		file.Close()
		return nil, fmt.Errorf("seek sites file: %w", err)
	}

	if buf[0] == 0x1f && buf[1] == 0x8b {
		p.gzipReader, err = gzip.NewReader(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("create gzip reader: %w", err)
		}
		p.reader = bufio.NewReader(p.gzipReader)
	} else {
		p.reader = bufio.NewReader(file)
	}

	return p, nil
}

// NewParserFromReader creates a parser from an io.Reader (e.g., stdin).
func NewParserFromReader(r io.Reader) *Parser {
	return &Parser{reader: bufio.NewReader(r)}
}

// Next returns the next site in the file, or nil at end of input.
// Comment, track and browser lines are skipped.
func (p *Parser) Next() (*genome.Region, error) {
	for {
		line, err := p.reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("read sites file: %w", err)
		}
		atEOF := err == io.EOF

		if line != "" {
			p.lineNumber++
		}
		line = strings.TrimRight(line, "\r\n")

		if line == "" || strings.HasPrefix(line, "#") ||
			strings.HasPrefix(line, "track") || strings.HasPrefix(line, "browser") {
			if atEOF {
				return nil, nil
			}
			continue
		}

		region, perr := p.parseLine(line)
		if perr != nil {
			return nil, perr
		}
		return region, nil
	}
}

// parseLine parses a single BED data line into a validated region.
func (p *Parser) parseLine(line string) (*genome.Region, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < 3 {
		return nil, &ParseError{
			Line:    p.lineNumber,
			Message: fmt.Sprintf("expected at least 3 fields, got %d", len(fields)),
		}
	}

	start, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return nil, &ParseError{
			Line:    p.lineNumber,
			Message: fmt.Sprintf("invalid start %q", fields[1]),
		}
	}

	end, err := strconv.ParseInt(fields[2], 10, 64)
	if err != nil {
		return nil, &ParseError{
			Line:    p.lineNumber,
			Message: fmt.Sprintf("invalid end %q", fields[2]),
		}
	}

	region := genome.Region{Chrom: fields[0], Start: start, End: end}
	if err := region.Validate(); err != nil {
		return nil, &ParseError{Line: p.lineNumber, Message: err.Error()}
	}

	return &region, nil
}

// Close closes the underlying file handles.
func (p *Parser) Close() error {
	if p.gzipReader != nil {
		p.gzipReader.Close()
	}
	if p.file != nil {
		return p.file.Close()
	}
	return nil
}

// ReadAll reads every site from the parser. Any parse or validation error
// aborts the read, so callers see all input problems before computing.
func ReadAll(p *Parser) ([]genome.Region, error) {
	var regions []genome.Region
	for {
		r, err := p.Next()
		if err != nil {
			return nil, err
		}
		if r == nil {
			return regions, nil
		}
		regions = append(regions, *r)
	}
}
