package gencode

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/alexpreynolds/nearest-transcripts/internal/genome"
)

// GTFOptions controls which transcript records are loaded.
type GTFOptions struct {
	// AllBiotypes disables the default protein_coding gene filter.
	AllBiotypes bool
}

// GTFLoader loads transcript records from GENCODE GTF files.
type GTFLoader struct {
	path   string
	opts   GTFOptions
	logger *zap.Logger
}

// NewGTFLoader creates a new GTF loader.
func NewGTFLoader(path string, opts GTFOptions) *GTFLoader {
	return &GTFLoader{path: path, opts: opts, logger: zap.NewNop()}
}

// SetLogger sets the logger for warning and info messages.
func (l *GTFLoader) SetLogger(logger *zap.Logger) {
	l.logger = logger
}

// Load parses the GTF file and populates the set.
func (l *GTFLoader) Load(s *Set) error {
	f, err := os.Open(l.path)
	if err != nil {
		return fmt.Errorf("open GTF file: %w", err)
	}
	defer f.Close()

	var reader io.Reader = f

	// Handle gzipped files
	if strings.HasSuffix(l.path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return fmt.Errorf("open gzip reader: %w", err)
		}
		defer gz.Close()
		reader = gz
	}

	return l.parse(reader, s)
}

// parse reads GTF content and adds transcript features to the set.
// GTF coordinates are 1-based inclusive; they are converted to 0-based
// half-open on load.
func (l *GTFLoader) parse(reader io.Reader, s *Set) error {
	scanner := bufio.NewScanner(reader)
	// Increase buffer size for long attribute columns
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	lineNum := 0
	skipped := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()

		// Skip comments and empty lines
		if strings.HasPrefix(line, "#") || line == "" {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) < 9 {
			skipped++
			continue
		}

		// Only transcript features carry the records we report
		if fields[2] != "transcript" {
			continue
		}

		start, err := strconv.ParseInt(fields[3], 10, 64)
		if err != nil {
			return fmt.Errorf("GTF line %d: parse start: %w", lineNum, err)
		}
		end, err := strconv.ParseInt(fields[4], 10, 64)
		if err != nil {
			return fmt.Errorf("GTF line %d: parse end: %w", lineNum, err)
		}

		attrs := parseAttributes(fields[8])
		transcriptID := attrs["transcript_id"]
		if transcriptID == "" {
			skipped++
			continue
		}

		if !l.opts.AllBiotypes && attrs["gene_type"] != "protein_coding" {
			continue
		}

		region := genome.Region{Chrom: fields[0], Start: start - 1, End: end}
		if err := region.Validate(); err != nil {
			return fmt.Errorf("GTF line %d (%s): %w", lineNum, transcriptID, err)
		}

		s.Add(&Transcript{
			ID:       transcriptID,
			GeneID:   attrs["gene_id"],
			GeneName: attrs["gene_name"],
			Chrom:    region.Chrom,
			Start:    region.Start,
			End:      region.End,
			Strand:   parseStrand(fields[6]),
			Biotype:  attrs["transcript_type"],
		})
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scan GTF: %w", err)
	}

	if skipped > 0 {
		l.logger.Warn("skipped malformed GTF lines", zap.Int("count", skipped))
	}

	return nil
}

// parseAttributes parses the GTF attribute column.
// Format: key "value"; key "value"; ...
func parseAttributes(attrStr string) map[string]string {
	attrs := make(map[string]string)

	parts := strings.Split(attrStr, ";")
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		idx := strings.Index(part, " ")
		if idx == -1 {
			continue
		}

		key := part[:idx]
		value := strings.TrimSpace(part[idx+1:])
		value = strings.Trim(value, "\"")

		attrs[key] = value
	}

	return attrs
}

// parseStrand converts a strand string to int8.
func parseStrand(s string) int8 {
	if s == "-" {
		return -1
	}
	return 1
}
