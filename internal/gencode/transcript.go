// Package gencode loads transcript annotations from GENCODE GTF files and
// serves interval queries over them.
package gencode

import "github.com/alexpreynolds/nearest-transcripts/internal/genome"

// Transcript is an annotated transcript interval in 0-based half-open
// coordinates. IDs keep their version suffix (e.g. ENST00000253251.12)
// so report rows echo the annotation verbatim.
type Transcript struct {
	ID       string // Versioned transcript ID
	GeneID   string // Versioned parent gene ID
	GeneName string // Gene symbol, may be empty
	Chrom    string // Chromosome as written in the GTF
	Start    int64  // 0-based start
	End      int64  // Exclusive end
	Strand   int8   // +1 or -1
	Biotype  string // Transcript biotype
}

// IsForwardStrand returns true if the transcript is on the forward strand.
func (t *Transcript) IsForwardStrand() bool {
	return t.Strand == 1
}

// StrandSymbol returns the strand as "+" or "-".
func (t *Transcript) StrandSymbol() string {
	if t.Strand == -1 {
		return "-"
	}
	return "+"
}

// Region returns the transcript's coordinates as a genome.Region.
func (t *Transcript) Region() genome.Region {
	return genome.Region{Chrom: t.Chrom, Start: t.Start, End: t.End}
}
