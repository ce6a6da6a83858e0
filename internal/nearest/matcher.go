// Package nearest computes, for each query site, the nearest transcript per
// gene within a distance threshold.
package nearest

import (
	"sort"

	"go.uber.org/zap"

	"github.com/alexpreynolds/nearest-transcripts/internal/gencode"
	"github.com/alexpreynolds/nearest-transcripts/internal/genome"
)

// DefaultMaxDistance is the distance threshold used when none is configured.
const DefaultMaxDistance = 100_000

// TranscriptLookup defines the interface for finding transcripts that
// intersect a genomic window.
type TranscriptLookup interface {
	Overlapping(chrom string, start, end int64) []*gencode.Transcript
}

// Match is one (site, gene) result: the nearest transcript of that gene
// within the threshold.
type Match struct {
	Site            genome.Region
	TranscriptStart int64
	TranscriptEnd   int64
	Strand          int8
	TranscriptID    string
	Distance        int64
	GeneID          string
}

// Matcher finds the nearest transcript per gene for query sites.
type Matcher struct {
	transcripts TranscriptLookup
	maxDistance int64
	logger      *zap.Logger
}

// New creates a matcher over the given transcripts. maxDistance is the
// largest reported distance; see genome.Region.Distance for the convention.
func New(transcripts TranscriptLookup, maxDistance int64) *Matcher {
	return &Matcher{
		transcripts: transcripts,
		maxDistance: maxDistance,
		logger:      zap.NewNop(),
	}
}

// SetLogger sets the logger for debug messages.
func (m *Matcher) SetLogger(logger *zap.Logger) {
	m.logger = logger
}

// FindNearest returns one match per gene with a transcript within the
// threshold of the site. Matches are ordered by gene ID. Ties within a gene
// resolve to the lexicographically smallest transcript ID.
func (m *Matcher) FindNearest(site genome.Region) []Match {
	lo := site.Start - m.maxDistance
	if lo < 0 {
		lo = 0
	}
	hi := site.End + m.maxDistance

	candidates := m.transcripts.Overlapping(site.Chrom, lo, hi)
	if len(candidates) == 0 {
		return nil
	}

	// Per-gene arg-min reduction over candidate transcripts.
	best := make(map[string]*gencode.Transcript)
	bestDist := make(map[string]int64)
	for _, t := range candidates {
		d := site.Distance(t.Start, t.End)
		if d > m.maxDistance {
			continue
		}
		cur, ok := best[t.GeneID]
		if !ok || d < bestDist[t.GeneID] || (d == bestDist[t.GeneID] && t.ID < cur.ID) {
			best[t.GeneID] = t
			bestDist[t.GeneID] = d
		}
	}

	if len(best) == 0 {
		return nil
	}

	genes := make([]string, 0, len(best))
	for gene := range best {
		genes = append(genes, gene)
	}
	sort.Strings(genes)

	matches := make([]Match, 0, len(genes))
	for _, gene := range genes {
		t := best[gene]
		matches = append(matches, Match{
			Site:            site,
			TranscriptStart: t.Start,
			TranscriptEnd:   t.End,
			Strand:          t.Strand,
			TranscriptID:    t.ID,
			Distance:        bestDist[gene],
			GeneID:          gene,
		})
	}

	m.logger.Debug("matched site",
		zap.String("site", site.String()),
		zap.Int("candidates", len(candidates)),
		zap.Int("genes", len(matches)))

	return matches
}

// FindAll returns matches for every site, in site input order.
func (m *Matcher) FindAll(sites []genome.Region) []Match {
	var matches []Match
	for _, site := range sites {
		matches = append(matches, m.FindNearest(site)...)
	}
	return matches
}
