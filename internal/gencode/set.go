package gencode

import (
	"sort"
	"sync"
)

// Set holds transcripts grouped by chromosome, with a per-chromosome
// interval index built lazily on first query. Queries are safe for
// concurrent use; Add must not run concurrently with queries.
type Set struct {
	byChrom map[string][]*Transcript

	mu      sync.Mutex
	indexes map[string]*intervalIndex
}

// NewSet creates a new empty transcript set.
func NewSet() *Set {
	return &Set{
		byChrom: make(map[string][]*Transcript),
		indexes: make(map[string]*intervalIndex),
	}
}

// Add adds a transcript to the set.
func (s *Set) Add(t *Transcript) {
	s.byChrom[t.Chrom] = append(s.byChrom[t.Chrom], t)

	s.mu.Lock()
	delete(s.indexes, t.Chrom)
	s.mu.Unlock()
}

// Len returns the total number of transcripts in the set.
func (s *Set) Len() int {
	n := 0
	for _, transcripts := range s.byChrom {
		n += len(transcripts)
	}
	return n
}

// Chromosomes returns a sorted list of chromosomes in the set.
func (s *Set) Chromosomes() []string {
	chroms := make([]string, 0, len(s.byChrom))
	for chrom := range s.byChrom {
		chroms = append(chroms, chrom)
	}
	sort.Strings(chroms)
	return chroms
}

// ByChrom returns all transcripts for a chromosome.
func (s *Set) ByChrom(chrom string) []*Transcript {
	return s.byChrom[chrom]
}

// BuildIndexes builds the interval index for every chromosome up front,
// so concurrent queries never pay the build cost on first hit.
func (s *Set) BuildIndexes() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for chrom, transcripts := range s.byChrom {
		if _, ok := s.indexes[chrom]; !ok {
			s.indexes[chrom] = buildIndex(transcripts)
		}
	}
}

func (s *Set) index(chrom string) *intervalIndex {
	s.mu.Lock()
	defer s.mu.Unlock()
	ix, ok := s.indexes[chrom]
	if !ok {
		ix = buildIndex(s.byChrom[chrom])
		s.indexes[chrom] = ix
	}
	return ix
}

// Overlapping returns all transcripts on chrom intersecting the half-open
// interval [start, end). An unknown chromosome yields no transcripts.
func (s *Set) Overlapping(chrom string, start, end int64) []*Transcript {
	if _, ok := s.byChrom[chrom]; !ok {
		return nil
	}
	return s.index(chrom).overlapping(start, end)
}
