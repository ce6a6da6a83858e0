package gencode

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSet_Overlapping(t *testing.T) {
	s := NewSet()
	s.Add(&Transcript{ID: "T1", GeneID: "G1", Chrom: "chr1", Start: 100, End: 200})
	s.Add(&Transcript{ID: "T2", GeneID: "G1", Chrom: "chr1", Start: 500, End: 600})
	s.Add(&Transcript{ID: "T3", GeneID: "G2", Chrom: "chr2", Start: 100, End: 200})

	assert.Len(t, s.Overlapping("chr1", 150, 550), 2)
	assert.Len(t, s.Overlapping("chr2", 150, 550), 1)
	assert.Empty(t, s.Overlapping("chrX", 0, 1000), "unknown chromosome")
	assert.Empty(t, s.Overlapping("chr1", 300, 400), "gap between transcripts")
}

func TestSet_AddInvalidatesIndex(t *testing.T) {
	s := NewSet()
	s.Add(&Transcript{ID: "T1", Chrom: "chr1", Start: 100, End: 200})
	assert.Len(t, s.Overlapping("chr1", 100, 200), 1)

	// Adding after a query must show up in the next query
	s.Add(&Transcript{ID: "T2", Chrom: "chr1", Start: 150, End: 250})
	assert.Len(t, s.Overlapping("chr1", 100, 200), 2)
}

func TestSet_ConcurrentOverlapping(t *testing.T) {
	// First queries race to build the per-chromosome indexes; run under
	// the race detector.
	s := NewSet()
	for i := 0; i < 50; i++ {
		chrom := fmt.Sprintf("chr%d", i%4+1)
		s.Add(&Transcript{
			ID:    fmt.Sprintf("T%d", i),
			Chrom: chrom,
			Start: int64(i * 100),
			End:   int64(i*100 + 150),
		})
	}

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				chrom := fmt.Sprintf("chr%d", (w+i)%4+1)
				s.Overlapping(chrom, int64(i*90), int64(i*90+200))
			}
		}(w)
	}
	wg.Wait()

	assert.NotEmpty(t, s.Overlapping("chr1", 0, 5000))
}

func TestSet_LenAndChromosomes(t *testing.T) {
	s := NewSet()
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.Chromosomes())

	s.Add(&Transcript{ID: "T1", Chrom: "chr2", Start: 1, End: 2})
	s.Add(&Transcript{ID: "T2", Chrom: "chr1", Start: 1, End: 2})
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []string{"chr1", "chr2"}, s.Chromosomes())
}
