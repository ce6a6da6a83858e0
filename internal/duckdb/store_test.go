package duckdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexpreynolds/nearest-transcripts/internal/genome"
	"github.com/alexpreynolds/nearest-transcripts/internal/nearest"
)

func openInMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open("")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openInMemory(t)
	assert.NotNil(t, s.DB())
}

func TestWriteAndLookupMatches(t *testing.T) {
	s := openInMemory(t)

	site := genome.Region{Chrom: "chr1", Start: 10000000, End: 10000048}
	matches := []nearest.Match{
		{
			Site:            site,
			TranscriptStart: 10032831, TranscriptEnd: 10180367, Strand: 1,
			TranscriptID: "ENST00000253251.12", Distance: 32784,
			GeneID: "ENSG00000130939.20",
		},
		{
			Site:            site,
			TranscriptStart: 9950000, TranscriptEnd: 9990000, Strand: -1,
			TranscriptID: "ENST00000377157.5", Distance: 10001,
			GeneID: "ENSG00000054523.19",
		},
		// Duplicate (site, gene) entry; must be dropped before writing
		{
			Site:            site,
			TranscriptStart: 10032831, TranscriptEnd: 10180367, Strand: 1,
			TranscriptID: "ENST00000253251.12", Distance: 32784,
			GeneID: "ENSG00000130939.20",
		},
	}

	require.NoError(t, s.WriteMatches(matches))

	n, err := s.CountMatches()
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	got, err := s.LookupSite("chr1", 10000000, 10000048)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "ENSG00000054523.19", got[0].GeneID)
	assert.Equal(t, int8(-1), got[0].Strand)
	assert.Equal(t, "ENST00000253251.12", got[1].TranscriptID)
	assert.Equal(t, int64(32784), got[1].Distance)

	got, err = s.LookupSite("chr9", 1, 2)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestWriteMatches_Empty(t *testing.T) {
	s := openInMemory(t)
	require.NoError(t, s.WriteMatches(nil))

	n, err := s.CountMatches()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestClearMatches(t *testing.T) {
	s := openInMemory(t)
	require.NoError(t, s.WriteMatches([]nearest.Match{{
		Site:         genome.Region{Chrom: "chr1", Start: 1, End: 2},
		TranscriptID: "T1", GeneID: "G1",
	}}))
	require.NoError(t, s.ClearMatches())

	n, err := s.CountMatches()
	require.NoError(t, err)
	assert.Zero(t, n)
}
