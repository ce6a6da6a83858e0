package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexpreynolds/nearest-transcripts/internal/genome"
	"github.com/alexpreynolds/nearest-transcripts/internal/nearest"
)

func TestTabWriter_HeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	tw := NewTabWriter(&buf)

	require.NoError(t, tw.WriteHeader())
	require.NoError(t, tw.Flush())

	want := "Chromosome\tStart\tEnd\tTranscript_Start\tTranscript_End\t" +
		"Transcript_Strand\tTranscript_ID\tTranscript_Distance\tGene_ID\n"
	assert.Equal(t, want, buf.String())
}

func TestTabWriter_Rows(t *testing.T) {
	var buf bytes.Buffer
	tw := NewTabWriter(&buf)

	require.NoError(t, tw.WriteHeader())
	require.NoError(t, tw.Write(&nearest.Match{
		Site:            genome.Region{Chrom: "chr1", Start: 10000000, End: 10000048},
		TranscriptStart: 10032831,
		TranscriptEnd:   10180367,
		Strand:          1,
		TranscriptID:    "ENST00000253251.12",
		Distance:        32784,
		GeneID:          "ENSG00000130939.20",
	}))
	require.NoError(t, tw.Write(&nearest.Match{
		Site:            genome.Region{Chrom: "chr2", Start: 500, End: 600},
		TranscriptStart: 100,
		TranscriptEnd:   400,
		Strand:          -1,
		TranscriptID:    "ENST00000222222.3",
		Distance:        101,
		GeneID:          "ENSG00000111111.2",
	}))
	require.NoError(t, tw.Flush())

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t,
		"chr1\t10000000\t10000048\t10032831\t10180367\t+\tENST00000253251.12\t32784\tENSG00000130939.20",
		lines[1])
	assert.Equal(t,
		"chr2\t500\t600\t100\t400\t-\tENST00000222222.3\t101\tENSG00000111111.2",
		lines[2])
}
