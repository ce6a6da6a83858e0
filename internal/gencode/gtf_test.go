package gencode

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexpreynolds/nearest-transcripts/internal/genome"
)

const sampleGTF = `##description: evidence-based annotation of the human genome
##provider: GENCODE
chr1	HAVANA	gene	10032832	10180367	.	+	.	gene_id "ENSG00000130939.20"; gene_type "protein_coding"; gene_name "UBE4B";
chr1	HAVANA	transcript	10032832	10180367	.	+	.	gene_id "ENSG00000130939.20"; transcript_id "ENST00000253251.12"; gene_type "protein_coding"; gene_name "UBE4B"; transcript_type "protein_coding";
chr1	HAVANA	exon	10032832	10033120	.	+	.	gene_id "ENSG00000130939.20"; transcript_id "ENST00000253251.12"; exon_number "1";
chr1	HAVANA	transcript	10100000	10150000	.	+	.	gene_id "ENSG00000130939.20"; transcript_id "ENST00000377157.5"; gene_type "protein_coding"; gene_name "UBE4B"; transcript_type "protein_coding";
chr1	HAVANA	transcript	11000000	11005000	.	-	.	gene_id "ENSG00000999999.1"; transcript_id "ENST00000888888.1"; gene_type "lncRNA"; gene_name "FAKE-AS1"; transcript_type "lncRNA";
chr2	HAVANA	transcript	500	900	.	-	.	gene_id "ENSG00000111111.2"; transcript_id "ENST00000222222.3"; gene_type "protein_coding"; gene_name "TESTG"; transcript_type "protein_coding";
`

func TestGTFLoader_Parse(t *testing.T) {
	s := NewSet()
	l := NewGTFLoader("", GTFOptions{})
	require.NoError(t, l.parse(strings.NewReader(sampleGTF), s))

	// lncRNA gene filtered out by default
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, []string{"chr1", "chr2"}, s.Chromosomes())

	var tx *Transcript
	for _, c := range s.ByChrom("chr1") {
		if c.ID == "ENST00000253251.12" {
			tx = c
		}
	}
	require.NotNil(t, tx, "versioned transcript ID preserved")
	assert.Equal(t, "ENSG00000130939.20", tx.GeneID)
	assert.Equal(t, "UBE4B", tx.GeneName)
	// GTF 1-based inclusive converted to 0-based half-open
	assert.Equal(t, int64(10032831), tx.Start)
	assert.Equal(t, int64(10180367), tx.End)
	assert.Equal(t, int8(1), tx.Strand)
	assert.Equal(t, "protein_coding", tx.Biotype)

	minus := s.ByChrom("chr2")[0]
	assert.Equal(t, int8(-1), minus.Strand)
	assert.Equal(t, "-", minus.StrandSymbol())
}

func TestGTFLoader_AllBiotypes(t *testing.T) {
	s := NewSet()
	l := NewGTFLoader("", GTFOptions{AllBiotypes: true})
	require.NoError(t, l.parse(strings.NewReader(sampleGTF), s))

	assert.Equal(t, 4, s.Len(), "lncRNA transcript included")
}

func TestGTFLoader_InvalidCoordinates(t *testing.T) {
	bad := "chr1\tHAVANA\ttranscript\t900\t500\t.\t+\t.\tgene_id \"G1\"; transcript_id \"T1\"; gene_type \"protein_coding\";\n"

	s := NewSet()
	l := NewGTFLoader("", GTFOptions{})
	err := l.parse(strings.NewReader(bad), s)
	require.Error(t, err)

	var verr *genome.ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Contains(t, err.Error(), "line 1")
	assert.Contains(t, err.Error(), "T1")
}

func TestGTFLoader_NonNumericCoordinates(t *testing.T) {
	bad := "chr1\tHAVANA\ttranscript\tabc\t500\t.\t+\t.\ttranscript_id \"T1\";\n"

	err := NewGTFLoader("", GTFOptions{}).parse(strings.NewReader(bad), NewSet())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse start")
}

func TestParseAttributes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected map[string]string
	}{
		{
			name:  "basic attributes",
			input: `gene_id "ENSG00000130939.20"; transcript_id "ENST00000253251.12"; gene_name "UBE4B";`,
			expected: map[string]string{
				"gene_id":       "ENSG00000130939.20",
				"transcript_id": "ENST00000253251.12",
				"gene_name":     "UBE4B",
			},
		},
		{
			name:  "no trailing semicolon",
			input: `gene_id "G1"; gene_type "protein_coding"`,
			expected: map[string]string{
				"gene_id":   "G1",
				"gene_type": "protein_coding",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseAttributes(tt.input)
			for key, want := range tt.expected {
				assert.Equal(t, want, result[key], "parseAttributes()[%q]", key)
			}
		})
	}
}

func TestParseStrand(t *testing.T) {
	assert.Equal(t, int8(1), parseStrand("+"))
	assert.Equal(t, int8(-1), parseStrand("-"))
}
