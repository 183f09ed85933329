package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNameConfidence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want float64
	}{
		{"two proper words", "John Smith", 1.0},
		{"inverted", "Smith, John", 1.0},
		{"middle initial", "John Q. Public", 0.7},
		{"all caps pair", "ABCD EFGH", 0.5},
		{"lower case pair", "john smith", 0.5},
		{"single proper word", "Smith", 0.6},
		{"single camel-cased word", "McDonald", 0.3},
		{"single all caps", "SMITH", 0.1},
		{"title token clamps", "Dr. John Smith", 1.0},
		{"title token lower case", "dr. john smith", 0.8},
		{"four words", "Anna Maria Von Trapp", 0.8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := nameConfidence(tt.in)
			if got != tt.want {
				t.Errorf("nameConfidence(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestClassifyName(t *testing.T) {
	tests := []struct {
		in      string
		variant nameVariant
		want    NameType
	}{
		{"Smith, John", nameInverted, NameLastFirst},
		{"John Smith", nameTitled, NameTitled},
		{"Mr. John Smith", namePlain, NameTitled},
		{"John Q. Public", namePlain, NameFullWithMiddle},
		{"John Smith", namePlain, NameFirstLast},
		{"Smith", namePlain, NameSingle},
	}

	for _, tt := range tests {
		if got := classifyName(tt.in, tt.variant); got != tt.want {
			t.Errorf("classifyName(%q, %v) = %q, want %q", tt.in, tt.variant, got, tt.want)
		}
	}
}

func TestExtractNames_Inverted(t *testing.T) {
	got := ExtractNames("Signed: Smith, John")

	var found *NameRecord
	for i := range got {
		if got[i].Name == "Smith, John" {
			found = &got[i]
		}
	}
	require.NotNil(t, found, "Smith, John not extracted from %v", got)
	assert.Equal(t, NameLastFirst, found.Type)
	assert.Equal(t, 1.0, found.Confidence)
}

func TestExtractNames_SortedByConfidence(t *testing.T) {
	got := ExtractNames("Ask McDonald whether Mary Q. Jones met Anna Maria Lee")

	require.Len(t, got, 3)
	assert.Equal(t, "Anna Maria Lee", got[0].Name)
	assert.Equal(t, 1.0, got[0].Confidence)
	assert.Equal(t, "Mary Q. Jones", got[1].Name)
	assert.Equal(t, 0.7, got[1].Confidence)
	assert.Equal(t, NameFullWithMiddle, got[1].Type)
	assert.Equal(t, "McDonald", got[2].Name)
	assert.Equal(t, 0.3, got[2].Confidence)
}

func TestExtractNames_Single(t *testing.T) {
	got := ExtractNames("Ask McDonald about it.")

	require.Len(t, got, 1)
	assert.Equal(t, "McDonald", got[0].Name)
	assert.Equal(t, NameSingle, got[0].Type)
}

func TestExtractNames_PlainWordPairsIgnored(t *testing.T) {
	got := ExtractNames("Welcome to New York and Hello World.")

	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestExtractNames_StopWordsRejectCandidates(t *testing.T) {
	got := ExtractNames("Acme Corporation hired Research Team")

	for _, n := range got {
		t.Errorf("unexpected name %q", n.Name)
	}
}

func TestExtractNames_DuplicatesCollapse(t *testing.T) {
	got := ExtractNames("Jo Ann Lee wrote to Jo Ann Lee")

	require.Len(t, got, 1)
	assert.Equal(t, "Jo Ann Lee", got[0].Name)
}

func TestPlausibleName(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"Bob Lee", true},
		{"Al", false},
		{"Agent 007", false},
		{"Bob@Lee", false},
		{"Monday Morning", false},
		{"Dear Sir", false},
	}

	for _, tt := range tests {
		if got := plausibleName(tt.in); got != tt.want {
			t.Errorf("plausibleName(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
