package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractAll_ContactLine(t *testing.T) {
	text := "Contact Dr. John Smith at john.smith@example.com or (650) 253-0000."

	res := ExtractAll(text)

	require.Len(t, res.Emails, 1)
	assert.Equal(t, "john.smith@example.com", res.Emails[0].Email)
	assert.True(t, res.Emails[0].Valid)
	require.NotNil(t, res.Emails[0].Domain)
	assert.Equal(t, "example.com", *res.Emails[0].Domain)

	require.Len(t, res.Phones, 1)
	assert.Equal(t, "6502530000", res.Phones[0].Raw)
	assert.Equal(t, "(650) 253-0000", res.Phones[0].Formatted)
	assert.True(t, res.Phones[0].Valid)
	require.NotNil(t, res.Phones[0].Country)
	assert.Equal(t, "US", *res.Phones[0].Country)

	require.Len(t, res.Names, 1)
	assert.Equal(t, "John Smith", res.Names[0].Name)
	assert.Equal(t, NameTitled, res.Names[0].Type)
	assert.GreaterOrEqual(t, res.Names[0].Confidence, 0.8)
}

func TestExtractAll_EmptyText(t *testing.T) {
	res := ExtractAll("")

	assert.Empty(t, res.Emails)
	assert.Empty(t, res.Phones)
	assert.Empty(t, res.Names)
	assert.Equal(t, 0, res.Total())
}

func TestExtractAll_Deterministic(t *testing.T) {
	text := strings.Repeat("Reach Mary Q. Jones at MJ@Example.org, +41446681800 or 650.253.0000. ", 3)

	first := ExtractAll(text)
	second := ExtractAll(text)

	assert.Equal(t, first, second)
}

func TestExtractAll_ResultsAreIndependent(t *testing.T) {
	a := ExtractAll("write to a@example.com")
	b := ExtractAll("write to a@example.com")

	a.Emails[0].Email = "changed"
	assert.Equal(t, "a@example.com", b.Emails[0].Email)
}

func TestResult_Stats(t *testing.T) {
	res := Result{
		Emails: make([]EmailRecord, 2),
		Phones: make([]PhoneRecord, 1),
		Names:  make([]NameRecord, 3),
	}

	got := res.Stats()

	assert.Equal(t, Stats{EmailsFound: 2, PhonesFound: 1, NamesFound: 3}, got)
	assert.Equal(t, 6, res.Total())
}
