package format

import (
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/JonMunkholm/patternhive/internal/extract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func sampleResult() extract.Result {
	return extract.Result{
		Emails: []extract.EmailRecord{
			{Email: "john.smith@example.com", Valid: true, Domain: strPtr("example.com")},
			{Email: "bad@x.test", Valid: false, Domain: strPtr("x.test")},
		},
		Phones: []extract.PhoneRecord{
			{Raw: "6502530000", Formatted: "(650) 253-0000", Valid: true, Country: strPtr("US")},
			{Raw: "1234567890", Formatted: "1234567890"},
		},
		Names: []extract.NameRecord{
			{Name: "John Smith", Confidence: 1.0, Type: extract.NameTitled},
			{Name: "Smith, \"Johnny\"", Confidence: 0.7, Type: extract.NameLastFirst},
		},
	}
}

func TestCSV_RoundTrip(t *testing.T) {
	res := sampleResult()

	out, err := CSV(res)
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)

	want := [][]string{
		{"Type", "Value", "Additional Info", "Valid/Confidence"},
		{"Email", "john.smith@example.com", "example.com", "True"},
		{"Email", "bad@x.test", "x.test", "False"},
		{"Phone", "(650) 253-0000", "US", "True"},
		{"Phone", "1234567890", "", "False"},
		{"Name", "John Smith", "titled", "1.00"},
		{"Name", "Smith, \"Johnny\"", "last_first", "0.70"},
	}
	assert.Equal(t, want, records)
}

func TestCSV_CRLFAndQuoting(t *testing.T) {
	out, err := CSV(sampleResult())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "Type,Value,Additional Info,Valid/Confidence\r\n"))
	assert.Contains(t, out, "Name,\"Smith, \"\"Johnny\"\"\",last_first,0.70\r\n")
}

func TestCSV_Empty(t *testing.T) {
	out, err := CSV(extract.Result{})
	require.NoError(t, err)
	assert.Equal(t, "Type,Value,Additional Info,Valid/Confidence\r\n", out)
}

func TestReport(t *testing.T) {
	got := Report(sampleResult())

	rule := strings.Repeat("=", 50)
	underline := strings.Repeat("-", 20)
	want := strings.Join([]string{
		rule,
		"PATTERNHIVE EXTRACTION REPORT",
		rule,
		"",
		"SUMMARY:",
		"  Emails found: 2",
		"  Phone numbers found: 2",
		"  Names found: 2",
		"",
		"EMAILS:",
		underline,
		"  john.smith@example.com (example.com) - ✓ Valid",
		"  bad@x.test (x.test) - ✗ Invalid",
		"",
		"PHONE NUMBERS:",
		underline,
		"  (650) 253-0000 (US) - ✓ Valid",
		"  1234567890 - ✗ Unverified",
		"",
		"NAMES:",
		underline,
		"  John Smith - 1.00 ██████████",
		"  Smith, \"Johnny\" - 0.70 ███████",
		"",
		rule,
	}, "\n")

	assert.Equal(t, want, got)
}

func TestReport_OmitsEmptySections(t *testing.T) {
	got := Report(extract.Result{})

	assert.NotContains(t, got, "EMAILS:")
	assert.NotContains(t, got, "PHONE NUMBERS:")
	assert.NotContains(t, got, "NAMES:")
	assert.Contains(t, got, "  Emails found: 0")
	assert.True(t, strings.HasSuffix(got, "\n\n"+strings.Repeat("=", 50)))
}

func TestRender(t *testing.T) {
	res := sampleResult()

	b, err := Render(JSONFormat, res)
	require.NoError(t, err)
	var decoded extract.Result
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, res, decoded)

	b, err = Render(ReportFormat, res)
	require.NoError(t, err)
	assert.Equal(t, Report(res), string(b))

	_, err = Render("xml", res)
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "text/csv; charset=utf-8", ContentType(CSVFormat))
	assert.Equal(t, "text/plain; charset=utf-8", ContentType(ReportFormat))
	assert.Equal(t, "application/json", ContentType(JSONFormat))
}
