// Package format renders extraction results as CSV, a plain-text report or
// JSON.
package format

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/JonMunkholm/patternhive/internal/extract"
)

// ErrUnknownFormat is returned by Render for unsupported format tokens.
var ErrUnknownFormat = errors.New("unknown export format")

// Export format tokens accepted by Render.
const (
	JSONFormat   = "json"
	CSVFormat    = "csv"
	ReportFormat = "report"
)

var csvHeader = []string{"Type", "Value", "Additional Info", "Valid/Confidence"}

const (
	ruleWidth      = 50
	underlineWidth = 20
	reportTitle    = "PATTERNHIVE EXTRACTION REPORT"
)

// Render encodes res in the named format.
func Render(format string, res extract.Result) ([]byte, error) {
	switch format {
	case JSONFormat:
		return JSON(res)
	case CSVFormat:
		s, err := CSV(res)
		return []byte(s), err
	case ReportFormat:
		return []byte(Report(res)), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// ContentType returns the MIME type of a rendered format.
func ContentType(format string) string {
	switch format {
	case CSVFormat:
		return "text/csv; charset=utf-8"
	case ReportFormat:
		return "text/plain; charset=utf-8"
	}
	return "application/json"
}

// CSV renders one row per record with RFC 4180 quoting and CRLF line
// endings. Missing values become empty fields.
func CSV(res extract.Result) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.UseCRLF = true

	rows := make([][]string, 0, 1+res.Total())
	rows = append(rows, csvHeader)

	for _, e := range res.Emails {
		rows = append(rows, []string{"Email", e.Email, deref(e.Domain), flag(e.Valid)})
	}
	for _, p := range res.Phones {
		rows = append(rows, []string{"Phone", p.Formatted, deref(p.Country), flag(p.Valid)})
	}
	for _, n := range res.Names {
		rows = append(rows, []string{"Name", n.Name, string(n.Type), fmt.Sprintf("%.2f", n.Confidence)})
	}

	if err := w.WriteAll(rows); err != nil {
		return "", fmt.Errorf("write csv: %w", err)
	}
	return buf.String(), nil
}

// Report renders a bordered plain-text summary. Empty sections are omitted.
func Report(res extract.Result) string {
	rule := strings.Repeat("=", ruleWidth)
	underline := strings.Repeat("-", underlineWidth)

	lines := []string{
		rule,
		reportTitle,
		rule,
		"",
		"SUMMARY:",
		fmt.Sprintf("  Emails found: %d", len(res.Emails)),
		fmt.Sprintf("  Phone numbers found: %d", len(res.Phones)),
		fmt.Sprintf("  Names found: %d", len(res.Names)),
		"",
	}

	if len(res.Emails) > 0 {
		lines = append(lines, "EMAILS:", underline)
		for _, e := range res.Emails {
			status := "✗ Invalid"
			if e.Valid {
				status = "✓ Valid"
			}
			lines = append(lines, fmt.Sprintf("  %s (%s) - %s", e.Email, deref(e.Domain), status))
		}
		lines = append(lines, "")
	}

	if len(res.Phones) > 0 {
		lines = append(lines, "PHONE NUMBERS:", underline)
		for _, p := range res.Phones {
			status := "✗ Unverified"
			if p.Valid {
				status = "✓ Valid"
			}
			country := ""
			if p.Country != nil {
				country = " (" + *p.Country + ")"
			}
			lines = append(lines, fmt.Sprintf("  %s%s - %s", p.Formatted, country, status))
		}
		lines = append(lines, "")
	}

	if len(res.Names) > 0 {
		lines = append(lines, "NAMES:", underline)
		for _, n := range res.Names {
			lines = append(lines, fmt.Sprintf("  %s - %.2f %s", n.Name, n.Confidence, confidenceBar(n.Confidence)))
		}
		lines = append(lines, "")
	}

	lines = append(lines, rule)
	return strings.Join(lines, "\n")
}

// JSON renders res with two-space indentation.
func JSON(res extract.Result) ([]byte, error) {
	b, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode json: %w", err)
	}
	return b, nil
}

func confidenceBar(c float64) string {
	n := int(math.Round(c * 10))
	return strings.Repeat("█", max(0, n))
}

func flag(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
