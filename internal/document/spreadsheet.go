package document

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// SpreadsheetExtractor renders every sheet of a workbook as a "=== name ==="
// header followed by one line per non-empty row. At most MaxRows rows are
// read per sheet; when more exist, TruncationMarker is written instead of
// the remainder.
type SpreadsheetExtractor struct {
	MaxRows int
}

// ExtractText implements Extractor.
func (e *SpreadsheetExtractor) ExtractText(ctx context.Context, data []byte) (string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	limit := e.MaxRows
	if limit <= 0 {
		limit = DefaultMaxRows
	}

	var lines []string
	for _, sheet := range f.GetSheetList() {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		sheetLines, err := sheetText(f, sheet, limit)
		if err != nil {
			return "", err
		}
		lines = append(lines, "=== "+sheet+" ===")
		lines = append(lines, sheetLines...)
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n"), nil
}

func sheetText(f *excelize.File, sheet string, limit int) ([]string, error) {
	rows, err := f.Rows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	defer rows.Close()

	var lines []string
	count := 0
	for rows.Next() {
		if count >= limit {
			lines = append(lines, TruncationMarker)
			break
		}
		count++

		cols, err := rows.Columns()
		if err != nil {
			return nil, fmt.Errorf("read row %d of %q: %w", count, sheet, err)
		}
		if line := joinCells(cols, false); line != "" {
			lines = append(lines, line)
		}
	}
	if err := rows.Error(); err != nil {
		return nil, fmt.Errorf("iterate sheet %q: %w", sheet, err)
	}

	return lines, nil
}

// joinCells joins the non-blank cells of a row with " | ". When trim is set
// the cells are trimmed before joining.
func joinCells(cells []string, trim bool) string {
	kept := make([]string, 0, len(cells))
	for _, c := range cells {
		if strings.TrimSpace(c) == "" {
			continue
		}
		if trim {
			c = strings.TrimSpace(c)
		}
		kept = append(kept, c)
	}
	return strings.Join(kept, " | ")
}
