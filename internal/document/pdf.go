package document

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFExtractor reads the plain text of each page, up to MaxPages pages.
// Pages past the cap are dropped silently.
type PDFExtractor struct {
	MaxPages int
}

// ExtractText implements Extractor.
func (e *PDFExtractor) ExtractText(ctx context.Context, data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	pages := reader.NumPage()
	limit := e.MaxPages
	if limit <= 0 {
		limit = DefaultMaxPages
	}
	if pages > limit {
		slog.Debug("pdf page cap reached", "pages", pages, "max_pages", limit)
		pages = limit
	}

	texts := make([]string, 0, pages)
	for i := 1; i <= pages; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			slog.Debug("skipping unreadable pdf page", "page", i, "error", err)
			continue
		}
		if strings.TrimSpace(text) != "" {
			texts = append(texts, text)
		}
	}

	return strings.Join(texts, "\n"), nil
}
