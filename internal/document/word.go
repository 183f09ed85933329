package document

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

const wordBodyPart = "word/document.xml"

// xmlExpansion bounds the decompressed body relative to MaxBytes.
const xmlExpansion = 4

// WordExtractor reads OOXML word-processing documents. Body paragraphs come
// first, followed by one line per table row with the non-empty cells joined
// by " | ". Legacy binary .doc files are not zip archives and fail to open.
type WordExtractor struct {
	MaxBytes int64
}

// ExtractText implements Extractor.
func (e *WordExtractor) ExtractText(ctx context.Context, data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}

	var body *zip.File
	for _, f := range zr.File {
		if f.Name == wordBodyPart {
			body = f
			break
		}
	}
	if body == nil {
		return "", fmt.Errorf("%w: %s missing", ErrNoText, wordBodyPart)
	}

	rc, err := body.Open()
	if err != nil {
		return "", fmt.Errorf("open %s: %w", wordBodyPart, err)
	}
	defer rc.Close()

	limit := e.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	cr := &countingReader{reader: rc, Limit: limit * xmlExpansion}

	paragraphs, rows, err := parseWordBody(ctx, cr)
	if err != nil {
		return "", err
	}

	return strings.Join(append(paragraphs, rows...), "\n"), nil
}

// wordWalker accumulates text while streaming the body XML. Only tables at
// nesting depth one contribute rows; nested tables are skipped.
type wordWalker struct {
	tblDepth int
	inRun    bool
	inText   bool

	para       strings.Builder
	cellParas  []string
	cells      []string
	paragraphs []string
	rows       []string
}

func parseWordBody(ctx context.Context, r io.Reader) (paragraphs, rows []string, err error) {
	dec := xml.NewDecoder(r)
	w := &wordWalker{}

	for {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("parse %s: %w", wordBodyPart, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			w.start(t.Name.Local)
		case xml.EndElement:
			w.end(t.Name.Local)
		case xml.CharData:
			if w.inText {
				w.para.Write(t)
			}
		}
	}

	return w.paragraphs, w.rows, nil
}

func (w *wordWalker) start(name string) {
	switch name {
	case "tbl":
		w.tblDepth++
	case "tr":
		if w.tblDepth == 1 {
			w.cells = w.cells[:0]
		}
	case "tc":
		if w.tblDepth == 1 {
			w.cellParas = w.cellParas[:0]
		}
	case "p":
		w.para.Reset()
	case "r":
		w.inRun = true
	case "t":
		w.inText = true
	case "tab":
		if w.inRun {
			w.para.WriteByte('\t')
		}
	case "br", "cr":
		if w.inRun {
			w.para.WriteByte('\n')
		}
	}
}

func (w *wordWalker) end(name string) {
	switch name {
	case "t":
		w.inText = false
	case "r":
		w.inRun = false
	case "p":
		text := w.para.String()
		switch w.tblDepth {
		case 0:
			if strings.TrimSpace(text) != "" {
				w.paragraphs = append(w.paragraphs, text)
			}
		case 1:
			w.cellParas = append(w.cellParas, text)
		}
	case "tc":
		if w.tblDepth == 1 {
			cell := strings.Join(w.cellParas, "\n")
			if strings.TrimSpace(cell) != "" {
				w.cells = append(w.cells, cell)
			}
		}
	case "tr":
		if w.tblDepth == 1 && len(w.cells) > 0 {
			w.rows = append(w.rows, strings.Join(w.cells, " | "))
		}
	case "tbl":
		w.tblDepth--
	}
}
