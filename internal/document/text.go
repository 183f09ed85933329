package document

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"io"
	"log/slog"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// textDecoder turns raw bytes into a string, reporting false when the bytes
// are not valid in its encoding.
type textDecoder struct {
	name   string
	decode func([]byte) (string, bool)
}

// textDecoders are tried in order; the first that succeeds wins. Latin-1
// maps every byte, so Windows-1252 is only reached if an earlier decoder is
// removed.
var textDecoders = []textDecoder{
	{"utf-8", decodeUTF8},
	{"utf-8-sig", decodeUTF8BOM},
	{"latin-1", charmapDecoder(charmap.ISO8859_1)},
	{"windows-1252", charmapDecoder(charmap.Windows1252)},
}

func decodeUTF8(b []byte) (string, bool) {
	if bytes.HasPrefix(b, utf8BOM) || !utf8.Valid(b) {
		return "", false
	}
	return string(b), true
}

func decodeUTF8BOM(b []byte) (string, bool) {
	rest, ok := bytes.CutPrefix(b, utf8BOM)
	if !ok || !utf8.Valid(rest) {
		return "", false
	}
	return string(rest), true
}

func charmapDecoder(cm *charmap.Charmap) func([]byte) (string, bool) {
	return func(b []byte) (string, bool) {
		out, err := decodeWith(cm, b)
		if err != nil {
			return "", false
		}
		return out, true
	}
}

func decodeWith(enc encoding.Encoding, b []byte) (string, error) {
	out, err := enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// decodeText returns b decoded by the first decoder that accepts it.
func decodeText(b []byte) (string, string, bool) {
	for _, d := range textDecoders {
		if s, ok := d.decode(b); ok {
			return s, d.name, true
		}
	}
	return "", "", false
}

// TextExtractor decodes plain text. With CSV set, rows are re-flowed as
// their trimmed non-empty cells joined by " | ", capped at MaxRows.
type TextExtractor struct {
	CSV     bool
	MaxRows int
}

// ExtractText implements Extractor.
func (e *TextExtractor) ExtractText(_ context.Context, data []byte) (string, error) {
	text, enc, ok := decodeText(data)
	if !ok {
		return "", ErrNoText
	}
	slog.Debug("decoded text document", "encoding", enc, "bytes", len(data))

	if !e.CSV {
		return text, nil
	}

	limit := e.MaxRows
	if limit <= 0 {
		limit = DefaultMaxRows
	}
	reflowed, err := reflowCSV(text, limit)
	if err != nil {
		slog.Debug("csv parse failed, using raw text", "error", err)
		return text, nil
	}
	return reflowed, nil
}

func reflowCSV(text string, limit int) (string, error) {
	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var lines []string
	count := 0
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}

		if count >= limit {
			lines = append(lines, TruncationMarker)
			break
		}
		count++

		if line := joinCells(record, true); line != "" {
			lines = append(lines, line)
		}
	}

	return strings.Join(lines, "\n"), nil
}
