// Package document turns uploaded files into plain text for extraction.
//
// Each supported format has an Extractor registered under its file
// extension. Adapter.Extract picks the extractor, bounds how much input is
// read and converts every decoder failure, including panics inside
// third-party parsers, into ErrNoText.
package document

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
)

var (
	// ErrNoText means the file was read but no text could be obtained from
	// it. The file may be corrupt, image-only, encrypted or empty.
	ErrNoText = errors.New("no text extracted")

	// ErrUnsupported means no extractor is registered for the extension.
	ErrUnsupported = errors.New("unsupported file type")

	// ErrTooLarge means the input exceeded the byte limit.
	ErrTooLarge = errors.New("file too large")
)

// TruncationMarker is appended on its own line when a row cap is hit.
const TruncationMarker = "... (truncated due to size limit)"

// Default limits.
const (
	DefaultMaxPages = 100
	DefaultMaxRows  = 10_000
	DefaultMaxBytes = 16 << 20
)

// Extractor converts the raw bytes of one document format into text.
type Extractor interface {
	ExtractText(ctx context.Context, data []byte) (string, error)
}

// ExtractorFunc adapts a function to the Extractor interface.
type ExtractorFunc func(ctx context.Context, data []byte) (string, error)

// ExtractText calls f.
func (f ExtractorFunc) ExtractText(ctx context.Context, data []byte) (string, error) {
	return f(ctx, data)
}

// Options bounds the work done per document. Zero values use the defaults.
type Options struct {
	MaxPages int
	MaxRows  int
	MaxBytes int64
}

func (o Options) withDefaults() Options {
	if o.MaxPages <= 0 {
		o.MaxPages = DefaultMaxPages
	}
	if o.MaxRows <= 0 {
		o.MaxRows = DefaultMaxRows
	}
	if o.MaxBytes <= 0 {
		o.MaxBytes = DefaultMaxBytes
	}
	return o
}

// Adapter dispatches documents to per-format extractors.
type Adapter struct {
	opts       Options
	extractors map[string]Extractor
}

// New returns an Adapter with the built-in extractors registered.
func New(opts Options) *Adapter {
	opts = opts.withDefaults()
	a := &Adapter{
		opts:       opts,
		extractors: make(map[string]Extractor),
	}

	pdf := &PDFExtractor{MaxPages: opts.MaxPages}
	word := &WordExtractor{MaxBytes: opts.MaxBytes}
	sheet := &SpreadsheetExtractor{MaxRows: opts.MaxRows}

	a.Register("pdf", pdf)
	a.Register("docx", word)
	a.Register("doc", word)
	a.Register("xlsx", sheet)
	a.Register("xls", sheet)
	a.Register("txt", &TextExtractor{})
	a.Register("csv", &TextExtractor{CSV: true, MaxRows: opts.MaxRows})

	return a
}

// Register installs e for files with extension ext (without the dot).
// A later registration replaces an earlier one.
func (a *Adapter) Register(ext string, e Extractor) {
	a.extractors[strings.ToLower(strings.TrimPrefix(ext, "."))] = e
}

// Supports reports whether filename has a registered extractor.
func (a *Adapter) Supports(filename string) bool {
	_, ok := a.extractors[extension(filename)]
	return ok
}

// Options returns the effective limits.
func (a *Adapter) Options() Options {
	return a.opts
}

// Extract reads at most MaxBytes from r and returns the document's text.
// It returns ErrUnsupported for unknown extensions, ErrTooLarge when the
// input is over the limit and ErrNoText for anything the decoder could not
// turn into text.
func (a *Adapter) Extract(ctx context.Context, r io.Reader, filename string) (text string, err error) {
	ext := extension(filename)
	e, ok := a.extractors[ext]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupported, ext)
	}

	data, err := readLimited(r, a.opts.MaxBytes)
	if err != nil {
		return "", err
	}

	defer func() {
		if rec := recover(); rec != nil {
			slog.Warn("document decoder panicked", "ext", ext, "panic", rec)
			text, err = "", fmt.Errorf("%w: decoder panic", ErrNoText)
		}
	}()

	text, err = e.ExtractText(ctx, data)
	if err != nil {
		if errors.Is(err, ErrNoText) || ctx.Err() != nil {
			return "", err
		}
		return "", fmt.Errorf("%w: %w", ErrNoText, err)
	}

	if strings.TrimSpace(text) == "" {
		return "", ErrNoText
	}
	return text, nil
}

func extension(filename string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
}
