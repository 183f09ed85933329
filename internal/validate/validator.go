// Package validate decides whether text, uploaded files, filenames, export
// formats and result handles are acceptable before any extraction happens.
//
// Validators hold only limits. They retain nothing between calls and are
// safe for concurrent use.
package validate

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Default limits.
const (
	DefaultMaxTextLength = 1_000_000
	DefaultMaxFileSize   = 16 << 20
)

var (
	// ErrInvalidInput reports empty or oversized text, a bad file or a
	// malformed handle.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsafeContent reports text carrying active markup.
	ErrUnsafeContent = errors.New("unsafe content")

	// ErrFormat reports an export format outside the supported set.
	ErrFormat = errors.New("invalid export format")
)

// Export format tokens.
const (
	FormatJSON   = "json"
	FormatCSV    = "csv"
	FormatReport = "report"
)

var exportFormats = map[string]bool{
	FormatJSON:   true,
	FormatCSV:    true,
	FormatReport: true,
}

// allowedExtensions lists accepted upload types, without the dot.
var allowedExtensions = map[string]bool{
	"txt":  true,
	"pdf":  true,
	"docx": true,
	"doc":  true,
	"xlsx": true,
	"xls":  true,
	"csv":  true,
}

// unsafePatterns match script-capable markup. Matching is case-insensitive
// and '.' spans newlines.
var unsafePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`),
	regexp.MustCompile(`(?i)javascript:`),
	regexp.MustCompile(`(?i)on\w+\s*=`),
	regexp.MustCompile(`(?is)<iframe[^>]*>.*?</iframe>`),
	regexp.MustCompile(`(?is)<object[^>]*>.*?</object>`),
}

var controlChars = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]`)

// reservedNames are device names Windows refuses as file names.
var reservedNames = map[string]bool{
	"CON": true, "PRN": true, "AUX": true, "NUL": true,
	"COM1": true, "COM2": true, "COM3": true, "COM4": true, "COM5": true,
	"COM6": true, "COM7": true, "COM8": true, "COM9": true,
	"LPT1": true, "LPT2": true, "LPT3": true, "LPT4": true, "LPT5": true,
	"LPT6": true, "LPT7": true, "LPT8": true, "LPT9": true,
}

// FileInfo describes an upload before its contents are read. A Size of zero
// means the size is unknown.
type FileInfo struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// Extension returns the lowercased extension of the file without the dot.
func (f FileInfo) Extension() string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(f.Filename), "."))
}

// Validator checks inputs against configurable limits. The zero value uses
// the defaults.
type Validator struct {
	MaxTextLength int
	MaxFileSize   int64
}

// New returns a Validator with the given limits. Non-positive values fall
// back to the defaults.
func New(maxTextLength int, maxFileSize int64) *Validator {
	return &Validator{MaxTextLength: maxTextLength, MaxFileSize: maxFileSize}
}

func (v *Validator) maxText() int {
	if v == nil || v.MaxTextLength <= 0 {
		return DefaultMaxTextLength
	}
	return v.MaxTextLength
}

func (v *Validator) maxFile() int64 {
	if v == nil || v.MaxFileSize <= 0 {
		return DefaultMaxFileSize
	}
	return v.MaxFileSize
}

// CheckText returns nil when text is non-empty, within the length limit
// (counted in characters) and free of unsafe markup.
func (v *Validator) CheckText(text string) error {
	if !utf8.ValidString(text) {
		return fmt.Errorf("%w: text is not valid UTF-8", ErrInvalidInput)
	}

	n := utf8.RuneCountInString(text)
	if n < 1 {
		return fmt.Errorf("%w: no text provided", ErrInvalidInput)
	}
	if limit := v.maxText(); n > limit {
		return fmt.Errorf("%w: text length %d exceeds maximum %d", ErrInvalidInput, n, limit)
	}

	for _, re := range unsafePatterns {
		if re.MatchString(text) {
			return fmt.Errorf("%w: text contains active markup", ErrUnsafeContent)
		}
	}

	return nil
}

// ValidateText reports whether CheckText accepts text.
func (v *Validator) ValidateText(text string) bool {
	return v.CheckText(text) == nil
}

// CheckFile returns nil when the upload has a name, an accepted extension
// and, if known, a size within the limit.
func (v *Validator) CheckFile(info FileInfo) error {
	if info.Filename == "" {
		return fmt.Errorf("%w: no file selected", ErrInvalidInput)
	}

	ext := info.Extension()
	if !allowedExtensions[ext] {
		return fmt.Errorf("%w: unsupported file type %q", ErrInvalidInput, ext)
	}

	if limit := v.maxFile(); info.Size > 0 && info.Size > limit {
		return fmt.Errorf("%w: file too large (%d bytes, maximum %d)", ErrInvalidInput, info.Size, limit)
	}

	return nil
}

// ValidateFile reports whether CheckFile accepts info.
func (v *Validator) ValidateFile(info FileInfo) bool {
	return v.CheckFile(info) == nil
}

// SanitizeText strips control characters and unsafe markup, collapses
// whitespace runs to single spaces and trims the result. Stripping repeats
// until the text is stable, so markup joined by an earlier removal or by
// whitespace collapsing is removed too.
func SanitizeText(text string) string {
	if text == "" {
		return ""
	}

	text = strings.ToValidUTF8(text, "")
	text = controlChars.ReplaceAllString(text, "")
	for {
		stripped := sanitizePass(text)
		if stripped == text {
			return text
		}
		text = stripped
	}
}

func sanitizePass(text string) string {
	for _, re := range unsafePatterns {
		text = re.ReplaceAllString(text, "")
	}
	return strings.Join(strings.Fields(text), " ")
}

// IsSafeFilename rejects path traversal, separators and reserved device
// names. The device check ignores case and the final extension.
func IsSafeFilename(name string) bool {
	if name == "" {
		return false
	}
	if strings.Contains(name, "..") || strings.ContainsAny(name, `/\`) {
		return false
	}

	stem := strings.TrimSuffix(name, filepath.Ext(name))
	return !reservedNames[strings.ToUpper(stem)]
}

// CheckExportFormat returns ErrFormat unless format is json, csv or report.
func CheckExportFormat(format string) error {
	if !exportFormats[format] {
		return fmt.Errorf("%w: %q", ErrFormat, format)
	}
	return nil
}

// ValidateExportFormat reports whether format is a supported export format.
func ValidateExportFormat(format string) bool {
	return exportFormats[format]
}

// CheckSessionID returns nil for canonical hyphenated UUIDs.
func CheckSessionID(id string) error {
	if len(id) != 36 {
		return fmt.Errorf("%w: malformed session id", ErrInvalidInput)
	}
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: malformed session id: %w", ErrInvalidInput, err)
	}
	return nil
}

// ValidateSessionID reports whether id is a canonical hyphenated UUID.
func ValidateSessionID(id string) bool {
	return CheckSessionID(id) == nil
}

var defaultValidator = &Validator{}

// CheckText validates text against the default limits.
func CheckText(text string) error { return defaultValidator.CheckText(text) }

// ValidateText reports whether text passes the default limits.
func ValidateText(text string) bool { return defaultValidator.ValidateText(text) }

// CheckFile validates info against the default limits.
func CheckFile(info FileInfo) error { return defaultValidator.CheckFile(info) }

// ValidateFile reports whether info passes the default limits.
func ValidateFile(info FileInfo) bool { return defaultValidator.ValidateFile(info) }
