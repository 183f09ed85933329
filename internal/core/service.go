package core

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/JonMunkholm/patternhive/internal/config"
	"github.com/JonMunkholm/patternhive/internal/document"
	"github.com/JonMunkholm/patternhive/internal/extract"
	"github.com/JonMunkholm/patternhive/internal/format"
	"github.com/JonMunkholm/patternhive/internal/logging"
	"github.com/JonMunkholm/patternhive/internal/validate"
)

// Input sources, used as metric labels.
const (
	SourceText     = "text"
	SourceDocument = "document"
)

// Service wires validation, document conversion, extraction and result
// storage together. It is safe for concurrent use.
type Service struct {
	validator *validate.Validator
	adapter   *document.Adapter
	results   *ResultStore
	limiter   *UploadLimiter
	metrics   *Metrics
}

// NewService builds a Service from configuration. metrics may be nil.
func NewService(cfg *config.Config, metrics *Metrics) *Service {
	limiter := NewUploadLimiter(cfg.Upload.MaxConcurrent, cfg.Upload.MaxWaitTime)
	limiter.onChange = metrics.setConversionsActive

	return &Service{
		validator: validate.New(cfg.Extract.MaxTextLength, cfg.Extract.MaxFileSize),
		adapter: document.New(document.Options{
			MaxPages: cfg.Extract.MaxPages,
			MaxRows:  cfg.Extract.MaxRows,
			MaxBytes: cfg.Extract.MaxFileSize,
		}),
		results: NewResultStore(cfg.Results.TTL, cfg.Results.MaxEntries),
		limiter: limiter,
		metrics: metrics,
	}
}

// ExtractText validates text, extracts entities and stores the result.
// Rejected text is never passed to the extractor.
func (s *Service) ExtractText(ctx context.Context, text string) (*Extraction, error) {
	start := time.Now()

	if err := s.validator.CheckText(text); err != nil {
		s.metrics.RecordRejection(err)
		return nil, err
	}

	return s.store(ctx, SourceText, "", extract.ExtractAll(text), start), nil
}

// ExtractDocument converts an upload to text, then behaves like ExtractText.
// Conversion holds an upload slot for its duration.
func (s *Service) ExtractDocument(ctx context.Context, info validate.FileInfo, r io.Reader) (*Extraction, error) {
	start := time.Now()

	text, err := s.convert(ctx, info, r)
	if err != nil {
		s.metrics.RecordRejection(err)
		return nil, err
	}

	if err := s.validator.CheckText(text); err != nil {
		s.metrics.RecordRejection(err)
		return nil, fmt.Errorf("%s: %w", info.Filename, err)
	}

	return s.store(ctx, SourceDocument, info.Filename, extract.ExtractAll(text), start), nil
}

func (s *Service) convert(ctx context.Context, info validate.FileInfo, r io.Reader) (string, error) {
	if err := s.validator.CheckFile(info); err != nil {
		return "", err
	}
	if !validate.IsSafeFilename(info.Filename) {
		return "", fmt.Errorf("%w: unsafe filename %q", validate.ErrInvalidInput, info.Filename)
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		return "", err
	}
	defer s.limiter.Release()

	text, err := s.adapter.Extract(ctx, r, info.Filename)
	if err != nil {
		return "", fmt.Errorf("convert %s: %w", info.Filename, err)
	}

	logging.FromContext(ctx).Debug("document converted",
		"filename", info.Filename,
		"bytes", info.Size,
		"chars", len(text),
	)
	return text, nil
}

func (s *Service) store(ctx context.Context, source, filename string, res extract.Result, start time.Time) *Extraction {
	e := s.results.Put(res, filename)
	elapsed := time.Since(start)

	s.metrics.recordExtraction(source, e, elapsed)
	s.metrics.setResultsStored(s.results.Len())

	logging.WithFields(ctx, "session_id", e.SessionID, "client_ip", ClientIPFromContext(ctx)).Info("extraction stored",
		"source", source,
		"emails", e.Stats.EmailsFound,
		"phones", e.Stats.PhonesFound,
		"names", e.Stats.NamesFound,
		"duration_ms", elapsed.Milliseconds(),
	)
	return e
}

// Result returns a stored extraction. Malformed IDs are rejected before the
// store is consulted.
func (s *Service) Result(sessionID string) (*Extraction, error) {
	if err := validate.CheckSessionID(sessionID); err != nil {
		return nil, err
	}
	return s.results.Get(sessionID)
}

// Export renders a stored extraction in the requested format.
func (s *Service) Export(exportFormat, sessionID string) ([]byte, error) {
	if err := validate.CheckExportFormat(exportFormat); err != nil {
		return nil, err
	}

	e, err := s.Result(sessionID)
	if err != nil {
		return nil, err
	}

	return format.Render(exportFormat, e.Results)
}

// StartJanitor evicts expired results until ctx is cancelled.
func (s *Service) StartJanitor(ctx context.Context, interval time.Duration) {
	s.results.StartJanitor(ctx, interval, s.metrics.setResultsStored)
}

// WaitForUploads blocks until in-flight conversions finish or ctx ends.
func (s *Service) WaitForUploads(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}

// UploadStatus reports conversion slot usage.
func (s *Service) UploadStatus() UploadLimiterStatus {
	return s.limiter.Status()
}

// StoredResults returns how many results are held in memory.
func (s *Service) StoredResults() int {
	return s.results.Len()
}
