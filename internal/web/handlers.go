package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/JonMunkholm/patternhive/internal/core"
	"github.com/JonMunkholm/patternhive/internal/format"
	"github.com/JonMunkholm/patternhive/internal/validate"
	"github.com/JonMunkholm/patternhive/internal/web/templates"
	"github.com/go-chi/chi/v5"
)

type extractRequest struct {
	Text string `json:"text"`
}

// handleExtract runs extraction on JSON {"text": "..."}.
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Extract.MaxFileSize)

	var req extractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.reject(w, r, bodyError(err))
		return
	}

	e, err := s.service.ExtractText(r.Context(), req.Text)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, e)
}

// handleUpload converts a multipart "file" upload and extracts from it.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	e, err := s.extractUpload(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, e)
}

// handleResult returns a stored extraction as JSON.
func (s *Server) handleResult(w http.ResponseWriter, r *http.Request) {
	e, err := s.service.Result(chi.URLParam(r, "sessionID"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, e)
}

// handleExport renders a stored extraction. CSV and report exports are sent
// as attachments.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "format")
	sessionID := chi.URLParam(r, "sessionID")

	data, err := s.service.Export(kind, sessionID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType(kind))
	if name := exportFilename(kind, sessionID); name != "" {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	}
	if _, err := w.Write(data); err != nil {
		slog.Warn("export write failed", "session_id", sessionID, "error", err)
	}
}

func exportFilename(kind, sessionID string) string {
	switch kind {
	case format.CSVFormat:
		return "extracted_data_" + sessionID + ".csv"
	case format.ReportFormat:
		return "report_" + sessionID + ".txt"
	}
	return ""
}

// handleExtractForm is the browser flow for pasted text. It redirects to
// the results page.
func (s *Server) handleExtractForm(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Extract.MaxFileSize)
	if err := r.ParseForm(); err != nil {
		s.reject(w, r, bodyError(err))
		return
	}

	e, err := s.service.ExtractText(r.Context(), r.PostForm.Get("text"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	http.Redirect(w, r, "/results/"+e.SessionID, http.StatusSeeOther)
}

// handleUploadForm is the browser flow for uploads.
func (s *Server) handleUploadForm(w http.ResponseWriter, r *http.Request) {
	e, err := s.extractUpload(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	http.Redirect(w, r, "/results/"+e.SessionID, http.StatusSeeOther)
}

// handleResultsPage shows a stored extraction as HTML.
func (s *Server) handleResultsPage(w http.ResponseWriter, r *http.Request) {
	e, err := s.service.Result(chi.URLParam(r, "sessionID"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.Results(e).Render(r.Context(), w); err != nil {
		slog.Error("render results page", "session_id", e.SessionID, "error", err)
	}
}

// handleHealth reports liveness plus upload and result store usage.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"status":         "ok",
		"uploads":        s.service.UploadStatus(),
		"results_stored": s.service.StoredResults(),
	})
}

// extractUpload reads the multipart "file" field and hands it to the
// service. The request body is capped at the file size limit plus room for
// the multipart envelope.
func (s *Server) extractUpload(w http.ResponseWriter, r *http.Request) (*core.Extraction, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Extract.MaxFileSize+multipartOverhead)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		err = bodyError(err)
		s.metrics.RecordRejection(err)
		return nil, err
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			err = fmt.Errorf("%w: no file selected", validate.ErrInvalidInput)
		} else {
			err = bodyError(err)
		}
		s.metrics.RecordRejection(err)
		return nil, err
	}
	defer file.Close()

	info := validate.FileInfo{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
	}
	return s.service.ExtractDocument(r.Context(), info, file)
}

// bodyError classifies a failure to read or parse the request body.
func bodyError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return fmt.Errorf("%w: limit %d bytes", errBodyTooLarge, maxErr.Limit)
	}
	return fmt.Errorf("%w: invalid request body: %w", validate.ErrInvalidInput, err)
}
