package web

// errors.go turns handler errors into responses.
//
// The technical error is logged with the request ID. The client gets the
// user message from core.MapError, as JSON for API callers and as an HTML
// page for browsers. The status code follows the error's sentinel.

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/JonMunkholm/patternhive/internal/core"
	"github.com/JonMunkholm/patternhive/internal/document"
	"github.com/JonMunkholm/patternhive/internal/format"
	"github.com/JonMunkholm/patternhive/internal/logging"
	"github.com/JonMunkholm/patternhive/internal/validate"
	"github.com/JonMunkholm/patternhive/internal/web/templates"
	"github.com/go-chi/chi/v5/middleware"
)

var (
	errRateLimited  = errors.New("rate limit exceeded")
	errBodyTooLarge = errors.New("request body too large")
)

// ErrorResponse is the JSON body of every API error.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// reject counts an error raised by the web layer itself, then responds.
// Errors from the service are counted by the service.
func (s *Server) reject(w http.ResponseWriter, r *http.Request, err error) {
	s.metrics.RecordRejection(err)
	s.respondError(w, r, err)
}

// respondError logs err and writes the mapped user message.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	userMsg := core.MapError(err)
	status := statusFor(err, userMsg.Code)

	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	logging.FromContext(r.Context()).Log(r.Context(), level, "request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", userMsg.Code,
		"request_id", middleware.GetReqID(r.Context()),
	)

	if wantsJSON(r) {
		respondErrorJSON(w, userMsg, status)
		return
	}
	respondErrorHTML(w, r, userMsg, status)
}

// statusFor picks the HTTP status for an error and its user-facing code.
func statusFor(err error, code string) int {
	var maxErr *http.MaxBytesError

	switch {
	case errors.Is(err, errRateLimited):
		return http.StatusTooManyRequests
	case code == "FILE001", errors.As(err, &maxErr),
		errors.Is(err, errBodyTooLarge), errors.Is(err, document.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, core.ErrResultNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrTooManyUploads),
		errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	case errors.Is(err, validate.ErrInvalidInput),
		errors.Is(err, validate.ErrUnsafeContent),
		errors.Is(err, validate.ErrFormat),
		errors.Is(err, format.ErrUnknownFormat),
		errors.Is(err, document.ErrNoText),
		errors.Is(err, document.ErrUnsupported):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func respondErrorJSON(w http.ResponseWriter, msg core.UserMessage, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	})
}

func respondErrorHTML(w http.ResponseWriter, r *http.Request, msg core.UserMessage, status int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := templates.ErrorPage(msg.Message, msg.Action, msg.Code).Render(r.Context(), w); err != nil {
		slog.Error("render error page", "error", err)
	}
}

// wantsJSON reports whether the client should get a JSON error.
func wantsJSON(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "application/json") ||
		strings.Contains(r.Header.Get("Content-Type"), "application/json")
}
