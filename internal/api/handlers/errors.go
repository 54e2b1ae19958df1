package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/nikhilbhutani/linguavox/internal/document"
	"github.com/nikhilbhutani/linguavox/internal/failure"
)

// statusFor maps a pipeline error to an HTTP status.
func statusFor(err error) int {
	if errors.Is(err, document.ErrTooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	switch failure.KindOf(err) {
	case failure.KindInput:
		return http.StatusBadRequest
	case failure.KindUnsupportedFormat:
		return http.StatusUnsupportedMediaType
	case failure.KindExtraction:
		return http.StatusUnprocessableEntity
	case failure.KindTranslation, failure.KindSpeech:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		msg = "internal error"
	} else {
		slog.WarnContext(r.Context(), "request rejected", "path", r.URL.Path, "status", status, "error", err)
	}
	writeJSON(w, status, map[string]string{"error": msg})
}
