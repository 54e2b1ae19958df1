package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/nikhilbhutani/linguavox/internal/audio"
)

const downloadName = "translated_audio"

type AudioStore interface {
	Open(id uuid.UUID) (*os.File, *audio.Artifact, error)
	Remove(id uuid.UUID) error
}

type AudioHandler struct {
	store AudioStore
}

func NewAudioHandler(store AudioStore) *AudioHandler {
	return &AudioHandler{store: store}
}

// Play streams the clip inline for an audio player.
func (h *AudioHandler) Play(w http.ResponseWriter, r *http.Request) {
	f, a, ok := h.open(w, r)
	if !ok {
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", a.ContentType)
	http.ServeContent(w, r, "", a.CreatedAt, f)
}

// Download serves the clip as an attachment. The clip is deleted only after a
// complete 200 response; ranged fetches leave it to the TTL sweeper.
func (h *AudioHandler) Download(w http.ResponseWriter, r *http.Request) {
	f, a, ok := h.open(w, r)
	if !ok {
		return
	}

	ext := filepath.Ext(a.Path)
	if ext == "" {
		ext = ".mp3"
	}
	w.Header().Set("Content-Type", a.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s%s"`, downloadName, ext))
	ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
	http.ServeContent(ww, r, "", a.CreatedAt, f)

	f.Close()
	if ww.Status() != http.StatusOK || r.Method == http.MethodHead {
		return
	}
	if err := h.store.Remove(a.ID); err != nil && !errors.Is(err, audio.ErrNotFound) {
		slog.Warn("failed to remove downloaded audio", "id", a.ID, "error", err)
	}
}

func (h *AudioHandler) open(w http.ResponseWriter, r *http.Request) (*os.File, *audio.Artifact, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "audio not found"})
		return nil, nil, false
	}

	f, a, err := h.store.Open(id)
	if errors.Is(err, audio.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "audio not found"})
		return nil, nil, false
	}
	if err != nil {
		writeError(w, r, err)
		return nil, nil, false
	}
	return f, a, true
}
