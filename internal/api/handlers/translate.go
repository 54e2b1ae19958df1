package handlers

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"

	"github.com/nikhilbhutani/linguavox/internal/audio"
	"github.com/nikhilbhutani/linguavox/internal/failure"
	"github.com/nikhilbhutani/linguavox/internal/language"
	"github.com/nikhilbhutani/linguavox/internal/pipeline"
)

type TranslateHandler struct {
	pipeline Pipeline
	maxBytes int64
}

func NewTranslateHandler(p Pipeline, maxBytes int64) *TranslateHandler {
	return &TranslateHandler{pipeline: p, maxBytes: maxBytes}
}

type translateRequest struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

type audioResponse struct {
	ID          string `json:"id"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	URL         string `json:"url"`
	DownloadURL string `json:"download_url"`
}

type translateResponse struct {
	SourceText     string            `json:"source_text"`
	TranslatedText string            `json:"translated_text"`
	Language       language.Language `json:"language"`
	Audio          audioResponse     `json:"audio"`
}

// Translate accepts either a JSON body {"text", "language"} or a multipart
// form with text, language and an optional file. The file wins over text.
func (h *TranslateHandler) Translate(w http.ResponseWriter, r *http.Request) {
	var src pipeline.Source
	var lang string

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		form, err := parseForm(w, r, h.maxBytes)
		if err != nil {
			writeError(w, r, err)
			return
		}
		src = pipeline.Source{Text: form.text, File: form.file}
		lang = form.language
	} else {
		var req translateRequest
		if h.maxBytes > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			var mbe *http.MaxBytesError
			if errors.As(err, &mbe) {
				writeError(w, r, tooLargeError(h.maxBytes))
				return
			}
			writeError(w, r, failure.Input("invalid request body"))
			return
		}
		src = pipeline.Source{Text: req.Text}
		lang = req.Language
	}

	if lang == "" {
		writeError(w, r, failure.Input("language required"))
		return
	}

	res, err := h.pipeline.Run(r.Context(), src, lang)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, translateResponse{
		SourceText:     res.SourceText,
		TranslatedText: res.TranslatedText,
		Language:       res.Language,
		Audio:          newAudioResponse(res.Audio),
	})
}

func newAudioResponse(a *audio.Artifact) audioResponse {
	url := "/api/v1/audio/" + a.ID.String()
	return audioResponse{
		ID:          a.ID.String(),
		ContentType: a.ContentType,
		Size:        a.Size,
		URL:         url,
		DownloadURL: url + "/download",
	}
}
