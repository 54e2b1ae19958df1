package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/nikhilbhutani/linguavox/internal/document"
	"github.com/nikhilbhutani/linguavox/internal/failure"
	"github.com/nikhilbhutani/linguavox/internal/pipeline"
	"github.com/nikhilbhutani/linguavox/pkg/textextract"
)

// multipartOverhead leaves room for form fields and boundaries on top of the
// file size limit.
const multipartOverhead = 1 << 20

type Pipeline interface {
	Run(ctx context.Context, src pipeline.Source, languageName string) (*pipeline.Result, error)
	Extract(ctx context.Context, upload document.Upload) (*textextract.ExtractedText, error)
}

type DocumentHandler struct {
	pipeline Pipeline
	maxBytes int64
}

func NewDocumentHandler(p Pipeline, maxBytes int64) *DocumentHandler {
	return &DocumentHandler{pipeline: p, maxBytes: maxBytes}
}

type extractResponse struct {
	Filename string            `json:"filename"`
	Text     string            `json:"text"`
	Pages    int               `json:"pages"`
	Metadata map[string]string `json:"metadata"`
}

func (h *DocumentHandler) Extract(w http.ResponseWriter, r *http.Request) {
	form, err := parseForm(w, r, h.maxBytes)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if form.file == nil {
		writeError(w, r, failure.Input("file required"))
		return
	}

	result, err := h.pipeline.Extract(r.Context(), *form.file)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, extractResponse{
		Filename: form.file.Filename,
		Text:     result.Content,
		Pages:    result.Pages,
		Metadata: result.Metadata,
	})
}

type formInput struct {
	text     string
	language string
	file     *document.Upload
}

// parseForm reads a multipart form with optional text, language and file
// fields. The body is capped at maxBytes plus room for the other fields.
func parseForm(w http.ResponseWriter, r *http.Request, maxBytes int64) (*formInput, error) {
	if maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes+multipartOverhead)
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		if tooLarge(err) {
			return nil, tooLargeError(maxBytes)
		}
		return nil, failure.Input("invalid multipart form")
	}

	in := &formInput{
		text:     r.FormValue("text"),
		language: r.FormValue("language"),
	}

	file, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return in, nil
	}
	if err != nil {
		return nil, failure.Input("invalid file field")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	in.file = &document.Upload{Filename: header.Filename, Data: data}
	return in, nil
}

func tooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe) || strings.Contains(err.Error(), "request body too large")
}

func tooLargeError(maxBytes int64) error {
	return &failure.Error{
		Kind: failure.KindInput,
		Err:  fmt.Errorf("%w: request exceeds the %s limit", document.ErrTooLarge, humanize.IBytes(uint64(maxBytes))),
	}
}
