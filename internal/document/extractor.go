package document

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/nikhilbhutani/linguavox/pkg/textextract"
)

var (
	ErrUnsupportedFormat = textextract.ErrUnsupportedFormat
	ErrTooLarge          = errors.New("file too large")
)

// Upload is a user-supplied file: its original name and raw bytes.
type Upload struct {
	Filename string
	Data     []byte
}

type TextExtractor interface {
	Extract(ctx context.Context, upload Upload) (*textextract.ExtractedText, error)
	SupportedTypes() []string
}

type extractor struct {
	maxBytes int64
}

// NewTextExtractor returns an extractor rejecting uploads larger than maxBytes.
// A non-positive maxBytes disables the limit.
func NewTextExtractor(maxBytes int64) TextExtractor {
	return &extractor{maxBytes: maxBytes}
}

func (e *extractor) Extract(ctx context.Context, upload Upload) (*textextract.ExtractedText, error) {
	size := int64(len(upload.Data))
	if e.maxBytes > 0 && size > e.maxBytes {
		return nil, fmt.Errorf("%w: %s exceeds the %s limit", ErrTooLarge,
			humanize.IBytes(uint64(size)), humanize.IBytes(uint64(e.maxBytes)))
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	result, err := textextract.Extract(bytes.NewReader(upload.Data), size, upload.Filename)
	if errors.Is(err, textextract.ErrUnsupportedFormat) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("extract text from %q: %w", upload.Filename, err)
	}

	slog.Debug("text extracted",
		"filename", upload.Filename,
		"type", result.Metadata["type"],
		"size", humanize.IBytes(uint64(size)),
		"chars", len(result.Content),
		"duration", time.Since(start),
	)
	return result, nil
}

func (e *extractor) SupportedTypes() []string {
	return textextract.SupportedTypes()
}
