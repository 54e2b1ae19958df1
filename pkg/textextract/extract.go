package textextract

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// UnsupportedFormatMessage is shown to the user when an upload has an extension
// outside of SupportedTypes.
const UnsupportedFormatMessage = "Unsupported file format. Please upload a PDF or txt, CSV or XLSX file format alone."

var (
	ErrUnsupportedFormat = errors.New(UnsupportedFormatMessage)
	ErrInvalidUTF8       = errors.New("text file is not valid UTF-8")
)

type ExtractedText struct {
	Content  string
	Pages    int
	Metadata map[string]string
}

// Extract reads the document and returns its plain text. The format is chosen
// from the suffix of filename using an exact, case-sensitive comparison.
func Extract(data io.ReaderAt, size int64, filename string) (*ExtractedText, error) {
	switch FormatOf(filename) {
	case ".pdf":
		return extractPDF(data, size)
	case ".txt":
		return extractTXT(data, size)
	case ".csv":
		return extractCSV(data, size)
	case ".xlsx":
		return extractXLSX(data, size)
	default:
		return nil, ErrUnsupportedFormat
	}
}

// FormatOf returns the supported suffix filename ends with, or "" when none matches.
func FormatOf(filename string) string {
	for _, ext := range SupportedTypes() {
		if strings.HasSuffix(filename, ext) {
			return ext
		}
	}
	return ""
}

func SupportedTypes() []string {
	return []string{".pdf", ".txt", ".csv", ".xlsx"}
}

func extractTXT(data io.ReaderAt, size int64) (*ExtractedText, error) {
	buf := make([]byte, size)
	_, err := data.ReadAt(buf, 0)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("read TXT: %w", err)
	}

	if !utf8.Valid(buf) {
		return nil, ErrInvalidUTF8
	}

	return &ExtractedText{
		Content: string(buf),
		Pages:   1,
		Metadata: map[string]string{
			"type": "txt",
		},
	}, nil
}
