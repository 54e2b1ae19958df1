package textextract

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"
)

// extractPDF spools the upload into a temporary file and reads it back page by
// page. The temporary file is removed on every return path.
func extractPDF(data io.ReaderAt, size int64) (result *ExtractedText, err error) {
	tmp, err := os.CreateTemp("", "upload-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp PDF: %w", err)
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	if _, err := io.Copy(tmp, io.NewSectionReader(data, 0, size)); err != nil {
		return nil, fmt.Errorf("spool PDF: %w", err)
	}

	// The parser panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("open PDF: malformed document: %v", r)
		}
	}()

	reader, err := pdf.NewReader(tmp, size)
	if err != nil {
		return nil, fmt.Errorf("open PDF: %w", err)
	}

	var buf strings.Builder
	numPages := reader.NumPage()

	for i := 1; i <= numPages; i++ {
		buf.WriteString(pageText(reader.Page(i)))
		buf.WriteString("\n")
	}

	return &ExtractedText{
		Content: buf.String(),
		Pages:   numPages,
		Metadata: map[string]string{
			"type":  "pdf",
			"pages": strconv.Itoa(numPages),
		},
	}, nil
}

// pageText returns "" for pages without extractable text, such as scanned images.
func pageText(page pdf.Page) string {
	if page.V.IsNull() {
		return ""
	}
	text, err := page.GetPlainText(nil)
	if err != nil {
		return ""
	}
	return text
}
