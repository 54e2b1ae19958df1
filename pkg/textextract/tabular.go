package textextract

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

var errNoSheets = errors.New("workbook has no sheets")

func extractCSV(data io.ReaderAt, size int64) (*ExtractedText, error) {
	r := csv.NewReader(io.NewSectionReader(data, 0, size))
	r.FieldsPerRecord = -1

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse CSV: %w", err)
	}

	return tabularText("csv", rows), nil
}

// extractXLSX reads the first sheet of the workbook.
func extractXLSX(data io.ReaderAt, size int64) (*ExtractedText, error) {
	f, err := excelize.OpenReader(io.NewSectionReader(data, 0, size))
	if err != nil {
		return nil, fmt.Errorf("open XLSX: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("open XLSX: %w", errNoSheets)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read XLSX sheet %q: %w", sheets[0], err)
	}

	result := tabularText("xlsx", rows)
	result.Metadata["sheet"] = sheets[0]
	return result, nil
}

func tabularText(kind string, rows [][]string) *ExtractedText {
	body := 0
	if len(rows) > 1 {
		body = len(rows) - 1
	}
	return &ExtractedText{
		Content: FlattenRows(rows),
		Pages:   1,
		Metadata: map[string]string{
			"type": kind,
			"rows": strconv.Itoa(body),
		},
	}
}

// FlattenRows joins every cell below the header row, row-major, with a single
// space. Rows are padded with empty cells to the widest row so each one
// contributes the same number of cells.
func FlattenRows(rows [][]string) string {
	if len(rows) < 2 {
		return ""
	}

	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}

	cells := make([]string, 0, (len(rows)-1)*width)
	for _, row := range rows[1:] {
		for i := 0; i < width; i++ {
			if i < len(row) {
				cells = append(cells, row[i])
			} else {
				cells = append(cells, "")
			}
		}
	}
	return strings.Join(cells, " ")
}
