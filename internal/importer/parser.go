package importer

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// SheetParser turns raw spreadsheet bytes into an ordered sequence of row
// maps keyed by header text. The engine depends only on this contract.
type SheetParser interface {
	Parse(r io.Reader) ([]map[string]string, error)
}

// XLSXParser reads the first sheet of an Excel workbook.
type XLSXParser struct {
	// MaxRows bounds how many data rows one upload may carry. Zero means
	// no bound.
	MaxRows int
}

// Parse reads the first sheet and maps every data row by the header row.
// Cells beyond the header width are dropped; short rows yield empty values
// for the missing columns.
func (p *XLSXParser) Parse(r io.Reader) ([]map[string]string, error) {
	workbook, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer workbook.Close()

	sheets := workbook.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := workbook.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return []map[string]string{}, nil
	}

	header := make([]string, len(rows[0]))
	for i, cell := range rows[0] {
		header[i] = strings.TrimSpace(cell)
	}

	data := rows[1:]
	if p.MaxRows > 0 && len(data) > p.MaxRows {
		return nil, fmt.Errorf("sheet has %d data rows, limit is %d", len(data), p.MaxRows)
	}

	out := make([]map[string]string, 0, len(data))
	for _, row := range data {
		mapped := make(map[string]string, len(header))
		for i, key := range header {
			if key == "" {
				continue
			}
			if i < len(row) {
				mapped[key] = row[i]
			} else {
				mapped[key] = ""
			}
		}
		out = append(out, mapped)
	}
	return out, nil
}
