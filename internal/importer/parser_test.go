package importer

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, rows [][]any) *bytes.Reader {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return bytes.NewReader(buf.Bytes())
}

func TestXLSXParserMapsRowsByHeader(t *testing.T) {
	book := buildWorkbook(t, [][]any{
		{"COMPANY NAME", "PHONE", "PRODUCTS"},
		{"Sree Mills", "0421-1234567", "Cotton, Viscose"},
		{"Laxmi Knits", "", "Rib"},
	})

	parser := &XLSXParser{}
	rows, err := parser.Parse(book)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Sree Mills", rows[0]["COMPANY NAME"])
	assert.Equal(t, "0421-1234567", rows[0]["PHONE"])
	assert.Equal(t, "Cotton, Viscose", rows[0]["PRODUCTS"])
	assert.Equal(t, "Laxmi Knits", rows[1]["COMPANY NAME"])
}

func TestXLSXParserPadsShortRows(t *testing.T) {
	book := buildWorkbook(t, [][]any{
		{"COMPANY NAME", "PHONE", "EMAIL"},
		{"Short Row Mill"},
	})

	parser := &XLSXParser{}
	rows, err := parser.Parse(book)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "", rows[0]["PHONE"])
	assert.Equal(t, "", rows[0]["EMAIL"])
}

func TestXLSXParserTrimsHeaderCells(t *testing.T) {
	book := buildWorkbook(t, [][]any{
		{"  COMPANY NAME  ", "PHONE"},
		{"Trim Mills", "123"},
	})

	parser := &XLSXParser{}
	rows, err := parser.Parse(book)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Trim Mills", rows[0]["COMPANY NAME"])
}

func TestXLSXParserEnforcesRowLimit(t *testing.T) {
	content := [][]any{{"COMPANY NAME"}}
	for i := 0; i < 5; i++ {
		content = append(content, []any{fmt.Sprintf("Mill %d", i)})
	}
	book := buildWorkbook(t, content)

	parser := &XLSXParser{MaxRows: 3}
	_, err := parser.Parse(book)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "limit is 3")
}

func TestXLSXParserRejectsGarbageBytes(t *testing.T) {
	parser := &XLSXParser{}
	_, err := parser.Parse(bytes.NewReader([]byte("not a workbook")))
	require.Error(t, err)
}
