// Package sheet loads bank-statement spreadsheets and maps their
// columns to semantic roles. Bank exports are messy: title rows before
// the header, arbitrary column orders, and mixed Latin/Cyrillic
// vocabularies all occur.
package sheet

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/shakinm/xlsReader/xls"
	"github.com/xuri/excelize/v2"

	"akazakov/snapstat/internal/parsererror"
)

var ole2Magic = []byte{0xd0, 0xcf, 0x11, 0xe0}

// LoadRows reads every non-empty row from an .xlsx, legacy .xls or .csv
// statement. The container format is sniffed from content, not trusted
// from the filename: xlsx is a zip ("PK"), xls is an OLE2 compound file,
// anything else is tried as CSV.
func LoadRows(content []byte, filename string) ([][]string, error) {
	var rows [][]string
	var err error
	switch {
	case bytes.HasPrefix(content, []byte("PK")):
		rows, err = loadXLSX(content)
	case bytes.HasPrefix(content, ole2Magic):
		rows, err = loadXLS(content)
	default:
		rows, err = loadCSV(content)
	}
	if err != nil {
		return nil, err
	}

	filtered := rows[:0]
	for _, row := range rows {
		if !rowEmpty(row) {
			filtered = append(filtered, row)
		}
	}
	if len(filtered) < 2 {
		return nil, &parsererror.EmptyFileError{FilePath: filename, Reason: "statement has no data rows"}
	}
	return filtered, nil
}

func loadXLSX(content []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("could not open xlsx: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheetName := f.GetSheetName(0)
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("could not read sheet %q: %w", sheetName, err)
	}
	return rows, nil
}

func loadXLS(content []byte) ([][]string, error) {
	workbook, err := xls.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("could not open xls: %w", err)
	}

	sheet, err := workbook.GetSheet(0)
	if err != nil {
		return nil, fmt.Errorf("could not read xls sheet: %w", err)
	}

	rows := make([][]string, 0, sheet.GetNumberRows())
	for i := 0; i < sheet.GetNumberRows(); i++ {
		row, err := sheet.GetRow(i)
		if err != nil {
			return nil, fmt.Errorf("could not read xls row %d: %w", i, err)
		}
		cells := row.GetCols()
		cols := make([]string, len(cells))
		for j, cell := range cells {
			cols[j] = cell.GetString()
		}
		rows = append(rows, cols)
	}
	return rows, nil
}

func loadCSV(content []byte) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(content))
	reader.Comma = detectDelimiter(content)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("could not read CSV: %w", err)
	}
	return rows, nil
}

// detectDelimiter picks the more frequent of ';' and ',' in the first
// line containing either. Title rows before the header often carry no
// delimiter at all, so they are skipped. Russian bank CSV exports
// commonly use semicolons.
func detectDelimiter(content []byte) rune {
	for _, line := range bytes.Split(content, []byte("\n")) {
		semis := bytes.Count(line, []byte(";"))
		commas := bytes.Count(line, []byte(","))
		if semis == 0 && commas == 0 {
			continue
		}
		if semis > commas {
			return ';'
		}
		return ','
	}
	return ','
}

func rowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
