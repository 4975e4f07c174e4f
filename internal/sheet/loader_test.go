package sheet_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"akazakov/snapstat/internal/parsererror"
	"akazakov/snapstat/internal/sheet"
)

func TestLoadRows_CommaCSV(t *testing.T) {
	content := []byte("Date,Amount,Description\n2026-01-15,-500,Magnit\n")
	rows, err := sheet.LoadRows(content, "statement.csv")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Date", "Amount", "Description"}, rows[0])
}

func TestLoadRows_SemicolonCSV(t *testing.T) {
	content := []byte("Дата;Сумма;Описание\n15.01.2026;-1 500,00;Пятёрочка\n")
	rows, err := sheet.LoadRows(content, "statement.csv")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "-1 500,00", rows[1][1], "semicolon splitting must keep the comma decimal intact")
}

func TestLoadRows_SkipsEmptyRows(t *testing.T) {
	content := []byte("Date,Amount,Description\n,,\n2026-01-15,-500,Magnit\n,,\n")
	rows, err := sheet.LoadRows(content, "statement.csv")
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestLoadRows_RaggedRows(t *testing.T) {
	content := []byte("Date,Amount,Description\n2026-01-15,-500\n2026-01-16,-600,Lenta,extra\n")
	rows, err := sheet.LoadRows(content, "statement.csv")
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestLoadRows_HeaderOnlyIsEmpty(t *testing.T) {
	_, err := sheet.LoadRows([]byte("Date,Amount,Description\n"), "statement.csv")
	var emptyErr *parsererror.EmptyFileError
	require.ErrorAs(t, err, &emptyErr)
	assert.Equal(t, "statement.csv", emptyErr.FilePath)
}

func TestLoadRows_XLSX(t *testing.T) {
	f := excelize.NewFile()
	sheetName := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheetName, "A1", &[]interface{}{"Дата", "Сумма", "Описание"}))
	require.NoError(t, f.SetSheetRow(sheetName, "A2", &[]interface{}{"15.01.2026", "-500", "Магнит"}))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	rows, err := sheet.LoadRows(buf.Bytes(), "statement.xlsx")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Магнит", rows[1][2])
}

func TestLoadRows_GarbageXLSX(t *testing.T) {
	_, err := sheet.LoadRows([]byte("PK\x03\x04 not really a zip"), "statement.xlsx")
	assert.Error(t, err)
}

func TestLoadRows_GarbageXLS(t *testing.T) {
	// An OLE2 signature routes to the legacy xls reader, never to CSV.
	content := append([]byte{0xd0, 0xcf, 0x11, 0xe0, 0xa1, 0xb1, 0x1a, 0xe1}, []byte("not a workbook")...)
	_, err := sheet.LoadRows(content, "legacy.xls")
	assert.Error(t, err)
	assert.NotContains(t, err.Error(), "CSV")
}
