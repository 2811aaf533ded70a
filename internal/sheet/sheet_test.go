package sheet

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

func createTestXLSX(t *testing.T, sheets map[string][][]string) string {
	t.Helper()
	f := xlsx.NewFile()
	for name, rows := range sheets {
		sheet, err := f.AddSheet(name)
		require.NoError(t, err)
		for _, rowData := range rows {
			row := sheet.AddRow()
			for _, cellData := range rowData {
				row.AddCell().SetString(cellData)
			}
		}
	}
	path := filepath.Join(t.TempDir(), "test.xlsx")
	require.NoError(t, f.Save(path))
	return path
}

func TestReadXLSX_Basic(t *testing.T) {
	path := createTestXLSX(t, map[string][][]string{
		"Sheet1": {
			{"NOME", "CPF"},
			{"Ana Silva", "111.444.777-35"},
		},
	})

	rows, err := Read(path, Options{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"NOME", "CPF"}, rows[0])
	assert.Equal(t, []string{"Ana Silva", "111.444.777-35"}, rows[1])
}

func TestReadXLSX_NumericAndDateCells(t *testing.T) {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Sheet1")
	require.NoError(t, err)
	row := sheet.AddRow()
	row.AddCell().SetInt(11144477735)
	row.AddCell().SetDate(time.Date(2000, 1, 15, 0, 0, 0, 0, time.UTC))
	row.AddCell().SetFloat(12.5)
	row.AddCell().SetInt(1001000)
	path := filepath.Join(t.TempDir(), "numeric.xlsx")
	require.NoError(t, f.Save(path))

	rows, err := ReadXLSX(path, "")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "11144477735", rows[0][0])
	assert.Equal(t, "2000-01-15", rows[0][1])
	assert.Equal(t, "12.5", rows[0][2])
	assert.Equal(t, "1001000", rows[0][3])
}

func TestReadXLSX_SheetName(t *testing.T) {
	path := createTestXLSX(t, map[string][][]string{
		"First":  {{"a"}},
		"Second": {{"x"}, {"y"}},
	})

	rows, err := ReadXLSX(path, "Second")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"x"}, {"y"}}, rows)

	_, err = ReadXLSX(path, "Missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestReadXLSX_MissingFile(t *testing.T) {
	_, err := ReadXLSX(filepath.Join(t.TempDir(), "nope.xlsx"), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open file")
}

func TestWriteXLSX_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	header := []string{"CPF", "Motivo"}
	rows := [][]string{{"00000000191", "Telefone inválido"}, {"11144477735", ""}}

	require.NoError(t, Write(path, header, rows))

	got, err := Read(path, Options{})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, header, got[0])
	assert.Equal(t, "00000000191", got[1][0])
	assert.Equal(t, "Telefone inválido", got[1][1])
}

func TestCSV_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	header := []string{"NOME", "Motivo"}
	rows := [][]string{{"ANA", "CPF inválido, Telefone inválido"}}

	require.NoError(t, Write(path, header, rows))

	got, err := Read(path, Options{})
	require.NoError(t, err)
	assert.Equal(t, [][]string{header, rows[0]}, got)
}

func TestReadCSV_BOMAndDelimiter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.csv")
	content := "\xEF\xBB\xBFNOME;CPF\nAna;123\nBia\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	rows, err := Read(path, Options{Delimiter: ';'})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"NOME", "CPF"}, {"Ana", "123"}, {"Bia"}}, rows)
}

func TestDetectFormat(t *testing.T) {
	f, err := DetectFormat("dados.XLSX")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	f, err = DetectFormat("/tmp/dados.csv")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	_, err = DetectFormat("dados.xls")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported")
}

func TestIsDateFormat(t *testing.T) {
	assert.True(t, isDateFormat("mm-dd-yy"))
	assert.True(t, isDateFormat("dd/mm/yyyy"))
	assert.True(t, isDateFormat("[$-416]d/m/yyyy"))
	assert.True(t, isDateFormat("mmm-yy"))
	assert.False(t, isDateFormat("general"))
	assert.False(t, isDateFormat("0.00"))
	assert.False(t, isDateFormat(`0" days"`))
	assert.False(t, isDateFormat("@"))
}
