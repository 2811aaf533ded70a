package sheet

import (
	"math"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/roster-cli/internal/model"
)

// ReadXLSX reads the named sheet (or the first sheet) as string rows.
func ReadXLSX(path, sheetName string) ([][]string, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "xlsx: open file")
	}

	sheet, err := getSheet(f, sheetName)
	if err != nil {
		return nil, err
	}

	rows := make([][]string, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		rows = append(rows, rowToStrings(row, f.Date1904))
	}
	return rows, nil
}

// WriteXLSX writes header and rows to a single-sheet workbook. Every cell is
// stored as text so identifiers keep their leading zeros.
func WriteXLSX(path string, header []string, rows [][]string) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Sheet1")
	if err != nil {
		return eris.Wrap(err, "xlsx: add sheet")
	}

	addRow(sheet, header)
	for _, r := range rows {
		addRow(sheet, r)
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "xlsx: save %s", path)
	}
	return nil
}

func addRow(sheet *xlsx.Sheet, values []string) {
	row := sheet.AddRow()
	for _, v := range values {
		row.AddCell().SetString(v)
	}
}

func getSheet(f *xlsx.File, name string) (*xlsx.Sheet, error) {
	if name != "" {
		sheet, ok := f.Sheet[name]
		if !ok {
			return nil, eris.Errorf("xlsx: sheet %q not found", name)
		}
		return sheet, nil
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("xlsx: workbook has no sheets")
	}
	return f.Sheets[0], nil
}

func rowToStrings(row *xlsx.Row, date1904 bool) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cellString(cell, date1904)
	}
	return cells
}

// cellString renders numeric cells without float artifacts: date-formatted
// cells become ISO dates and integral numbers are written without exponent
// or decimal point, so CPFs and postal codes stored as numbers survive.
func cellString(cell *xlsx.Cell, date1904 bool) string {
	if cell.Type() != xlsx.CellTypeNumeric && cell.Type() != xlsx.CellTypeDate {
		return cell.String()
	}
	f, err := cell.Float()
	if err != nil {
		return cell.String()
	}
	if isDateFormat(cell.GetNumberFormat()) {
		return xlsx.TimeFromExcelTime(f, date1904).Format(model.DateLayout)
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return cell.String()
}

// isDateFormat reports whether an Excel number format renders a date.
func isDateFormat(format string) bool {
	f := strings.ToLower(format)
	if f == "" || f == "general" || f == "@" {
		return false
	}
	// Drop quoted literals and bracketed colors/locales before looking for
	// date tokens.
	var b strings.Builder
	inQuote, inBracket := false, false
	for _, r := range f {
		switch {
		case r == '"':
			inQuote = !inQuote
		case r == '[' && !inQuote:
			inBracket = true
		case r == ']' && !inQuote:
			inBracket = false
		case !inQuote && !inBracket:
			b.WriteRune(r)
		}
	}
	clean := b.String()
	return strings.ContainsAny(clean, "dy") || strings.Contains(clean, "mmm")
}
