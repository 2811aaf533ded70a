package sheet

import (
	"bytes"
	"encoding/csv"
	"io"
	"os"

	"github.com/rotisserie/eris"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadCSV reads a CSV file. A leading UTF-8 byte order mark is dropped and
// rows may have varying widths.
func ReadCSV(path string, delimiter rune) ([][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "csv: open file")
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(data))
	if delimiter != 0 {
		reader.Comma = delimiter
	}
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "csv: read row")
		}
		rows = append(rows, record)
	}
	return rows, nil
}

// WriteCSV writes header and rows as comma-separated UTF-8.
func WriteCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "csv: create %s", path)
	}
	defer f.Close() //nolint:errcheck

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return eris.Wrap(err, "csv: write header")
	}
	if err := w.WriteAll(rows); err != nil {
		return eris.Wrap(err, "csv: write rows")
	}
	if err := f.Close(); err != nil {
		return eris.Wrap(err, "csv: close file")
	}
	return nil
}
