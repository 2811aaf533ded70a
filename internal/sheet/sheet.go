// Package sheet reads and writes tabular files (XLSX and CSV) as rows of
// strings.
package sheet

import (
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
)

// Format identifies a tabular file format.
type Format string

// Supported formats.
const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// DetectFormat picks the format from the file extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return FormatXLSX, nil
	case ".csv":
		return FormatCSV, nil
	default:
		return "", eris.Errorf("sheet: unsupported file type %q", filepath.Ext(path))
	}
}

// Options configures reading.
type Options struct {
	SheetName string // xlsx only; first sheet when empty
	Delimiter rune   // csv only; ',' when zero
}

// Read loads every row of the file at path, header included.
func Read(path string, opts Options) ([][]string, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatCSV:
		return ReadCSV(path, opts.Delimiter)
	default:
		return ReadXLSX(path, opts.SheetName)
	}
}

// Write saves header and rows to path in the format implied by its
// extension.
func Write(path string, header []string, rows [][]string) error {
	format, err := DetectFormat(path)
	if err != nil {
		return err
	}
	switch format {
	case FormatCSV:
		return WriteCSV(path, header, rows)
	default:
		return WriteXLSX(path, header, rows)
	}
}
