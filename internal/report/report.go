// Package report renders end-of-run summaries as aligned text tables.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/sells-group/roster-cli/internal/model"
)

// Table renders rows as a pipe table. Column widths use display width so
// accented text stays aligned.
func Table(header []string, rows [][]string) string {
	all := append([][]string{header}, rows...)
	widths := make([]int, len(header))
	for _, row := range all {
		for i := 0; i < len(row) && i < len(widths); i++ {
			if w := runewidth.StringWidth(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var sb strings.Builder
	writeRow := func(row []string) {
		sb.WriteString("|")
		for i, w := range widths {
			content := ""
			if i < len(row) {
				content = row[i]
			}
			sb.WriteString(" ")
			sb.WriteString(runewidth.FillRight(content, w))
			sb.WriteString(" |")
		}
		sb.WriteString("\n")
	}

	writeRow(header)
	sb.WriteString("|")
	for _, w := range widths {
		sb.WriteString(strings.Repeat("-", w+2))
		sb.WriteString("|")
	}
	sb.WriteString("\n")
	for _, row := range rows {
		writeRow(row)
	}
	return sb.String()
}

// WriteSummary prints the run counts followed by the rejection breakdown in
// rule order. Reasons with no occurrences are omitted.
func WriteSummary(w io.Writer, s model.Summary) error {
	counts := Table([]string{"Registros", "Total"}, [][]string{
		{"Total", strconv.Itoa(s.Total)},
		{"Válidos", strconv.Itoa(s.Valid)},
		{"Inválidos", strconv.Itoa(s.Invalid)},
		{"Desconsiderados", strconv.Itoa(s.Neither)},
		{"Novos (I)", strconv.Itoa(s.New)},
		{"Existentes (A)", strconv.Itoa(s.Existing)},
	})
	if _, err := fmt.Fprint(w, counts); err != nil {
		return err
	}

	var rows [][]string
	for _, r := range model.AllReasons {
		if n := s.Reasons[r]; n > 0 {
			rows = append(rows, []string{r.String(), strconv.Itoa(n)})
		}
	}
	if len(rows) == 0 {
		return nil
	}
	_, err := fmt.Fprint(w, "\n"+Table([]string{"Motivo", "Registros"}, rows))
	return err
}
