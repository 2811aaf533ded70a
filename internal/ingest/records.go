package ingest

import (
	"fmt"
	"strings"

	"github.com/sells-group/roster-cli/internal/model"
)

// MissingColumnError reports required headers absent from a sheet.
type MissingColumnError struct {
	Source  string
	Columns []string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("ingest: %s is missing required column(s): %s", e.Source, strings.Join(e.Columns, ", "))
}

// index maps normalized header names to column positions. The first
// occurrence of a repeated header wins.
func index(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		k := headerKey(h)
		if _, ok := idx[k]; !ok {
			idx[k] = i
		}
	}
	return idx
}

// Records converts rows (header first) into raw records. Every layout column
// must be present; otherwise a *MissingColumnError is returned and no
// records are produced. Fully blank rows are skipped but still advance the
// row counter, so Row always matches the source position.
func Records(source string, rows [][]string, layout Layout) ([]model.RawRecord, error) {
	var header []string
	if len(rows) > 0 {
		header = rows[0]
	}
	idx := index(header)

	fs := layout.fields()
	pos := make(map[string]int, len(fs))
	var missing []string
	for _, f := range fs {
		i, ok := idx[headerKey(f.header)]
		if !ok {
			missing = append(missing, f.header)
			continue
		}
		pos[f.name] = i
	}
	if len(missing) > 0 {
		return nil, &MissingColumnError{Source: source, Columns: missing}
	}

	if len(rows) < 2 {
		return nil, nil
	}
	out := make([]model.RawRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if blank(row) {
			continue
		}
		get := func(name string) string {
			c := pos[name]
			if c >= len(row) {
				return ""
			}
			return row[c]
		}
		out = append(out, model.RawRecord{
			Row:            i,
			Name:           get("name"),
			Street:         get("street"),
			Neighborhood:   get("neighborhood"),
			City:           get("city"),
			State:          get("state"),
			Course:         get("course"),
			CPF:            get("cpf"),
			BirthDate:      get("birth_date"),
			Phone:          get("phone"),
			Institution:    get("institution"),
			Email:          get("email"),
			CEP:            get("cep"),
			Number:         get("number"),
			RegistrationID: get("registration_id"),
		})
	}
	return out, nil
}

// DataRows counts the non-header rows, blank ones included.
func DataRows(rows [][]string) int {
	if len(rows) == 0 {
		return 0
	}
	return len(rows) - 1
}

// ReferenceCPFs extracts the CPF column of the reference sheet.
func ReferenceCPFs(source string, rows [][]string, column string) ([]string, error) {
	var header []string
	if len(rows) > 0 {
		header = rows[0]
	}
	c, ok := index(header)[headerKey(column)]
	if !ok {
		return nil, &MissingColumnError{Source: source, Columns: []string{column}}
	}

	var out []string
	for _, row := range rows[1:] {
		if c < len(row) {
			out = append(out, row[c])
		}
	}
	return out, nil
}

// InvalidHeader is the header of the rejected-records sheet.
func InvalidHeader(layout Layout) []string {
	return append(layout.Headers(), layout.Reason)
}

// InvalidRows renders rejected outcomes with their normalized fields and the
// joined reasons.
func InvalidRows(outcomes []model.Outcome) [][]string {
	rows := make([][]string, len(outcomes))
	for i, o := range outcomes {
		r := o.Record
		rows[i] = []string{
			r.Name,
			r.Street,
			r.Neighborhood,
			r.City,
			r.State,
			r.Course,
			r.CPF,
			r.BirthDate.String(),
			r.Phone,
			r.Institution,
			r.Email,
			r.CEP,
			r.Number,
			r.RegistrationID,
			model.JoinReasons(o.Reasons),
		}
	}
	return rows
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
