// Package normalize cleans and canonicalizes raw roster rows.
package normalize

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/sells-group/roster-cli/internal/cpf"
	"github.com/sells-group/roster-cli/internal/model"
)

// CEPLength is the number of digits in a postal code.
const CEPLength = 8

// Record normalizes a single raw row. It never fails: unparseable dates are
// stored as model.InvalidDate and reported later by the rule engine.
func Record(r model.RawRecord) model.CleanRecord {
	return model.CleanRecord{
		Row:            r.Row,
		Name:           Upper(r.Name),
		Street:         Upper(r.Street),
		Neighborhood:   Upper(r.Neighborhood),
		City:           Upper(r.City),
		State:          Upper(r.State),
		Course:         Upper(r.Course),
		CPF:            cpf.Digits(r.CPF),
		BirthDate:      Date(r.BirthDate),
		Phone:          Digits(r.Phone),
		Institution:    Lower(r.Institution),
		Email:          strings.TrimSpace(r.Email),
		CEP:            CEP(r.CEP),
		Number:         strings.TrimSpace(r.Number),
		RegistrationID: strings.TrimSpace(r.RegistrationID),
	}
}

// Records normalizes every row in order.
func Records(rows []model.RawRecord) []model.CleanRecord {
	out := make([]model.CleanRecord, len(rows))
	for i, r := range rows {
		out[i] = Record(r)
	}
	return out
}

// Dedupe drops records whose contents equal an earlier record. Survivors keep
// their first-occurrence order and row positions.
func Dedupe(recs []model.CleanRecord) []model.CleanRecord {
	seen := make(map[model.CleanRecord]struct{}, len(recs))
	out := make([]model.CleanRecord, 0, len(recs))
	for _, r := range recs {
		key := r.Content()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, r)
	}
	return out
}

// Upper trims and uppercases s.
func Upper(s string) string {
	return strings.TrimSpace(strings.ToUpper(s))
}

// Lower trims and lowercases s.
func Lower(s string) string {
	return strings.TrimSpace(strings.ToLower(s))
}

// Digits keeps only ASCII digits.
func Digits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// CEP strips non-digits and left-pads to 8 characters.
func CEP(s string) string {
	d := Digits(s)
	if len(d) < CEPLength {
		d = strings.Repeat("0", CEPLength-len(d)) + d
	}
	return d
}

// dateLayouts are tried in order. Slash and dash forms with a leading day
// follow the Brazilian day-first convention. A bare year means January 1st.
var dateLayouts = []string{
	model.DateLayout,
	"2006-1-2",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"20060102",
	"2006/01/02",
	"2006/1/2",
	"02/01/2006",
	"2/1/2006",
	"02/01/2006 15:04:05",
	"2/1/2006 15:04:05",
	"02/01/2006 15:04",
	"02-01-2006",
	"02.01.2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"2006",
}

// Excel serial day numbers inside this range are accepted as dates
// (1900-03-01 through 2099-12-31). Four-digit values never get here; they
// parse as years first.
const (
	minExcelSerial = 61
	maxExcelSerial = 73050
)

var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// Date parses s permissively into a calendar date. Values that match no
// known layout yield model.InvalidDate.
func Date(s string) model.Date {
	s = strings.TrimSpace(s)
	if s == "" {
		return model.InvalidDate
	}
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return model.NewDate(t.Year(), t.Month(), t.Day())
		}
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f >= minExcelSerial && f <= maxExcelSerial {
		t := excelEpoch.AddDate(0, 0, int(math.Floor(f)))
		return model.NewDate(t.Year(), t.Month(), t.Day())
	}
	return model.InvalidDate
}
