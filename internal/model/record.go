// Package model defines the record types that flow through the roster pipeline.
package model

import "time"

// DateLayout is the ISO calendar date layout used for normalized dates.
const DateLayout = "2006-01-02"

// RawRecord is one untrusted input row. Row is the 0-based position of the
// row among the data rows of the source sheet.
type RawRecord struct {
	Row            int
	Name           string
	Street         string
	Neighborhood   string
	City           string
	State          string
	Course         string
	CPF            string
	BirthDate      string
	Phone          string
	Institution    string
	Email          string
	CEP            string
	Number         string
	RegistrationID string
}

// Date is a calendar date or the explicit invalid marker produced when the
// source value could not be parsed.
type Date struct {
	Time  time.Time
	Valid bool
}

// NewDate returns a valid Date truncated to the calendar day in UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC), Valid: true}
}

// InvalidDate is the marker for unparseable dates.
var InvalidDate = Date{}

// String returns the ISO form, or "" for an invalid date.
func (d Date) String() string {
	if !d.Valid {
		return ""
	}
	return d.Time.Format(DateLayout)
}

// CleanRecord is a RawRecord after normalization. All fields are comparable
// so records can be used as map keys for deduplication.
type CleanRecord struct {
	Row            int
	Name           string
	Street         string
	Neighborhood   string
	City           string
	State          string
	Course         string
	CPF            string
	BirthDate      Date
	Phone          string
	Institution    string
	Email          string
	CEP            string
	Number         string
	RegistrationID string
}

// Raw converts the record back to its raw form, keeping the row position.
func (c CleanRecord) Raw() RawRecord {
	return RawRecord{
		Row:            c.Row,
		Name:           c.Name,
		Street:         c.Street,
		Neighborhood:   c.Neighborhood,
		City:           c.City,
		State:          c.State,
		Course:         c.Course,
		CPF:            c.CPF,
		BirthDate:      c.BirthDate.String(),
		Phone:          c.Phone,
		Institution:    c.Institution,
		Email:          c.Email,
		CEP:            c.CEP,
		Number:         c.Number,
		RegistrationID: c.RegistrationID,
	}
}

// Content returns the record with its row position cleared. Two records are
// duplicates when their contents are equal.
func (c CleanRecord) Content() CleanRecord {
	c.Row = 0
	return c
}
