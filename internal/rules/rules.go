// Package rules validates normalized roster records against the fixed rule
// set and collects every failing reason.
package rules

import (
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/sells-group/roster-cli/internal/address"
	"github.com/sells-group/roster-cli/internal/cpf"
	"github.com/sells-group/roster-cli/internal/model"
)

// DefaultMinAge is the minimum age in whole years.
const DefaultMinAge = 18

// Word characters include non-ASCII letters and digits so addresses such as
// joão@exemplo.com.br are accepted.
var (
	emailPattern = regexp.MustCompile(`^[\p{L}\p{N}_.-]+@[\p{L}\p{N}_.-]+\.[\p{L}\p{N}_]+$`)
	phonePattern = regexp.MustCompile(`^\d{10,11}$`)
)

// Subject is what a rule inspects: the record and the outcome of its
// postal-code reconciliation.
type Subject struct {
	Record  model.CleanRecord
	Address address.Result
}

// Rule returns a reason and true when the subject fails it.
type Rule func(Subject) (model.Reason, bool)

// Engine evaluates an ordered list of independent rules.
type Engine struct {
	rules  []Rule
	now    func() time.Time
	minAge int
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the time source used for age computation.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithMinAge overrides the minimum age.
func WithMinAge(years int) Option {
	return func(e *Engine) {
		e.minAge = years
	}
}

// New builds the engine with the standard rule order: CPF, name, birth date,
// email, phone, postal code / address.
func New(opts ...Option) *Engine {
	e := &Engine{now: time.Now, minAge: DefaultMinAge}
	for _, opt := range opts {
		opt(e)
	}
	e.rules = []Rule{
		CPFRule,
		NameRule,
		e.birthDateRule,
		EmailRule,
		PhoneRule,
		AddressRule,
	}
	return e
}

// Evaluate runs every rule and returns the outcome. Rules never
// short-circuit each other; each contributes at most one reason.
func (e *Engine) Evaluate(s Subject) model.Outcome {
	var reasons []model.Reason
	for _, rule := range e.rules {
		if reason, failed := rule(s); failed {
			reasons = append(reasons, reason)
		}
	}
	return model.Outcome{Record: s.Record, Reasons: reasons}
}

// CPFRule checks the CPF check digits.
func CPFRule(s Subject) (model.Reason, bool) {
	return model.ReasonInvalidCPF, !cpf.Valid(s.Record.CPF)
}

// NameRule requires at least two whitespace-separated tokens.
func NameRule(s Subject) (model.Reason, bool) {
	return model.ReasonIncompleteName, len(strings.Fields(s.Record.Name)) < 2
}

// EmailRule checks the local@domain.tld shape.
func EmailRule(s Subject) (model.Reason, bool) {
	return model.ReasonInvalidEmail, !emailPattern.MatchString(s.Record.Email)
}

// PhoneRule requires 10 or 11 digits and nothing else.
func PhoneRule(s Subject) (model.Reason, bool) {
	return model.ReasonInvalidPhone, !phonePattern.MatchString(s.Record.Phone)
}

// AddressRule maps the reconciliation outcome to a reason. The address match
// is only judged when the lookup succeeded.
func AddressRule(s Subject) (model.Reason, bool) {
	switch s.Address.Status {
	case address.Matched:
		return 0, false
	case address.Mismatch:
		return model.ReasonAddressMismatch, true
	default:
		return model.ReasonInvalidCEP, true
	}
}

// birthDateRule fails unparseable dates and people younger than minAge. Both
// cases share one reason.
func (e *Engine) birthDateRule(s Subject) (model.Reason, bool) {
	d := s.Record.BirthDate
	if !d.Valid {
		return model.ReasonInvalidBirthDate, true
	}
	return model.ReasonInvalidBirthDate, Age(d.Time, e.now()) < e.minAge
}

// Age returns floor(days/365), where days is the number of whole days
// elapsed between birth and the calendar date of now in its own location.
func Age(birth, now time.Time) int {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	days := math.Floor(today.Sub(birth).Hours() / 24)
	return int(math.Floor(days / 365))
}
