package model

import "strings"

// Reason identifies why a record was rejected. Values are ordered by rule
// position so sorting reasons restores rule order.
type Reason int

// Rejection reasons, in rule order.
const (
	ReasonInvalidCPF Reason = iota + 1
	ReasonIncompleteName
	ReasonInvalidBirthDate
	ReasonInvalidEmail
	ReasonInvalidPhone
	ReasonInvalidCEP
	ReasonAddressMismatch
)

// AllReasons lists every reason in rule order.
var AllReasons = []Reason{
	ReasonInvalidCPF,
	ReasonIncompleteName,
	ReasonInvalidBirthDate,
	ReasonInvalidEmail,
	ReasonInvalidPhone,
	ReasonInvalidCEP,
	ReasonAddressMismatch,
}

var reasonText = map[Reason]string{
	ReasonInvalidCPF:       "CPF inválido",
	ReasonIncompleteName:   "Nome incompleto",
	ReasonInvalidBirthDate: "Data de nascimento inválida ou idade menor que 18",
	ReasonInvalidEmail:     "Email inválido",
	ReasonInvalidPhone:     "Telefone inválido",
	ReasonInvalidCEP:       "CEP inválido",
	ReasonAddressMismatch:  "Endereço não corresponde ao CEP",
}

var reasonCode = map[Reason]string{
	ReasonInvalidCPF:       "invalid_cpf",
	ReasonIncompleteName:   "incomplete_name",
	ReasonInvalidBirthDate: "invalid_birth_date",
	ReasonInvalidEmail:     "invalid_email",
	ReasonInvalidPhone:     "invalid_phone",
	ReasonInvalidCEP:       "invalid_cep",
	ReasonAddressMismatch:  "address_mismatch",
}

// String returns the display text written to the invalid-records sheet.
func (r Reason) String() string {
	if s, ok := reasonText[r]; ok {
		return s
	}
	return "unknown"
}

// Code returns a stable machine-readable identifier, used as a metric label.
func (r Reason) Code() string {
	if s, ok := reasonCode[r]; ok {
		return s
	}
	return "unknown"
}

// JoinReasons renders reasons as a comma-separated display list.
func JoinReasons(reasons []Reason) string {
	parts := make([]string, len(reasons))
	for i, r := range reasons {
		parts[i] = r.String()
	}
	return strings.Join(parts, ", ")
}
