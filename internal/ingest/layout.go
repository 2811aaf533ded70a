// Package ingest turns sheet rows into typed roster records and renders
// rejected records back into rows.
package ingest

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Layout maps each record field to the header of the column that holds it.
type Layout struct {
	Name           string `yaml:"name"`
	Street         string `yaml:"street"`
	Neighborhood   string `yaml:"neighborhood"`
	City           string `yaml:"city"`
	State          string `yaml:"state"`
	Course         string `yaml:"course"`
	CPF            string `yaml:"cpf"`
	BirthDate      string `yaml:"birth_date"`
	Phone          string `yaml:"phone"`
	Institution    string `yaml:"institution"`
	Email          string `yaml:"email"`
	CEP            string `yaml:"cep"`
	Number         string `yaml:"number"`
	RegistrationID string `yaml:"registration_id"`
	Reason         string `yaml:"reason"`
}

// DefaultLayout matches the headers of the enrollment spreadsheet.
func DefaultLayout() Layout {
	return Layout{
		Name:           "NOME",
		Street:         "Endereço",
		Neighborhood:   "Bairro",
		City:           "Cidade",
		State:          "Estado",
		Course:         "Curso",
		CPF:            "CPF",
		BirthDate:      "Data de Nascimento",
		Phone:          "Telefone",
		Institution:    "Faculdade",
		Email:          "Email",
		CEP:            "CEP",
		Number:         "Numero",
		RegistrationID: "RA",
		Reason:         "Motivo",
	}
}

// LoadLayout reads a YAML layout file. Fields left out of the file keep
// their default header.
func LoadLayout(path string) (Layout, error) {
	layout := DefaultLayout()
	data, err := os.ReadFile(path)
	if err != nil {
		return layout, eris.Wrapf(err, "ingest: read layout %s", path)
	}
	if err := yaml.Unmarshal(data, &layout); err != nil {
		return layout, eris.Wrapf(err, "ingest: parse layout %s", path)
	}
	return layout, nil
}

// field pairs a layout header with its record accessor name.
type field struct {
	name   string
	header string
}

// fields lists the input columns in output order.
func (l Layout) fields() []field {
	return []field{
		{"name", l.Name},
		{"street", l.Street},
		{"neighborhood", l.Neighborhood},
		{"city", l.City},
		{"state", l.State},
		{"course", l.Course},
		{"cpf", l.CPF},
		{"birth_date", l.BirthDate},
		{"phone", l.Phone},
		{"institution", l.Institution},
		{"email", l.Email},
		{"cep", l.CEP},
		{"number", l.Number},
		{"registration_id", l.RegistrationID},
	}
}

// Headers returns the input headers in output order.
func (l Layout) Headers() []string {
	fs := l.fields()
	out := make([]string, len(fs))
	for i, f := range fs {
		out[i] = f.header
	}
	return out
}

// headerKey makes header matching tolerant of case and surrounding spaces.
func headerKey(h string) string {
	return strings.ToLower(strings.TrimSpace(h))
}
