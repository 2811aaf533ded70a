// Package document shapes classified records into the upload document.
package document

import (
	"bytes"
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"

	"github.com/sells-group/roster-cli/internal/model"
)

// HeaderOffset converts a 0-based data row index into the 1-based sheet line
// number, accounting for the header row.
const HeaderOffset = 2

// Audit columns are fixed positions in the source layout.
const (
	colNome     = 1
	colCPF      = 2
	colRegistro = 12
)

const (
	tipoPessoa  = "FISICA"
	tipoCelular = "CELULAR"
)

// Build maps one classified record to its document entry. The phone must
// have at least two digits; records that passed validation always do.
func Build(c model.ClassifiedRecord) model.Customer {
	r := c.Record
	linha := r.Row + HeaderOffset
	return model.Customer{
		ID:             r.Institution + "-" + r.CPF,
		Agrupador:      r.Institution,
		TipoPessoa:     tipoPessoa,
		Nome:           r.Name,
		CPF:            r.CPF,
		DataNascimento: r.BirthDate.String(),
		Tipo:           c.Kind,
		Enderecos: []model.Endereco{{
			CEP:        r.CEP,
			Logradouro: r.Street,
			Bairro:     r.Neighborhood,
			Cidade:     r.City,
			Numero:     r.Number,
			UF:         r.State,
		}},
		Emails: []model.Email{{Email: r.Email}},
		Telefones: []model.Telefone{{
			Tipo:     tipoCelular,
			DDD:      r.Phone[:2],
			Telefone: r.Phone[2:],
		}},
		InfoAdicionais: []model.InfoAdicional{
			{Campo: "cpf_aluno", Linha: linha, Coluna: colCPF, Valor: r.CPF},
			{Campo: "registro_aluno", Linha: linha, Coluna: colRegistro, Valor: r.RegistrationID},
			{Campo: "nome_aluno", Linha: linha, Coluna: colNome, Valor: r.Name},
		},
	}
}

// BuildAll maps every record, preserving order.
func BuildAll(cs []model.ClassifiedRecord) []model.Customer {
	out := make([]model.Customer, len(cs))
	for i, c := range cs {
		out[i] = Build(c)
	}
	return out
}

// Marshal renders customers as an indented JSON array with non-ASCII and
// HTML characters left unescaped.
func Marshal(customers []model.Customer) ([]byte, error) {
	if customers == nil {
		customers = []model.Customer{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(customers); err != nil {
		return nil, eris.Wrap(err, "document: encode")
	}
	return buf.Bytes(), nil
}

// WriteJSON writes the document to path.
func WriteJSON(path string, customers []model.Customer) error {
	data, err := Marshal(customers)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "document: write %s", path)
	}
	return nil
}
