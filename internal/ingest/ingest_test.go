package ingest

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/roster-cli/internal/model"
)

func header() []string {
	return []string{
		"NOME", "Endereço", "Bairro", "Cidade", "Estado", "Curso", "CPF", "Data de Nascimento",
		"Telefone", "Faculdade", "Email", "CEP", "Numero", "RA",
	}
}

func TestRecords(t *testing.T) {
	rows := [][]string{
		header(),
		{"ana silva", "PRACA DA SE", "SE", "SAO PAULO", "SP", "Direito", "111.444.777-35", "2000-01-15",
			"(11) 98888-7777", "Fac", "a@b.com", "01001-000", "100", "RA1"},
		{"", "", "", ""},
		{"bia souza", "RUA A"},
	}

	recs, err := Records("dados.xlsx", rows, DefaultLayout())
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, model.RawRecord{
		Row: 0, Name: "ana silva", Street: "PRACA DA SE", Neighborhood: "SE", City: "SAO PAULO", State: "SP",
		Course: "Direito", CPF: "111.444.777-35", BirthDate: "2000-01-15", Phone: "(11) 98888-7777",
		Institution: "Fac", Email: "a@b.com", CEP: "01001-000", Number: "100", RegistrationID: "RA1",
	}, recs[0])

	assert.Equal(t, 2, recs[1].Row)
	assert.Equal(t, "bia souza", recs[1].Name)
	assert.Equal(t, "RUA A", recs[1].Street)
	assert.Empty(t, recs[1].CPF)
}

func TestRecords_HeaderMatchingIgnoresCaseAndSpaces(t *testing.T) {
	h := header()
	h[0] = "  nome "
	h[6] = "cpf"
	recs, err := Records("dados.xlsx", [][]string{h, {"x y", "", "", "", "", "", "1"}}, DefaultLayout())
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "x y", recs[0].Name)
	assert.Equal(t, "1", recs[0].CPF)
}

func TestRecords_ColumnOrderIndependent(t *testing.T) {
	h := header()
	h[0], h[6] = h[6], h[0]
	recs, err := Records("dados.xlsx", [][]string{h, {"111", "", "", "", "", "", "ANA"}}, DefaultLayout())
	require.NoError(t, err)
	assert.Equal(t, "ANA", recs[0].Name)
	assert.Equal(t, "111", recs[0].CPF)
}

func TestRecords_MissingColumn(t *testing.T) {
	h := header()
	h = append(h[:6], h[7:]...)

	recs, err := Records("dados.xlsx", [][]string{h}, DefaultLayout())
	assert.Nil(t, recs)

	var mce *MissingColumnError
	require.True(t, errors.As(err, &mce))
	assert.Equal(t, []string{"CPF"}, mce.Columns)
	assert.Contains(t, err.Error(), "dados.xlsx")
}

func TestRecords_EmptySheet(t *testing.T) {
	_, err := Records("dados.xlsx", nil, DefaultLayout())
	var mce *MissingColumnError
	require.True(t, errors.As(err, &mce))
	assert.Len(t, mce.Columns, 14)

	recs, err := Records("dados.xlsx", [][]string{header()}, DefaultLayout())
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestLoadLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: Nome Completo\nregistration_id: Matricula\n"), 0o644))

	layout, err := LoadLayout(path)
	require.NoError(t, err)
	assert.Equal(t, "Nome Completo", layout.Name)
	assert.Equal(t, "Matricula", layout.RegistrationID)
	assert.Equal(t, "CPF", layout.CPF)
	assert.Equal(t, "Motivo", layout.Reason)
}

func TestLoadLayout_Errors(t *testing.T) {
	_, err := LoadLayout(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: [unclosed"), 0o644))
	_, err = LoadLayout(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse layout")
}

func TestReferenceCPFs(t *testing.T) {
	rows := [][]string{
		{"id", "CPF"},
		{"1", "111.444.777-35"},
		{"2"},
		{"3", "191"},
	}
	cpfs, err := ReferenceCPFs("sistema.xlsx", rows, "cpf")
	require.NoError(t, err)
	assert.Equal(t, []string{"111.444.777-35", "191"}, cpfs)

	_, err = ReferenceCPFs("sistema.xlsx", rows, "documento")
	var mce *MissingColumnError
	require.True(t, errors.As(err, &mce))
}

func TestInvalidRows(t *testing.T) {
	layout := DefaultLayout()
	outcomes := []model.Outcome{{
		Record: model.CleanRecord{
			Name: "ANA", CPF: "11144477735", BirthDate: model.NewDate(2000, time.January, 15), Phone: "12345",
		},
		Reasons: []model.Reason{model.ReasonIncompleteName, model.ReasonInvalidPhone},
	}}

	h := InvalidHeader(layout)
	rows := InvalidRows(outcomes)
	require.Len(t, rows, 1)
	require.Len(t, rows[0], len(h))
	assert.Equal(t, "Motivo", h[len(h)-1])
	assert.Equal(t, "ANA", rows[0][0])
	assert.Equal(t, "11144477735", rows[0][6])
	assert.Equal(t, "2000-01-15", rows[0][7])
	assert.Equal(t, "Nome incompleto, Telefone inválido", rows[0][len(h)-1])
}

func TestDataRows(t *testing.T) {
	assert.Equal(t, 0, DataRows(nil))
	assert.Equal(t, 0, DataRows([][]string{header()}))
	assert.Equal(t, 2, DataRows([][]string{header(), {}, {"x"}}))
}
