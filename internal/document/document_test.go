package document

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/roster-cli/internal/model"
)

func classified() model.ClassifiedRecord {
	return model.ClassifiedRecord{
		Kind: model.KindNew,
		Record: model.CleanRecord{
			Row:            4,
			Name:           "ANA SILVA",
			Street:         "PRAÇA DA SÉ",
			Neighborhood:   "SÉ",
			City:           "SÃO PAULO",
			State:          "SP",
			CPF:            "11144477735",
			BirthDate:      model.NewDate(2000, time.January, 15),
			Phone:          "11988887777",
			Institution:    "faculdade-x",
			Email:          "a@b.com",
			CEP:            "01001000",
			Number:         "100",
			RegistrationID: "RA123",
		},
	}
}

func TestBuild(t *testing.T) {
	got := Build(classified())

	assert.Equal(t, "faculdade-x-11144477735", got.ID)
	assert.Equal(t, "faculdade-x", got.Agrupador)
	assert.Equal(t, "FISICA", got.TipoPessoa)
	assert.Equal(t, "ANA SILVA", got.Nome)
	assert.Equal(t, "11144477735", got.CPF)
	assert.Equal(t, "2000-01-15", got.DataNascimento)
	assert.Equal(t, model.KindNew, got.Tipo)

	require.Len(t, got.Enderecos, 1)
	assert.Equal(t, model.Endereco{
		CEP: "01001000", Logradouro: "PRAÇA DA SÉ", Bairro: "SÉ", Cidade: "SÃO PAULO", Numero: "100", UF: "SP",
	}, got.Enderecos[0])

	require.Len(t, got.Emails, 1)
	assert.Equal(t, "a@b.com", got.Emails[0].Email)

	require.Len(t, got.Telefones, 1)
	assert.Equal(t, model.Telefone{Tipo: "CELULAR", DDD: "11", Telefone: "988887777"}, got.Telefones[0])

	assert.Equal(t, []model.InfoAdicional{
		{Campo: "cpf_aluno", Linha: 6, Coluna: 2, Valor: "11144477735"},
		{Campo: "registro_aluno", Linha: 6, Coluna: 12, Valor: "RA123"},
		{Campo: "nome_aluno", Linha: 6, Coluna: 1, Valor: "ANA SILVA"},
	}, got.InfoAdicionais)
}

func TestBuild_TenDigitPhone(t *testing.T) {
	c := classified()
	c.Record.Phone = "1133334444"
	got := Build(c)
	assert.Equal(t, "11", got.Telefones[0].DDD)
	assert.Equal(t, "33334444", got.Telefones[0].Telefone)
}

func TestBuildAll_PreservesOrder(t *testing.T) {
	a := classified()
	b := classified()
	b.Record.CPF = "52998224725"
	b.Kind = model.KindExisting

	got := BuildAll([]model.ClassifiedRecord{a, b})
	require.Len(t, got, 2)
	assert.Equal(t, "faculdade-x-11144477735", got[0].ID)
	assert.Equal(t, "faculdade-x-52998224725", got[1].ID)
	assert.Equal(t, model.KindExisting, got[1].Tipo)
}

func TestMarshal_Shape(t *testing.T) {
	data, err := Marshal([]model.Customer{Build(classified())})
	require.NoError(t, err)

	s := string(data)
	assert.Contains(t, s, "\n    {\n        \"id\": \"faculdade-x-11144477735\"")
	assert.Contains(t, s, `"logradouro": "PRAÇA DA SÉ"`)
	assert.Contains(t, s, `"informacoesAdicionais": [`)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 1)
	keys := make([]string, 0, len(decoded[0]))
	for k := range decoded[0] {
		keys = append(keys, k)
	}
	assert.ElementsMatch(t, []string{
		"id", "agrupador", "tipoPessoa", "nome", "cpf", "dataNascimento", "tipo",
		"enderecos", "emails", "telefones", "informacoesAdicionais",
	}, keys)
}

func TestMarshal_EmptyIsArray(t *testing.T) {
	data, err := Marshal(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))
}

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, WriteJSON(path, []model.Customer{Build(classified())}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var decoded []model.Customer
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, Build(classified()), decoded[0])
}

func TestWriteJSON_BadPath(t *testing.T) {
	err := WriteJSON(filepath.Join(t.TempDir(), "missing", "out.json"), nil)
	require.Error(t, err)
}
