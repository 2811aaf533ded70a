package model

// Customer is one entry of the upload document. Field names are fixed by the
// downstream importer.
type Customer struct {
	ID             string          `json:"id"`
	Agrupador      string          `json:"agrupador"`
	TipoPessoa     string          `json:"tipoPessoa"`
	Nome           string          `json:"nome"`
	CPF            string          `json:"cpf"`
	DataNascimento string          `json:"dataNascimento"`
	Tipo           Kind            `json:"tipo"`
	Enderecos      []Endereco      `json:"enderecos"`
	Emails         []Email         `json:"emails"`
	Telefones      []Telefone      `json:"telefones"`
	InfoAdicionais []InfoAdicional `json:"informacoesAdicionais"`
}

// Endereco is an address entry.
type Endereco struct {
	CEP        string `json:"cep"`
	Logradouro string `json:"logradouro"`
	Bairro     string `json:"bairro"`
	Cidade     string `json:"cidade"`
	Numero     string `json:"numero"`
	UF         string `json:"uf"`
}

// Email is an e-mail entry.
type Email struct {
	Email string `json:"email"`
}

// Telefone is a phone entry split into area code and local number.
type Telefone struct {
	Tipo     string `json:"tipo"`
	DDD      string `json:"ddd"`
	Telefone string `json:"telefone"`
}

// InfoAdicional points a value back to its source cell for auditing.
type InfoAdicional struct {
	Campo  string `json:"campo"`
	Linha  int    `json:"linha"`
	Coluna int    `json:"coluna"`
	Valor  string `json:"valor"`
}
