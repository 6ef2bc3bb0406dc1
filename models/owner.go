package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// OwnerKind identifica o tipo do proprietário: pessoa física ou jurídica.
type OwnerKind string

const (
	OwnerKindIndividual   OwnerKind = "PF"
	OwnerKindOrganization OwnerKind = "PJ"
)

// Valid indica se o tipo é um dos valores conhecidos.
func (k OwnerKind) Valid() bool {
	return k == OwnerKindIndividual || k == OwnerKindOrganization
}

// DocumentLabel retorna o rótulo do documento de identidade conforme o tipo.
func (k OwnerKind) DocumentLabel() string {
	if k == OwnerKindOrganization {
		return "CNPJ"
	}
	return "CPF"
}

// Owner representa um proprietário de créditos de carbono (PF ou PJ).
// Imutável depois de criado.
type Owner struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Document  string    `json:"document"` // CPF ou CNPJ, único no cadastro
	Kind      OwnerKind `json:"kind"`
	CreatedAt time.Time `json:"created_at"`
}

// NewOwner cria um proprietário validando nome, documento e tipo.
func NewOwner(name, document string, kind OwnerKind) (Owner, error) {
	name = strings.TrimSpace(name)
	document = strings.TrimSpace(document)

	if name == "" {
		return Owner{}, ErrBlankOwnerName
	}
	if document == "" {
		return Owner{}, ErrBlankDocument
	}
	if !kind.Valid() {
		return Owner{}, ErrInvalidOwnerKind
	}

	return Owner{
		ID:        uuid.New(),
		Name:      name,
		Document:  document,
		Kind:      kind,
		CreatedAt: time.Now(),
	}, nil
}
