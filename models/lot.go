package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// LotTotalCredits é a regra fixa do domínio: todo lote representa
// exatamente 1000 créditos negociáveis.
const LotTotalCredits = 1000

// LotStatus é o status de ciclo de vida de um lote.
type LotStatus string

const (
	LotStatusAvailable   LotStatus = "DISPONIVEL"
	LotStatusUnavailable LotStatus = "INDISPONIVEL"
)

// Valid indica se o status é um dos valores conhecidos.
func (s LotStatus) Valid() bool {
	return s == LotStatusAvailable || s == LotStatusUnavailable
}

// Lot representa um lote de créditos de carbono.
type Lot struct {
	ID           uuid.UUID `json:"id"`
	Code         string    `json:"code"` // código legível, único no cadastro
	TotalCredits int       `json:"total_credits"`
	Status       LotStatus `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewLot cria um lote com o total fixo de créditos e status DISPONIVEL.
func NewLot(code string) (Lot, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return Lot{}, ErrBlankLotCode
	}

	return Lot{
		ID:           uuid.New(),
		Code:         code,
		TotalCredits: LotTotalCredits,
		Status:       LotStatusAvailable,
		CreatedAt:    time.Now(),
	}, nil
}
