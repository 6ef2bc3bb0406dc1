package models

import (
	"time"

	"github.com/google/uuid"
)

// Participation representa a copropriedade de um proprietário sobre uma
// fração dos créditos de um lote durante um intervalo contínuo.
//
// Regras do domínio (aplicadas pelos serviços de ledger/transferência):
//   - um lote possui 1..3 participações ativas simultâneas;
//   - a soma das participações ativas é exatamente o total do lote.
type Participation struct {
	ID        uuid.UUID  `json:"id"`
	LotID     uuid.UUID  `json:"lot_id"`
	OwnerID   uuid.UUID  `json:"owner_id"`
	Credits   int        `json:"credits"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"` // nil = ativa
}

// NewParticipation cria uma participação ativa.
func NewParticipation(lotID, ownerID uuid.UUID, credits int, startedAt time.Time) (*Participation, error) {
	if credits <= 0 {
		return nil, ErrInvalidShareQuantity
	}

	return &Participation{
		ID:        uuid.New(),
		LotID:     lotID,
		OwnerID:   ownerID,
		Credits:   credits,
		StartedAt: startedAt,
	}, nil
}

// Active indica se a participação ainda está vigente.
func (p *Participation) Active() bool {
	return p.EndedAt == nil
}

// Close encerra a participação. Uma participação encerrada nunca é
// reaberta; encerrar duas vezes é violação de contrato.
func (p *Participation) Close(endedAt time.Time) error {
	if p.EndedAt != nil {
		return ErrParticipationAlreadyClosed
	}
	p.EndedAt = &endedAt
	return nil
}
