package services

import (
	"sort"
	"time"

	"github.com/ferreirogomes/carbono/models"
	"github.com/ferreirogomes/carbono/storage"

	"github.com/google/uuid"
)

// LedgerService mantém o ledger de participações: o conjunto de
// copropriedades ativas e históricas de cada lote. É o único componente,
// junto com o TransferService, autorizado a gravar participações.
type LedgerService struct {
	DB *storage.MemDB
}

// NewLedgerService cria uma nova instância do serviço de ledger.
func NewLedgerService(db *storage.MemDB) *LedgerService {
	return &LedgerService{DB: db}
}

// SetInitialShares define a copropriedade inicial de um lote: 1 a 3
// proprietários distintos cujas quantidades somam exatamente o total do
// lote. Operação única por lote; toda a validação acontece antes de
// qualquer gravação (tudo-ou-nada).
func (s *LedgerService) SetInitialShares(lotID uuid.UUID, shares map[uuid.UUID]int) ([]models.Participation, error) {
	lot, found := s.DB.GetLot(lotID)
	if !found {
		return nil, models.ErrUnknownLot
	}

	if len(shares) == 0 || len(shares) > 3 {
		return nil, models.ErrEmptyOrOversizedShareSet
	}
	for _, credits := range shares {
		if credits <= 0 {
			return nil, models.ErrInvalidShareQuantity
		}
	}
	for ownerID := range shares {
		if !s.DB.OwnerExists(ownerID) {
			return nil, models.ErrUnknownOwner
		}
	}

	// Consultas de diretório concluídas; a seção crítica do lote cobre a
	// checagem de estado e o commit.
	mu := s.DB.LotMutex(lotID)
	mu.Lock()
	defer mu.Unlock()

	if len(s.DB.GetParticipationsByLotID(lotID)) > 0 {
		return nil, models.ErrLotAlreadyHasOwners
	}

	sum := 0
	for _, credits := range shares {
		sum += credits
	}
	if sum != lot.TotalCredits {
		return nil, &models.ShareSumMismatchError{Sum: sum, Required: lot.TotalCredits}
	}

	// Todas as participações iniciais compartilham o mesmo instante de
	// início: o momento do commit desta chamada.
	now := time.Now()
	parts := make([]*models.Participation, 0, len(shares))
	for ownerID, credits := range shares {
		p, err := models.NewParticipation(lotID, ownerID, credits, now)
		if err != nil {
			return nil, err
		}
		parts = append(parts, p)
	}
	s.DB.AddParticipations(lotID, parts)

	return snapshotSortedByOwner(parts), nil
}

// ActiveParticipations retorna as participações ativas do lote ordenadas
// por proprietário. Vazio antes da definição inicial.
func (s *LedgerService) ActiveParticipations(lotID uuid.UUID) ([]models.Participation, error) {
	if _, found := s.DB.GetLot(lotID); !found {
		return nil, models.ErrUnknownLot
	}

	all := s.DB.GetParticipationsByLotID(lotID)
	active := make([]models.Participation, 0, len(all))
	for _, p := range all {
		if p.Active() {
			active = append(active, p)
		}
	}
	sort.Slice(active, func(i, j int) bool {
		return active[i].OwnerID.String() < active[j].OwnerID.String()
	})
	return active, nil
}

// ParticipationHistory retorna todas as participações do lote (ativas e
// encerradas) ordenadas pelo início da vigência.
func (s *LedgerService) ParticipationHistory(lotID uuid.UUID) ([]models.Participation, error) {
	if _, found := s.DB.GetLot(lotID); !found {
		return nil, models.ErrUnknownLot
	}

	history := s.DB.GetParticipationsByLotID(lotID)
	sort.SliceStable(history, func(i, j int) bool {
		return history[i].StartedAt.Before(history[j].StartedAt)
	})
	return history, nil
}

func snapshotSortedByOwner(parts []*models.Participation) []models.Participation {
	out := make([]models.Participation, 0, len(parts))
	for _, p := range parts {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].OwnerID.String() < out[j].OwnerID.String()
	})
	return out
}
