package services

import (
	"time"

	"github.com/ferreirogomes/carbono/models"
	"github.com/ferreirogomes/carbono/storage"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// TransferService valida e executa a venda de um lote: encerra as
// participações de todos os coproprietários atuais, abre uma única
// participação para o comprador com o total do lote e registra a
// transação — tudo no mesmo instante de commit.
//
// Modelar a venda como "encerra N, abre 1" (em vez de mutar quantidades)
// mantém cada participação imutável depois de encerrada, e a soma ativa
// volta ao total do lote por construção.
type TransferService struct {
	DB  *storage.MemDB
	Log *zap.Logger
}

// NewTransferService cria uma nova instância do serviço de transferência.
func NewTransferService(db *storage.MemDB, log *zap.Logger) *TransferService {
	return &TransferService{DB: db, Log: log}
}

// SellLot executa a venda de um lote. As validações acontecem na ordem
// abaixo e a primeira falha aborta a operação sem nenhuma mutação:
//
//  1. lote existe e está DISPONIVEL;
//  2. conjunto de vendedores tem 1..3 proprietários distintos;
//  3. vendedores e comprador estão cadastrados;
//  4. as participações ativas respeitam as invariantes (senão é
//     corrupção interna, não rejeição de negócio);
//  5. o conjunto de vendedores é exatamente o conjunto de proprietários
//     atuais — um lote em copropriedade só é vendido por todos juntos;
//  6. comprador não é vendedor;
//  7. valor não negativo.
func (s *TransferService) SellLot(lotID uuid.UUID, sellerIDs []uuid.UUID, buyerID uuid.UUID, amount decimal.Decimal) (models.Transaction, error) {
	lot, found := s.DB.GetLot(lotID)
	if !found {
		return models.Transaction{}, models.ErrUnknownLot
	}
	if lot.Status != models.LotStatusAvailable {
		return models.Transaction{}, models.ErrLotNotAvailable
	}

	if len(sellerIDs) == 0 || len(sellerIDs) > 3 {
		return models.Transaction{}, models.ErrInvalidSellerSet
	}
	sellerSet := make(map[uuid.UUID]struct{}, len(sellerIDs))
	for _, id := range sellerIDs {
		if _, dup := sellerSet[id]; dup {
			return models.Transaction{}, models.ErrInvalidSellerSet
		}
		sellerSet[id] = struct{}{}
	}

	for _, id := range sellerIDs {
		if !s.DB.OwnerExists(id) {
			return models.Transaction{}, models.ErrUnknownOwner
		}
	}
	if !s.DB.OwnerExists(buyerID) {
		return models.Transaction{}, models.ErrUnknownOwner
	}

	// Consultas de diretório concluídas; daqui até o commit a seção
	// crítica do lote garante que nenhuma outra venda ou definição
	// inicial intercale.
	mu := s.DB.LotMutex(lotID)
	mu.Lock()
	defer mu.Unlock()

	active := activeOnly(s.DB.GetParticipationsByLotID(lotID))
	if len(active) < 1 || len(active) > 3 || creditSum(active) != lot.TotalCredits {
		return models.Transaction{}, models.ErrLedgerCorruption
	}

	if !ownersMatch(active, sellerSet) {
		return models.Transaction{}, models.ErrSellerSetMismatch
	}
	if _, ok := sellerSet[buyerID]; ok {
		return models.Transaction{}, models.ErrBuyerCannotBeSeller
	}
	if amount.IsNegative() {
		return models.Transaction{}, models.ErrInvalidAmount
	}

	tx, err := models.NewTransaction(lotID, sellerIDs, buyerID, amount, time.Now())
	if err != nil {
		return models.Transaction{}, err
	}

	buyerPart, err := models.NewParticipation(lotID, buyerID, lot.TotalCredits, tx.CreatedAt)
	if err != nil {
		return models.Transaction{}, err
	}

	if err := s.DB.CommitSale(lotID, tx.CreatedAt, buyerPart, tx); err != nil {
		return models.Transaction{}, err
	}

	s.Log.Info("lote vendido",
		zap.String("lot_id", lotID.String()),
		zap.String("lot_code", lot.Code),
		zap.Int("sellers", len(sellerIDs)),
		zap.String("buyer_id", buyerID.String()),
		zap.String("amount", amount.String()),
	)

	return tx, nil
}

// TransactionHistory retorna o histórico de vendas do lote em ordem
// temporal. Slice vazio quando o lote ainda não foi negociado.
func (s *TransferService) TransactionHistory(lotID uuid.UUID) ([]models.Transaction, error) {
	if _, found := s.DB.GetLot(lotID); !found {
		return nil, models.ErrUnknownLot
	}
	return s.DB.GetTransactionsByLotID(lotID), nil
}

func activeOnly(parts []models.Participation) []models.Participation {
	active := make([]models.Participation, 0, len(parts))
	for _, p := range parts {
		if p.Active() {
			active = append(active, p)
		}
	}
	return active
}

func creditSum(parts []models.Participation) int {
	sum := 0
	for _, p := range parts {
		sum += p.Credits
	}
	return sum
}

// ownersMatch exige igualdade estrita de conjuntos: nem subconjunto nem
// superconjunto dos proprietários atuais serve.
func ownersMatch(active []models.Participation, sellerSet map[uuid.UUID]struct{}) bool {
	if len(active) != len(sellerSet) {
		return false
	}
	for _, p := range active {
		if _, ok := sellerSet[p.OwnerID]; !ok {
			return false
		}
	}
	return true
}
