package services

import (
	"sort"
	"time"

	"github.com/ferreirogomes/carbono/models"
	"github.com/ferreirogomes/carbono/storage"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LotReport é o relatório consolidado de um lote: identificação, árvores
// registradas, linha do tempo de copropriedade e histórico de vendas.
type LotReport struct {
	Lot          models.Lot         `json:"lot"`
	Trees        []models.Tree      `json:"trees"`
	Ownership    []OwnershipEntry   `json:"ownership"`
	Transactions []TransactionEntry `json:"transactions"`
}

// OwnershipEntry é uma participação enriquecida com os dados do
// proprietário para exibição.
type OwnershipEntry struct {
	OwnerName     string     `json:"owner_name"`
	OwnerDocument string     `json:"owner_document"`
	OwnerKind     string     `json:"owner_kind"`
	Credits       int        `json:"credits"`
	StartedAt     time.Time  `json:"started_at"`
	EndedAt       *time.Time `json:"ended_at,omitempty"`
	Current       bool       `json:"current"`
}

// TransactionEntry é uma transação enriquecida com os nomes de
// vendedores e comprador.
type TransactionEntry struct {
	SellerNames []string        `json:"seller_names"`
	BuyerName   string          `json:"buyer_name"`
	Amount      decimal.Decimal `json:"amount"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ReportService monta relatórios de leitura a partir do ledger e do
// histórico de transações. Só referencia os dados, nunca os muta.
type ReportService struct {
	DB *storage.MemDB
}

// NewReportService cria uma nova instância do serviço de relatório.
func NewReportService(db *storage.MemDB) *ReportService {
	return &ReportService{DB: db}
}

// LotReport monta o relatório consolidado de um lote.
func (s *ReportService) LotReport(lotID uuid.UUID) (LotReport, error) {
	lot, found := s.DB.GetLot(lotID)
	if !found {
		return LotReport{}, models.ErrUnknownLot
	}

	parts := s.DB.GetParticipationsByLotID(lotID)
	sort.SliceStable(parts, func(i, j int) bool {
		return parts[i].StartedAt.Before(parts[j].StartedAt)
	})

	ownership := make([]OwnershipEntry, 0, len(parts))
	for _, p := range parts {
		entry := OwnershipEntry{
			Credits:   p.Credits,
			StartedAt: p.StartedAt,
			EndedAt:   p.EndedAt,
			Current:   p.Active(),
		}
		if owner, ok := s.DB.GetOwner(p.OwnerID); ok {
			entry.OwnerName = owner.Name
			entry.OwnerDocument = owner.Document
			entry.OwnerKind = string(owner.Kind)
		}
		ownership = append(ownership, entry)
	}

	txs := s.DB.GetTransactionsByLotID(lotID)
	entries := make([]TransactionEntry, 0, len(txs))
	for _, tx := range txs {
		entry := TransactionEntry{
			Amount:    tx.Amount,
			CreatedAt: tx.CreatedAt,
		}
		for _, sellerID := range tx.SellerIDs {
			if seller, ok := s.DB.GetOwner(sellerID); ok {
				entry.SellerNames = append(entry.SellerNames, seller.Name)
			}
		}
		if buyer, ok := s.DB.GetOwner(tx.BuyerID); ok {
			entry.BuyerName = buyer.Name
		}
		entries = append(entries, entry)
	}

	return LotReport{
		Lot:          lot,
		Trees:        s.DB.GetTreesByLotID(lotID),
		Ownership:    ownership,
		Transactions: entries,
	}, nil
}
