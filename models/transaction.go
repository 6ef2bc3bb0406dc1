package models

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction é o registro imutável de uma compra e venda de lote:
// o conjunto de vendedores (1..3 coproprietários agindo juntos), o
// comprador, o valor acordado e o momento da transação.
type Transaction struct {
	ID        uuid.UUID       `json:"id"`
	LotID     uuid.UUID       `json:"lot_id"`
	SellerIDs []uuid.UUID     `json:"seller_ids"` // únicos, armazenados ordenados
	BuyerID   uuid.UUID       `json:"buyer_id"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt time.Time       `json:"created_at"`
}

// NewTransaction cria uma transação validando as invariantes estruturais:
// 1..3 vendedores distintos, comprador fora do conjunto e valor não negativo.
func NewTransaction(lotID uuid.UUID, sellerIDs []uuid.UUID, buyerID uuid.UUID, amount decimal.Decimal, createdAt time.Time) (Transaction, error) {
	if len(sellerIDs) == 0 || len(sellerIDs) > 3 {
		return Transaction{}, ErrInvalidSellerSet
	}

	seen := make(map[uuid.UUID]struct{}, len(sellerIDs))
	for _, id := range sellerIDs {
		if _, dup := seen[id]; dup {
			return Transaction{}, ErrInvalidSellerSet
		}
		seen[id] = struct{}{}
	}

	if _, ok := seen[buyerID]; ok {
		return Transaction{}, ErrBuyerCannotBeSeller
	}
	if amount.IsNegative() {
		return Transaction{}, ErrInvalidAmount
	}

	// Cópia ordenada para que o registro seja canônico independente da
	// ordem recebida na requisição.
	sellers := make([]uuid.UUID, len(sellerIDs))
	copy(sellers, sellerIDs)
	sort.Slice(sellers, func(i, j int) bool {
		return sellers[i].String() < sellers[j].String()
	})

	return Transaction{
		ID:        uuid.New(),
		LotID:     lotID,
		SellerIDs: sellers,
		BuyerID:   buyerID,
		Amount:    amount,
		CreatedAt: createdAt,
	}, nil
}
