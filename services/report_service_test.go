package services_test

import (
	"testing"

	"github.com/ferreirogomes/carbono/models"
	"github.com/ferreirogomes/carbono/services"
	"github.com/ferreirogomes/carbono/storage"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLotReport(t *testing.T) {
	db := storage.NewMemDB()
	registry := services.NewRegistryService(db, zap.NewNop())
	ledger := services.NewLedgerService(db)
	transfer := services.NewTransferService(db, zap.NewNop())
	report := services.NewReportService(db)

	a := addOwner(t, db, "Ana")
	b := addOwner(t, db, "Bruno")
	c := addOwner(t, db, "Carla")
	lot := addLot(t, db, "LOTE-001")

	_, err := registry.RegisterTree(lot.ID, "Ipê-amarelo", -23.55, -46.63)
	require.NoError(t, err)

	_, err = ledger.SetInitialShares(lot.ID, map[uuid.UUID]int{a.ID: 600, b.ID: 400})
	require.NoError(t, err)

	_, err = transfer.SellLot(lot.ID, []uuid.UUID{a.ID, b.ID}, c.ID, decimal.RequireFromString("1500.00"))
	require.NoError(t, err)

	r, err := report.LotReport(lot.ID)
	require.NoError(t, err)

	assert.Equal(t, "LOTE-001", r.Lot.Code)
	require.Len(t, r.Trees, 1)
	assert.Equal(t, "Ipê-amarelo", r.Trees[0].Species)

	// Linha do tempo: duas participações encerradas e a atual de Carla.
	require.Len(t, r.Ownership, 3)
	current := 0
	for _, entry := range r.Ownership {
		if entry.Current {
			current++
			assert.Equal(t, "Carla", entry.OwnerName)
			assert.Equal(t, 1000, entry.Credits)
		} else {
			require.NotNil(t, entry.EndedAt)
		}
	}
	assert.Equal(t, 1, current)

	require.Len(t, r.Transactions, 1)
	assert.ElementsMatch(t, []string{"Ana", "Bruno"}, r.Transactions[0].SellerNames)
	assert.Equal(t, "Carla", r.Transactions[0].BuyerName)
	assert.True(t, decimal.RequireFromString("1500.00").Equal(r.Transactions[0].Amount))
}

func TestLotReportUnknownLot(t *testing.T) {
	db := storage.NewMemDB()
	report := services.NewReportService(db)

	_, err := report.LotReport(uuid.New())
	assert.ErrorIs(t, err, models.ErrUnknownLot)
}
