package storage_test

import (
	"testing"
	"time"

	"github.com/ferreirogomes/carbono/models"
	"github.com/ferreirogomes/carbono/storage"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveOwnerRejectsDuplicateDocument(t *testing.T) {
	db := storage.NewMemDB()

	first, err := models.NewOwner("Maria", "111.222.333-44", models.OwnerKindIndividual)
	require.NoError(t, err)
	require.NoError(t, db.SaveOwner(first))

	// Mesmo documento com caixa diferente também é duplicado.
	second, err := models.NewOwner("Empresa X", "111.222.333-44", models.OwnerKindOrganization)
	require.NoError(t, err)
	assert.ErrorIs(t, db.SaveOwner(second), models.ErrDuplicateDocument)
}

func TestSaveLotRejectsDuplicateCode(t *testing.T) {
	db := storage.NewMemDB()

	first, err := models.NewLot("LOTE-001")
	require.NoError(t, err)
	require.NoError(t, db.SaveLot(first))

	second, err := models.NewLot("lote-001")
	require.NoError(t, err)
	assert.ErrorIs(t, db.SaveLot(second), models.ErrDuplicateLotCode)
}

func TestListOwnersSortedByName(t *testing.T) {
	db := storage.NewMemDB()

	for _, name := range []string{"Carlos", "Ana", "Bruno"} {
		owner, err := models.NewOwner(name, "doc-"+name, models.OwnerKindIndividual)
		require.NoError(t, err)
		require.NoError(t, db.SaveOwner(owner))
	}

	owners := db.ListOwners()
	require.Len(t, owners, 3)
	assert.Equal(t, "Ana", owners[0].Name)
	assert.Equal(t, "Bruno", owners[1].Name)
	assert.Equal(t, "Carlos", owners[2].Name)
}

func TestGetParticipationsReturnsCopies(t *testing.T) {
	db := storage.NewMemDB()
	lotID := uuid.New()

	p, err := models.NewParticipation(lotID, uuid.New(), 1000, time.Now())
	require.NoError(t, err)
	db.AddParticipations(lotID, []*models.Participation{p})

	before := db.GetParticipationsByLotID(lotID)
	require.Len(t, before, 1)
	require.True(t, before[0].Active())

	buyer, err := models.NewParticipation(lotID, uuid.New(), 1000, time.Now())
	require.NoError(t, err)
	tx, err := models.NewTransaction(lotID, []uuid.UUID{p.OwnerID}, buyer.OwnerID, decimal.NewFromInt(50), time.Now())
	require.NoError(t, err)
	require.NoError(t, db.CommitSale(lotID, time.Now(), buyer, tx))

	// A cópia obtida antes do commit não enxerga o encerramento.
	assert.True(t, before[0].Active())

	after := db.GetParticipationsByLotID(lotID)
	require.Len(t, after, 2)
	assert.False(t, after[0].Active())
	assert.True(t, after[1].Active())
}

func TestGetTransactionsEmptyIsNotNil(t *testing.T) {
	db := storage.NewMemDB()

	txs := db.GetTransactionsByLotID(uuid.New())
	assert.NotNil(t, txs)
	assert.Empty(t, txs)
}

func TestLotMutexIsStablePerLot(t *testing.T) {
	db := storage.NewMemDB()
	lotID := uuid.New()

	assert.Same(t, db.LotMutex(lotID), db.LotMutex(lotID))
	assert.NotSame(t, db.LotMutex(lotID), db.LotMutex(uuid.New()))
}

func TestUpdateLotStatus(t *testing.T) {
	db := storage.NewMemDB()

	lot, err := models.NewLot("LOTE-002")
	require.NoError(t, err)
	require.NoError(t, db.SaveLot(lot))

	updated, err := db.UpdateLotStatus(lot.ID, models.LotStatusUnavailable)
	require.NoError(t, err)
	assert.Equal(t, models.LotStatusUnavailable, updated.Status)

	stored, found := db.GetLot(lot.ID)
	require.True(t, found)
	assert.Equal(t, models.LotStatusUnavailable, stored.Status)

	_, err = db.UpdateLotStatus(uuid.New(), models.LotStatusAvailable)
	assert.ErrorIs(t, err, models.ErrUnknownLot)
}
