package services_test

import (
	"sync"
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

type transferEnv struct {
	db       *storage.MemDB
	ledger   *services.LedgerService
	transfer *services.TransferService
}

func newTransferEnv(t *testing.T) transferEnv {
	t.Helper()
	db := storage.NewMemDB()
	return transferEnv{
		db:       db,
		ledger:   services.NewLedgerService(db),
		transfer: services.NewTransferService(db, zap.NewNop()),
	}
}

func TestSellLotCoOwnedLot(t *testing.T) {
	env := newTransferEnv(t)

	a := addOwner(t, env.db, "A")
	b := addOwner(t, env.db, "B")
	c := addOwner(t, env.db, "C")
	lot := addLot(t, env.db, "LOTE-001")

	_, err := env.ledger.SetInitialShares(lot.ID, map[uuid.UUID]int{a.ID: 600, b.ID: 400})
	require.NoError(t, err)

	amount := decimal.RequireFromString("1500.00")
	tx, err := env.transfer.SellLot(lot.ID, []uuid.UUID{a.ID, b.ID}, c.ID, amount)
	require.NoError(t, err)

	assert.ElementsMatch(t, []uuid.UUID{a.ID, b.ID}, tx.SellerIDs)
	assert.Equal(t, c.ID, tx.BuyerID)
	assert.True(t, amount.Equal(tx.Amount))

	// O comprador fica com o lote inteiro.
	active, err := env.ledger.ActiveParticipations(lot.ID)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, c.ID, active[0].OwnerID)
	assert.Equal(t, lot.TotalCredits, active[0].Credits)

	// As participações dos vendedores foram encerradas no instante do
	// commit da venda.
	history, err := env.ledger.ParticipationHistory(lot.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	for _, p := range history {
		if p.OwnerID == c.ID {
			assert.True(t, p.Active())
			assert.Equal(t, tx.CreatedAt, p.StartedAt)
			continue
		}
		require.NotNil(t, p.EndedAt)
		assert.Equal(t, tx.CreatedAt, *p.EndedAt)
	}

	txs, err := env.transfer.TransactionHistory(lot.ID)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, tx.ID, txs[0].ID)

	assertLedgerInvariants(t, env.ledger, lot.ID, lot.TotalCredits)
}

func TestSellLotSellerSetMustMatchExactly(t *testing.T) {
	env := newTransferEnv(t)

	a := addOwner(t, env.db, "A")
	b := addOwner(t, env.db, "B")
	c := addOwner(t, env.db, "C")
	d := addOwner(t, env.db, "D")
	lot := addLot(t, env.db, "LOTE-001")

	_, err := env.ledger.SetInitialShares(lot.ID, map[uuid.UUID]int{a.ID: 600, b.ID: 400})
	require.NoError(t, err)

	// Subconjunto dos proprietários atuais não basta.
	_, err = env.transfer.SellLot(lot.ID, []uuid.UUID{a.ID}, c.ID, decimal.NewFromInt(100))
	assert.ErrorIs(t, err, models.ErrSellerSetMismatch)

	// Superconjunto também não.
	_, err = env.transfer.SellLot(lot.ID, []uuid.UUID{a.ID, b.ID, d.ID}, c.ID, decimal.NewFromInt(100))
	assert.ErrorIs(t, err, models.ErrSellerSetMismatch)

	// Nada mudou.
	active, err := env.ledger.ActiveParticipations(lot.ID)
	require.NoError(t, err)
	assert.Len(t, active, 2)

	txs, err := env.transfer.TransactionHistory(lot.ID)
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestSellLotAfterResale(t *testing.T) {
	env := newTransferEnv(t)

	a := addOwner(t, env.db, "A")
	b := addOwner(t, env.db, "B")
	c := addOwner(t, env.db, "C")
	d := addOwner(t, env.db, "D")
	lot := addLot(t, env.db, "LOTE-001")

	_, err := env.ledger.SetInitialShares(lot.ID, map[uuid.UUID]int{a.ID: 600, b.ID: 400})
	require.NoError(t, err)

	_, err = env.transfer.SellLot(lot.ID, []uuid.UUID{a.ID, b.ID}, c.ID, decimal.RequireFromString("1500.00"))
	require.NoError(t, err)

	// A não é mais proprietário; o dono atual é C.
	_, err = env.transfer.SellLot(lot.ID, []uuid.UUID{a.ID}, d.ID, decimal.RequireFromString("1800.00"))
	assert.ErrorIs(t, err, models.ErrSellerSetMismatch)

	active, err := env.ledger.ActiveParticipations(lot.ID)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, c.ID, active[0].OwnerID)
	assert.Equal(t, 1000, active[0].Credits)
}

func TestSellLotBuyerCannotBeSeller(t *testing.T) {
	env := newTransferEnv(t)

	c := addOwner(t, env.db, "C")
	lot := addLot(t, env.db, "LOTE-001")

	_, err := env.ledger.SetInitialShares(lot.ID, map[uuid.UUID]int{c.ID: 1000})
	require.NoError(t, err)

	_, err = env.transfer.SellLot(lot.ID, []uuid.UUID{c.ID}, c.ID, decimal.RequireFromString("100.00"))
	assert.ErrorIs(t, err, models.ErrBuyerCannotBeSeller)

	assertLedgerInvariants(t, env.ledger, lot.ID, lot.TotalCredits)
}

func TestSellLotValidationFailures(t *testing.T) {
	env := newTransferEnv(t)

	a := addOwner(t, env.db, "A")
	b := addOwner(t, env.db, "B")
	lot := addLot(t, env.db, "LOTE-001")

	_, err := env.ledger.SetInitialShares(lot.ID, map[uuid.UUID]int{a.ID: 1000})
	require.NoError(t, err)

	// Lote inexistente.
	_, err = env.transfer.SellLot(uuid.New(), []uuid.UUID{a.ID}, b.ID, decimal.NewFromInt(100))
	assert.ErrorIs(t, err, models.ErrUnknownLot)

	// Conjunto de vendedores malformado.
	_, err = env.transfer.SellLot(lot.ID, nil, b.ID, decimal.NewFromInt(100))
	assert.ErrorIs(t, err, models.ErrInvalidSellerSet)

	_, err = env.transfer.SellLot(lot.ID, []uuid.UUID{a.ID, a.ID}, b.ID, decimal.NewFromInt(100))
	assert.ErrorIs(t, err, models.ErrInvalidSellerSet)

	// Vendedor ou comprador não cadastrados.
	_, err = env.transfer.SellLot(lot.ID, []uuid.UUID{uuid.New()}, b.ID, decimal.NewFromInt(100))
	assert.ErrorIs(t, err, models.ErrUnknownOwner)

	_, err = env.transfer.SellLot(lot.ID, []uuid.UUID{a.ID}, uuid.New(), decimal.NewFromInt(100))
	assert.ErrorIs(t, err, models.ErrUnknownOwner)

	// Valor negativo.
	_, err = env.transfer.SellLot(lot.ID, []uuid.UUID{a.ID}, b.ID, decimal.RequireFromString("-1.00"))
	assert.ErrorIs(t, err, models.ErrInvalidAmount)

	// Nenhuma falha deixou estado parcial.
	active, err := env.ledger.ActiveParticipations(lot.ID)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, a.ID, active[0].OwnerID)

	txs, err := env.transfer.TransactionHistory(lot.ID)
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestSellLotUnavailableLot(t *testing.T) {
	env := newTransferEnv(t)

	a := addOwner(t, env.db, "A")
	b := addOwner(t, env.db, "B")
	lot := addLot(t, env.db, "LOTE-001")

	_, err := env.ledger.SetInitialShares(lot.ID, map[uuid.UUID]int{a.ID: 1000})
	require.NoError(t, err)

	_, err = env.db.UpdateLotStatus(lot.ID, models.LotStatusUnavailable)
	require.NoError(t, err)

	_, err = env.transfer.SellLot(lot.ID, []uuid.UUID{a.ID}, b.ID, decimal.NewFromInt(100))
	assert.ErrorIs(t, err, models.ErrLotNotAvailable)
}

func TestSellLotWithoutInitialOwners(t *testing.T) {
	env := newTransferEnv(t)

	a := addOwner(t, env.db, "A")
	b := addOwner(t, env.db, "B")
	lot := addLot(t, env.db, "LOTE-001")

	// Sem participação ativa o ledger está fora de [1,3]: falha interna,
	// não rejeição de negócio.
	_, err := env.transfer.SellLot(lot.ID, []uuid.UUID{a.ID}, b.ID, decimal.NewFromInt(100))
	assert.ErrorIs(t, err, models.ErrLedgerCorruption)
}

func TestSellLotDetectsCorruptedSum(t *testing.T) {
	env := newTransferEnv(t)

	a := addOwner(t, env.db, "A")
	b := addOwner(t, env.db, "B")
	lot := addLot(t, env.db, "LOTE-001")

	// Grava direto no armazenamento uma participação com soma errada,
	// contornando o ledger.
	p, err := models.NewParticipation(lot.ID, a.ID, 700, lot.CreatedAt)
	require.NoError(t, err)
	env.db.AddParticipations(lot.ID, []*models.Participation{p})

	_, err = env.transfer.SellLot(lot.ID, []uuid.UUID{a.ID}, b.ID, decimal.NewFromInt(100))
	assert.ErrorIs(t, err, models.ErrLedgerCorruption)
}

func TestConcurrentSalesOnSameLot(t *testing.T) {
	env := newTransferEnv(t)

	a := addOwner(t, env.db, "A")
	b := addOwner(t, env.db, "B")
	c := addOwner(t, env.db, "C")
	lot := addLot(t, env.db, "LOTE-001")

	_, err := env.ledger.SetInitialShares(lot.ID, map[uuid.UUID]int{a.ID: 1000})
	require.NoError(t, err)

	// Duas vendas concorrentes de A para compradores diferentes: a seção
	// crítica por lote garante que exatamente uma vence e a outra observa
	// o estado pós-venda, nunca um estado intermediário.
	var wg sync.WaitGroup
	errs := make([]error, 2)
	buyers := []uuid.UUID{b.ID, c.ID}

	wg.Add(2)
	for i := range buyers {
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.transfer.SellLot(lot.ID, []uuid.UUID{a.ID}, buyers[i], decimal.NewFromInt(100))
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, models.ErrSellerSetMismatch)
		}
	}
	assert.Equal(t, 1, succeeded)

	assertLedgerInvariants(t, env.ledger, lot.ID, lot.TotalCredits)

	active, err := env.ledger.ActiveParticipations(lot.ID)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, 1000, active[0].Credits)
	assert.Contains(t, buyers, active[0].OwnerID)
}
