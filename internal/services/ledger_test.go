package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campus-arcade-backend/internal/models"
	"campus-arcade-backend/internal/services"
	"campus-arcade-backend/internal/store"
)

func TestLedgerCreditAndDebit(t *testing.T) {
	st := store.NewMemory()
	ledger := services.NewLedger(st, testClock())
	ctx := context.Background()

	seedAccount(t, st, "alice", 0)

	balance, err := ledger.Credit(ctx, "alice", 50, "admin_adjust")
	require.NoError(t, err)
	assert.Equal(t, int64(50), balance)

	balance, err = ledger.Debit(ctx, "alice", 20, "coinflip")
	require.NoError(t, err)
	assert.Equal(t, int64(30), balance)

	history, err := ledger.HistoryOf(ctx, "alice", 0)
	require.NoError(t, err)
	require.Len(t, history, 2)

	// Newest first.
	assert.Equal(t, models.EntryDestruction, history[0].Kind)
	assert.Equal(t, "coinflip", history[0].Source)
	assert.Equal(t, models.EntryCreation, history[1].Kind)
	assert.Equal(t, "admin_adjust", history[1].Source)
}

func TestLedgerRejectsOverdraft(t *testing.T) {
	st := store.NewMemory()
	ledger := services.NewLedger(st, testClock())
	ctx := context.Background()

	seedAccount(t, st, "alice", 10)

	_, err := ledger.Debit(ctx, "alice", 11, "coinflip")
	assert.ErrorIs(t, err, services.ErrInsufficientFunds)
	assert.Equal(t, int64(10), balanceOf(t, st, "alice"))
}

func TestLedgerRejectsNonPositiveAmounts(t *testing.T) {
	st := store.NewMemory()
	ledger := services.NewLedger(st, testClock())
	ctx := context.Background()

	seedAccount(t, st, "alice", 10)

	_, err := ledger.Credit(ctx, "alice", 0, "gift")
	assert.ErrorIs(t, err, services.ErrInvalidAmount)

	_, err = ledger.Debit(ctx, "alice", -5, "gift")
	assert.ErrorIs(t, err, services.ErrInvalidAmount)
}

func TestLedgerUnknownAccount(t *testing.T) {
	st := store.NewMemory()
	ledger := services.NewLedger(st, testClock())

	_, err := ledger.Credit(context.Background(), "ghost", 10, "gift")
	assert.ErrorIs(t, err, services.ErrAccountNotFound)
}

func TestLedgerTransfer(t *testing.T) {
	st := store.NewMemory()
	ledger := services.NewLedger(st, testClock())
	ctx := context.Background()

	seedAccount(t, st, "alice", 100)
	seedAccount(t, st, "bob", 5)

	balance, err := ledger.Transfer(ctx, "alice", "bob", 40, "gift")
	require.NoError(t, err)
	assert.Equal(t, int64(60), balance)
	assert.Equal(t, int64(45), balanceOf(t, st, "bob"))

	// A transfer is one entry visible to both sides, not a creation and
	// destruction pair.
	aliceHistory, err := ledger.HistoryOf(ctx, "alice", 0)
	require.NoError(t, err)
	require.Len(t, aliceHistory, 1)
	assert.Equal(t, models.EntryTransfer, aliceHistory[0].Kind)
	assert.Equal(t, "bob", aliceHistory[0].Counterparty)

	global, err := st.LedgerEntries(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, global, 1)
}

func TestLedgerTransferRejectsSelfAndOverdraft(t *testing.T) {
	st := store.NewMemory()
	ledger := services.NewLedger(st, testClock())
	ctx := context.Background()

	seedAccount(t, st, "alice", 10)
	seedAccount(t, st, "bob", 0)

	_, err := ledger.Transfer(ctx, "alice", "alice", 5, "gift")
	assert.ErrorIs(t, err, services.ErrInvalidAmount)

	_, err = ledger.Transfer(ctx, "alice", "bob", 11, "gift")
	assert.ErrorIs(t, err, services.ErrInsufficientFunds)
	assert.Equal(t, int64(10), balanceOf(t, st, "alice"))
	assert.Equal(t, int64(0), balanceOf(t, st, "bob"))
}

func TestLedgerTransferConservesCirculation(t *testing.T) {
	st := store.NewMemory()
	ledger := services.NewLedger(st, testClock())
	ctx := context.Background()

	seedAccount(t, st, "alice", 70)
	seedAccount(t, st, "bob", 30)

	before, err := ledger.Circulation(ctx)
	require.NoError(t, err)

	_, err = ledger.Transfer(ctx, "alice", "bob", 25, "gift")
	require.NoError(t, err)

	after, err := ledger.Circulation(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestLedgerEntriesCarryCirculationSnapshot(t *testing.T) {
	st := store.NewMemory()
	ledger := services.NewLedger(st, testClock())
	ctx := context.Background()

	seedAccount(t, st, "alice", 0)

	_, err := ledger.Credit(ctx, "alice", 100, "admin_adjust")
	require.NoError(t, err)
	_, err = ledger.Debit(ctx, "alice", 30, "lottery_ticket")
	require.NoError(t, err)

	history, err := ledger.HistoryOf(ctx, "alice", 0)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, int64(70), history[0].Circulation)
	assert.Equal(t, int64(100), history[1].Circulation)
	assert.Greater(t, history[0].ID, history[1].ID)
}
