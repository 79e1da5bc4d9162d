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

// mode-2 pattern where column 0 is safe on every level.
func allZeroRand() *scriptedRand {
	return &scriptedRand{ints: make([]int, 16)}
}

func TestTowerStartDebitsStake(t *testing.T) {
	st := store.NewMemory()
	ledger := services.NewLedger(st, testClock())
	game := services.NewTower(ledger, st, allZeroRand(), testClock())
	ctx := context.Background()

	seedAccount(t, st, "alice", 100)

	result, err := game.Start(ctx, "alice", 10, models.TowerModeTwo)
	require.NoError(t, err)
	assert.Equal(t, int64(90), result.NewBalance)

	session, err := st.GetTowerSession(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, session.Active)
	assert.Len(t, session.Pattern, models.TowerLevels)
}

func TestTowerStartValidation(t *testing.T) {
	st := store.NewMemory()
	ledger := services.NewLedger(st, testClock())
	game := services.NewTower(ledger, st, allZeroRand(), testClock())
	ctx := context.Background()

	seedAccount(t, st, "alice", 100)

	_, err := game.Start(ctx, "alice", 4, models.TowerModeTwo)
	assert.ErrorIs(t, err, services.ErrInvalidStake)

	_, err = game.Start(ctx, "alice", 10, 4)
	assert.ErrorIs(t, err, services.ErrInvalidMode)

	_, err = game.Start(ctx, "alice", 1000, models.TowerModeTwo)
	assert.ErrorIs(t, err, services.ErrInsufficientFunds)
}

func TestTowerClimbAndCashOut(t *testing.T) {
	st := store.NewMemory()
	ledger := services.NewLedger(st, testClock())
	game := services.NewTower(ledger, st, allZeroRand(), testClock())
	ctx := context.Background()

	seedAccount(t, st, "alice", 100)

	_, err := game.Start(ctx, "alice", 10, models.TowerModeTwo)
	require.NoError(t, err)

	first, err := game.Select(ctx, "alice", 0, 0)
	require.NoError(t, err)
	assert.True(t, first.Safe)
	assert.Equal(t, 1, first.Level)
	assert.InDelta(t, 1.5, first.Multiplier, 0.0001)

	second, err := game.Select(ctx, "alice", 1, 0)
	require.NoError(t, err)
	assert.True(t, second.Safe)
	assert.InDelta(t, 2.25, second.Multiplier, 0.0001)

	result, err := game.CashOut(ctx, "alice")
	require.NoError(t, err)
	// Profit truncates toward zero: 10 * 2.25 = 22.
	assert.Equal(t, int64(22), result.Profit)
	assert.Equal(t, int64(112), result.NewBalance)

	_, err = game.CashOut(ctx, "alice")
	assert.ErrorIs(t, err, services.ErrNoActiveSession)

	// The settled session is removed, not left behind.
	_, err = st.GetTowerSession(ctx, "alice")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestTowerUnsafePickEndsSession(t *testing.T) {
	st := store.NewMemory()
	ledger := services.NewLedger(st, testClock())
	game := services.NewTower(ledger, st, allZeroRand(), testClock())
	ctx := context.Background()

	seedAccount(t, st, "alice", 100)

	_, err := game.Start(ctx, "alice", 10, models.TowerModeTwo)
	require.NoError(t, err)

	// Column 0 is safe everywhere, so column 1 busts.
	result, err := game.Select(ctx, "alice", 0, 1)
	require.NoError(t, err)
	assert.False(t, result.Safe)
	assert.Equal(t, int64(90), result.NewBalance)

	_, err = game.Select(ctx, "alice", 0, 0)
	assert.ErrorIs(t, err, services.ErrNoActiveSession)

	// A bust clears the session record entirely.
	_, err = st.GetTowerSession(ctx, "alice")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestTowerLevelMismatch(t *testing.T) {
	st := store.NewMemory()
	ledger := services.NewLedger(st, testClock())
	game := services.NewTower(ledger, st, allZeroRand(), testClock())
	ctx := context.Background()

	seedAccount(t, st, "alice", 100)

	_, err := game.Start(ctx, "alice", 10, models.TowerModeTwo)
	require.NoError(t, err)

	_, err = game.Select(ctx, "alice", 3, 0)
	assert.ErrorIs(t, err, services.ErrLevelMismatch)
}

func TestTowerCashOutRequiresProgress(t *testing.T) {
	st := store.NewMemory()
	ledger := services.NewLedger(st, testClock())
	game := services.NewTower(ledger, st, allZeroRand(), testClock())
	ctx := context.Background()

	seedAccount(t, st, "alice", 100)

	_, err := game.Start(ctx, "alice", 10, models.TowerModeTwo)
	require.NoError(t, err)

	_, err = game.CashOut(ctx, "alice")
	assert.ErrorIs(t, err, services.ErrMinimumLevel)
}

func TestTowerRestartConsumesNewStake(t *testing.T) {
	st := store.NewMemory()
	ledger := services.NewLedger(st, testClock())
	game := services.NewTower(ledger, st, allZeroRand(), testClock())
	ctx := context.Background()

	seedAccount(t, st, "alice", 100)

	_, err := game.Start(ctx, "alice", 10, models.TowerModeTwo)
	require.NoError(t, err)
	result, err := game.Start(ctx, "alice", 20, models.TowerModeTwo)
	require.NoError(t, err)

	// The first stake stays consumed when a session is replaced.
	assert.Equal(t, int64(70), result.NewBalance)

	session, err := st.GetTowerSession(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(20), session.Stake)
	assert.Equal(t, 0, session.Level)
}

func TestTowerModeThreePattern(t *testing.T) {
	st := store.NewMemory()
	ledger := services.NewLedger(st, testClock())
	// First level: Float64 0.9 >= 0.6 gives one safe column, Intn -> 2.
	// Remaining levels: Float64 0.1 < 0.6 gives two safe columns with the
	// unsafe one at Intn -> 0.
	random := &scriptedRand{
		ints:   []int{2, 0, 0, 0, 0, 0, 0, 0, 0},
		floats: []float64{0.9, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1},
	}
	game := services.NewTower(ledger, st, random, testClock())
	ctx := context.Background()

	seedAccount(t, st, "alice", 100)

	_, err := game.Start(ctx, "alice", 10, models.TowerModeThree)
	require.NoError(t, err)

	session, err := st.GetTowerSession(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []int{2}, session.Pattern[0])
	for level := 1; level < models.TowerLevels; level++ {
		assert.Equal(t, []int{1, 2}, session.Pattern[level])
	}
}

func TestTowerPatternFixedAcrossSelections(t *testing.T) {
	st := store.NewMemory()
	ledger := services.NewLedger(st, testClock())
	game := services.NewTower(ledger, st, allZeroRand(), testClock())
	ctx := context.Background()

	seedAccount(t, st, "alice", 100)

	_, err := game.Start(ctx, "alice", 10, models.TowerModeTwo)
	require.NoError(t, err)

	before, err := st.GetTowerSession(ctx, "alice")
	require.NoError(t, err)

	// The pattern rolled at start must survive every pick unchanged.
	for level := 0; level < 4; level++ {
		result, err := game.Select(ctx, "alice", level, 0)
		require.NoError(t, err)
		require.True(t, result.Safe)

		after, err := st.GetTowerSession(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, before.Pattern, after.Pattern)
	}
}

func TestTowerRecentWinsBounded(t *testing.T) {
	st := store.NewMemory()
	ledger := services.NewLedger(st, testClock())
	game := services.NewTower(ledger, st, allZeroRand(), testClock())
	ctx := context.Background()

	seedAccount(t, st, "alice", 1000)

	for i := 0; i < 4; i++ {
		_, err := game.Start(ctx, "alice", int64(10+i), models.TowerModeTwo)
		require.NoError(t, err)
		_, err = game.Select(ctx, "alice", 0, 0)
		require.NoError(t, err)
		_, err = game.CashOut(ctx, "alice")
		require.NoError(t, err)
	}

	wins, err := game.RecentWins(ctx)
	require.NoError(t, err)
	require.Len(t, wins, 3)
	// Newest first.
	assert.Equal(t, int64(19), wins[0].Profit)
}
