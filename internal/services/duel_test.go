package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campus-arcade-backend/internal/models"
	"campus-arcade-backend/internal/services"
	"campus-arcade-backend/internal/store"
)

func newDuelFixture(t *testing.T) (*services.DuelManager, store.Store, *services.Ledger) {
	t.Helper()
	st := store.NewMemory()
	clk := testClock()
	ledger := services.NewLedger(st, clk)
	duels := services.NewDuelManager(ledger, st, clk, nil)

	seedAccount(t, st, "alice", 100)
	seedAccount(t, st, "bob", 100)

	return duels, st, ledger
}

func TestDuelInviteAndAccept(t *testing.T) {
	duels, st, _ := newDuelFixture(t)
	ctx := context.Background()

	view, err := duels.Invite(ctx, "alice", "bob", 10)
	require.NoError(t, err)
	assert.Equal(t, models.DuelPending, view.Status)
	assert.Equal(t, "bob", view.Opponent)

	// No tokens move until the invite is accepted.
	assert.Equal(t, int64(100), balanceOf(t, st, "alice"))
	assert.Equal(t, int64(100), balanceOf(t, st, "bob"))

	accepted, err := duels.Accept(ctx, "bob", "alice")
	require.NoError(t, err)
	assert.Equal(t, models.DuelActive, accepted.Status)
	assert.Equal(t, 1, accepted.Round)

	assert.Equal(t, int64(90), balanceOf(t, st, "alice"))
	assert.Equal(t, int64(90), balanceOf(t, st, "bob"))
}

func TestDuelInviteValidation(t *testing.T) {
	duels, _, _ := newDuelFixture(t)
	ctx := context.Background()

	_, err := duels.Invite(ctx, "alice", "alice", 10)
	assert.ErrorIs(t, err, services.ErrSelfDuel)

	_, err = duels.Invite(ctx, "alice", "bob", 4)
	assert.ErrorIs(t, err, services.ErrInvalidStake)

	_, err = duels.Invite(ctx, "alice", "bob", 101)
	assert.ErrorIs(t, err, services.ErrInsufficientFunds)

	_, err = duels.Invite(ctx, "alice", "ghost", 10)
	assert.ErrorIs(t, err, services.ErrAccountNotFound)
}

func TestDuelExclusivity(t *testing.T) {
	duels, st, _ := newDuelFixture(t)
	ctx := context.Background()
	seedAccount(t, st, "carol", 100)

	_, err := duels.Invite(ctx, "alice", "bob", 10)
	require.NoError(t, err)

	_, err = duels.Invite(ctx, "carol", "alice", 10)
	assert.ErrorIs(t, err, services.ErrAlreadyInDuel)

	_, err = duels.Invite(ctx, "bob", "carol", 10)
	assert.ErrorIs(t, err, services.ErrAlreadyInDuel)
}

func TestDuelOnlyInviteeAccepts(t *testing.T) {
	duels, _, _ := newDuelFixture(t)
	ctx := context.Background()

	_, err := duels.Invite(ctx, "alice", "bob", 10)
	require.NoError(t, err)

	_, err = duels.Accept(ctx, "alice", "bob")
	assert.ErrorIs(t, err, services.ErrNotInvitedPlayer)
}

func TestDuelDecline(t *testing.T) {
	duels, st, _ := newDuelFixture(t)
	ctx := context.Background()

	_, err := duels.Invite(ctx, "alice", "bob", 10)
	require.NoError(t, err)

	require.NoError(t, duels.Decline(ctx, "bob", "alice"))

	_, err = duels.State(ctx, "alice")
	assert.ErrorIs(t, err, services.ErrDuelNotFound)
	assert.Equal(t, int64(100), balanceOf(t, st, "alice"))
}

func TestDuelMoveMasking(t *testing.T) {
	duels, _, _ := newDuelFixture(t)
	ctx := context.Background()

	_, err := duels.Invite(ctx, "alice", "bob", 10)
	require.NoError(t, err)
	_, err = duels.Accept(ctx, "bob", "alice")
	require.NoError(t, err)

	view, err := duels.Move(ctx, "alice", models.MoveRock)
	require.NoError(t, err)
	assert.Equal(t, models.MoveRock, view.YourMove)
	assert.False(t, view.OpponentMoved)

	// Bob sees that alice moved but never what she played.
	bobView, err := duels.State(ctx, "bob")
	require.NoError(t, err)
	assert.True(t, bobView.OpponentMoved)
	assert.Empty(t, bobView.YourMove)
	assert.Empty(t, bobView.History)

	_, err = duels.Move(ctx, "alice", models.MovePaper)
	assert.ErrorIs(t, err, services.ErrAlreadyMoved)
}

func TestDuelTieReplaysRound(t *testing.T) {
	duels, _, _ := newDuelFixture(t)
	ctx := context.Background()

	_, err := duels.Invite(ctx, "alice", "bob", 10)
	require.NoError(t, err)
	_, err = duels.Accept(ctx, "bob", "alice")
	require.NoError(t, err)

	_, err = duels.Move(ctx, "alice", models.MoveRock)
	require.NoError(t, err)
	view, err := duels.Move(ctx, "bob", models.MoveRock)
	require.NoError(t, err)

	assert.Equal(t, 1, view.Round)
	assert.Equal(t, 0, view.YourWins)
	assert.Equal(t, 0, view.OpponentWins)
	require.Len(t, view.History, 1)
	assert.Empty(t, view.History[0].Winner)
	// Both moves cleared for the replay.
	assert.Empty(t, view.YourMove)
	assert.False(t, view.OpponentMoved)
}

func playRound(t *testing.T, duels *services.DuelManager, aliceMove, bobMove models.Move) *models.DuelView {
	t.Helper()
	ctx := context.Background()
	_, err := duels.Move(ctx, "alice", aliceMove)
	require.NoError(t, err)
	view, err := duels.Move(ctx, "bob", bobMove)
	require.NoError(t, err)
	return view
}

func TestDuelBestOfFiveSettlement(t *testing.T) {
	duels, st, _ := newDuelFixture(t)
	ctx := context.Background()

	_, err := duels.Invite(ctx, "alice", "bob", 10)
	require.NoError(t, err)
	_, err = duels.Accept(ctx, "bob", "alice")
	require.NoError(t, err)

	playRound(t, duels, models.MoveRock, models.MoveScissors)
	playRound(t, duels, models.MoveScissors, models.MovePaper)
	view := playRound(t, duels, models.MovePaper, models.MoveRock)

	assert.Equal(t, models.DuelCompleted, view.Status)
	assert.Equal(t, "alice", view.Winner)
	assert.Equal(t, 3, view.OpponentWins) // bob's view of alice

	// Winner takes the whole pot; loser is out their stake.
	assert.Equal(t, int64(110), balanceOf(t, st, "alice"))
	assert.Equal(t, int64(90), balanceOf(t, st, "bob"))
}

func TestDuelRematchWaitsOutGraceWindow(t *testing.T) {
	st := store.NewMemory()
	clk := testClock()
	ledger := services.NewLedger(st, clk)
	duels := services.NewDuelManager(ledger, st, clk, nil)
	ctx := context.Background()

	seedAccount(t, st, "alice", 100)
	seedAccount(t, st, "bob", 100)

	_, err := duels.Invite(ctx, "alice", "bob", 10)
	require.NoError(t, err)
	_, err = duels.Accept(ctx, "bob", "alice")
	require.NoError(t, err)
	playRound(t, duels, models.MoveRock, models.MoveScissors)
	playRound(t, duels, models.MoveRock, models.MoveScissors)
	playRound(t, duels, models.MoveRock, models.MoveScissors)

	clk.Advance(2 * time.Second)

	// The settled record must survive a rematch attempt inside the grace
	// window.
	_, err = duels.Invite(ctx, "alice", "bob", 10)
	assert.ErrorIs(t, err, services.ErrAlreadyInDuel)

	view, err := duels.State(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, models.DuelCompleted, view.Status)
	assert.Equal(t, "alice", view.Winner)

	// Once the sweep has cleared the record the rematch goes through.
	clk.Advance(9 * time.Second)
	duels.Sweep(ctx)
	_, err = duels.Invite(ctx, "alice", "bob", 10)
	require.NoError(t, err)
}

func TestDuelStatePrefersLiveSession(t *testing.T) {
	st := store.NewMemory()
	clk := testClock()
	ledger := services.NewLedger(st, clk)
	duels := services.NewDuelManager(ledger, st, clk, nil)
	ctx := context.Background()

	seedAccount(t, st, "alice", 100)
	seedAccount(t, st, "bob", 100)
	seedAccount(t, st, "carol", 100)

	_, err := duels.Invite(ctx, "alice", "bob", 10)
	require.NoError(t, err)
	_, err = duels.Accept(ctx, "bob", "alice")
	require.NoError(t, err)
	playRound(t, duels, models.MoveRock, models.MoveScissors)
	playRound(t, duels, models.MoveRock, models.MoveScissors)
	playRound(t, duels, models.MoveRock, models.MoveScissors)

	// Alice starts a fresh challenge while her settled session lingers.
	_, err = duels.Invite(ctx, "alice", "carol", 10)
	require.NoError(t, err)

	aliceView, err := duels.State(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, models.DuelPending, aliceView.Status)
	assert.Equal(t, "carol", aliceView.Opponent)

	// Bob still sees the final result of the settled session.
	bobView, err := duels.State(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, models.DuelCompleted, bobView.Status)
	assert.Equal(t, "alice", bobView.Winner)
}

func TestDuelSweepExpiresPendingInvite(t *testing.T) {
	st := store.NewMemory()
	clk := testClock()
	ledger := services.NewLedger(st, clk)
	duels := services.NewDuelManager(ledger, st, clk, nil)
	ctx := context.Background()

	seedAccount(t, st, "alice", 100)
	seedAccount(t, st, "bob", 100)

	_, err := duels.Invite(ctx, "alice", "bob", 10)
	require.NoError(t, err)

	clk.Advance(59 * time.Minute)
	duels.Sweep(ctx)
	_, err = duels.State(ctx, "alice")
	require.NoError(t, err)

	clk.Advance(2 * time.Minute)
	duels.Sweep(ctx)
	_, err = duels.State(ctx, "alice")
	assert.ErrorIs(t, err, services.ErrDuelNotFound)
}

func TestDuelSweepForfeitsOneSidedTimeout(t *testing.T) {
	st := store.NewMemory()
	clk := testClock()
	ledger := services.NewLedger(st, clk)
	duels := services.NewDuelManager(ledger, st, clk, nil)
	ctx := context.Background()

	seedAccount(t, st, "alice", 100)
	seedAccount(t, st, "bob", 100)

	_, err := duels.Invite(ctx, "alice", "bob", 10)
	require.NoError(t, err)
	_, err = duels.Accept(ctx, "bob", "alice")
	require.NoError(t, err)
	_, err = duels.Move(ctx, "alice", models.MoveRock)
	require.NoError(t, err)

	clk.Advance(61 * time.Minute)
	duels.Sweep(ctx)

	view, err := duels.State(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, models.DuelCompleted, view.Status)
	assert.Equal(t, "alice", view.Winner)
	assert.True(t, view.TimeoutWin)
	assert.Equal(t, int64(110), balanceOf(t, st, "alice"))
	assert.Equal(t, int64(90), balanceOf(t, st, "bob"))

	// Running the sweep again within the grace window changes nothing.
	duels.Sweep(ctx)
	assert.Equal(t, int64(110), balanceOf(t, st, "alice"))

	clk.Advance(11 * time.Second)
	duels.Sweep(ctx)
	_, err = duels.State(ctx, "alice")
	assert.ErrorIs(t, err, services.ErrDuelNotFound)
}

func TestDuelSweepRefundsMutualStall(t *testing.T) {
	st := store.NewMemory()
	clk := testClock()
	ledger := services.NewLedger(st, clk)
	duels := services.NewDuelManager(ledger, st, clk, nil)
	ctx := context.Background()

	seedAccount(t, st, "alice", 100)
	seedAccount(t, st, "bob", 100)

	_, err := duels.Invite(ctx, "alice", "bob", 10)
	require.NoError(t, err)
	_, err = duels.Accept(ctx, "bob", "alice")
	require.NoError(t, err)

	clk.Advance(61 * time.Minute)
	duels.Sweep(ctx)

	assert.Equal(t, int64(100), balanceOf(t, st, "alice"))
	assert.Equal(t, int64(100), balanceOf(t, st, "bob"))
	_, err = duels.State(ctx, "alice")
	assert.ErrorIs(t, err, services.ErrDuelNotFound)
}

func TestDuelAcceptDropsUnderfundedInvite(t *testing.T) {
	st := store.NewMemory()
	clk := testClock()
	ledger := services.NewLedger(st, clk)
	duels := services.NewDuelManager(ledger, st, clk, nil)
	ctx := context.Background()

	seedAccount(t, st, "alice", 100)
	seedAccount(t, st, "bob", 100)

	_, err := duels.Invite(ctx, "alice", "bob", 50)
	require.NoError(t, err)

	// Alice spends her stake elsewhere before bob accepts.
	_, err = ledger.Debit(ctx, "alice", 80, "lottery_ticket")
	require.NoError(t, err)

	_, err = duels.Accept(ctx, "bob", "alice")
	assert.ErrorIs(t, err, services.ErrInsufficientFunds)

	// The invite is gone and nobody was charged for the duel.
	_, err = duels.State(ctx, "bob")
	assert.ErrorIs(t, err, services.ErrDuelNotFound)
	assert.Equal(t, int64(100), balanceOf(t, st, "bob"))
}
