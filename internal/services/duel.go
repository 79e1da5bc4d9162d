package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"campus-arcade-backend/internal/clock"
	"campus-arcade-backend/internal/models"
	"campus-arcade-backend/internal/store"
)

const (
	DuelMinStake       = 5
	duelTargetWins     = 3
	duelInviteExpiry   = time.Hour
	duelMoveTimeout    = time.Hour
	duelCompletedGrace = 10 * time.Second
)

var (
	ErrSelfDuel         = errors.New("cannot duel yourself")
	ErrAlreadyInDuel    = errors.New("player already in a duel")
	ErrNotInvitedPlayer = errors.New("not the invited player")
	ErrDuelNotFound     = errors.New("duel not found")
	ErrDuelNotActive    = errors.New("duel not active")
	ErrAlreadyMoved     = errors.New("move already submitted")
	ErrInvalidMove      = errors.New("invalid move")
)

// DuelManager runs the best-of-five rock-paper-scissors sessions. Every
// operation, including the background sweep, runs under one mutex so a
// timeout sweep can never race a move on the same session.
type DuelManager struct {
	ledger   *Ledger
	store    store.Store
	clock    clock.Clock
	notifier Broadcaster

	mu sync.Mutex
}

func NewDuelManager(ledger *Ledger, st store.Store, clk clock.Clock, notifier Broadcaster) *DuelManager {
	if notifier == nil {
		notifier = NopBroadcaster{}
	}
	return &DuelManager{ledger: ledger, store: st, clock: clk, notifier: notifier}
}

// Invite creates a pending challenge from one player to another. No tokens
// move yet; both stakes are only escrowed when the invite is accepted.
func (d *DuelManager) Invite(ctx context.Context, from, to string, stake int64) (*models.DuelView, error) {
	if stake < DuelMinStake {
		return nil, ErrInvalidStake
	}
	if from == to {
		return nil, ErrSelfDuel
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	fromBalance, err := d.ledger.BalanceOf(ctx, from)
	if err != nil {
		return nil, err
	}
	toBalance, err := d.ledger.BalanceOf(ctx, to)
	if err != nil {
		return nil, err
	}
	if fromBalance < stake || toBalance < stake {
		return nil, ErrInsufficientFunds
	}

	engaged, err := d.engagedPlayers(ctx)
	if err != nil {
		return nil, err
	}
	if engaged[from] || engaged[to] {
		return nil, ErrAlreadyInDuel
	}

	// A settled session between this pair stays readable until the sweep
	// clears it; a rematch must not overwrite that record.
	if _, err := d.store.GetDuel(ctx, models.DuelKey(from, to)); err == nil {
		return nil, ErrAlreadyInDuel
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	session := &models.DuelSession{
		ID:         models.DuelKey(from, to),
		PlayerA:    from,
		PlayerB:    to,
		Stake:      stake,
		Status:     models.DuelPending,
		InviteTime: d.clock.Now(),
	}
	if err := d.store.SaveDuel(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save duel: %v", err)
	}

	d.notifier.NotifyDuelInvite(to, from, stake)
	return session.View(from), nil
}

// Accept escrows both stakes and starts the match. Only the invited player
// may accept. If either side can no longer cover the stake the invite is
// dropped rather than started half-funded.
func (d *DuelManager) Accept(ctx context.Context, username, inviter string) (*models.DuelView, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	session, err := d.getDuel(ctx, models.DuelKey(username, inviter))
	if err != nil {
		return nil, err
	}
	if session.Status != models.DuelPending {
		return nil, ErrDuelNotFound
	}
	if session.PlayerB != username {
		return nil, ErrNotInvitedPlayer
	}

	balanceA, err := d.ledger.BalanceOf(ctx, session.PlayerA)
	if err != nil {
		return nil, err
	}
	balanceB, err := d.ledger.BalanceOf(ctx, session.PlayerB)
	if err != nil {
		return nil, err
	}
	if balanceA < session.Stake || balanceB < session.Stake {
		if err := d.store.DeleteDuel(ctx, session.ID); err != nil {
			log.Printf("failed to drop underfunded duel %s: %v", session.ID, err)
		}
		return nil, ErrInsufficientFunds
	}

	if _, err := d.ledger.Debit(ctx, session.PlayerA, session.Stake, "duel_stake"); err != nil {
		return nil, err
	}
	if _, err := d.ledger.Debit(ctx, session.PlayerB, session.Stake, "duel_stake"); err != nil {
		if _, rerr := d.ledger.Credit(ctx, session.PlayerA, session.Stake, "duel_refund"); rerr != nil {
			log.Printf("failed to refund duel stake for %s: %v", session.PlayerA, rerr)
		}
		return nil, err
	}

	session.Status = models.DuelActive
	session.Round = 1
	session.LastMoveTime = d.clock.Now()
	if err := d.store.SaveDuel(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save duel: %v", err)
	}

	d.notifier.NotifyDuelUpdate(session.PlayerA, session.View(session.PlayerA))
	return session.View(username), nil
}

// Decline removes a pending invite. Only the invited player may decline.
func (d *DuelManager) Decline(ctx context.Context, username, inviter string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	session, err := d.getDuel(ctx, models.DuelKey(username, inviter))
	if err != nil {
		return err
	}
	if session.Status != models.DuelPending {
		return ErrDuelNotFound
	}
	if session.PlayerB != username {
		return ErrNotInvitedPlayer
	}

	if err := d.store.DeleteDuel(ctx, session.ID); err != nil {
		return fmt.Errorf("failed to delete duel: %v", err)
	}
	d.notifier.NotifyDuelUpdate(session.PlayerA, session.View(session.PlayerA))
	return nil
}

// Move submits the caller's choice for the current round. When both choices
// are in, the round resolves immediately: a tie clears both moves and keeps
// the round counter, a win advances it, and the third win settles the pot.
func (d *DuelManager) Move(ctx context.Context, username string, move models.Move) (*models.DuelView, error) {
	if !models.ValidMove(move) {
		return nil, ErrInvalidMove
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	session, err := d.findByPlayer(ctx, username)
	if err != nil {
		return nil, err
	}
	if session.Status != models.DuelActive {
		return nil, ErrDuelNotActive
	}
	if session.MoveOf(username) != "" {
		return nil, ErrAlreadyMoved
	}

	session.SetMove(username, move)
	session.LastMoveTime = d.clock.Now()

	if session.MoveA != "" && session.MoveB != "" {
		if err := d.resolveRound(ctx, session); err != nil {
			return nil, err
		}
	}

	if err := d.store.SaveDuel(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save duel: %v", err)
	}

	d.notifier.NotifyDuelUpdate(session.Opponent(username), session.View(session.Opponent(username)))
	return session.View(username), nil
}

// resolveRound applies both submitted moves to the score. Mutates session
// only; the caller persists.
func (d *DuelManager) resolveRound(ctx context.Context, session *models.DuelSession) error {
	round := models.DuelRound{
		Round: session.Round,
		MoveA: session.MoveA,
		MoveB: session.MoveB,
	}

	switch {
	case session.MoveA.Beats(session.MoveB):
		round.Winner = session.PlayerA
		session.WinsA++
	case session.MoveB.Beats(session.MoveA):
		round.Winner = session.PlayerB
		session.WinsB++
	}

	session.History = append(session.History, round)
	session.MoveA = ""
	session.MoveB = ""

	// A tie replays the same round number.
	if round.Winner == "" {
		return nil
	}
	session.Round++

	if session.WinsA < duelTargetWins && session.WinsB < duelTargetWins {
		return nil
	}

	if _, err := d.ledger.Credit(ctx, round.Winner, 2*session.Stake, "duel_win"); err != nil {
		return err
	}
	session.Status = models.DuelCompleted
	session.Winner = round.Winner
	session.CompletedAt = d.clock.Now()
	return nil
}

// State returns the caller's masked view of their current session.
func (d *DuelManager) State(ctx context.Context, username string) (*models.DuelView, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	session, err := d.findByPlayer(ctx, username)
	if err != nil {
		return nil, err
	}
	return session.View(username), nil
}

// Sweep expires stale sessions: unanswered invites are dropped, a one-sided
// move timeout forfeits the match to the player who moved, a mutual stall
// refunds both stakes, and settled sessions are removed after a short grace
// window. Safe to run repeatedly.
func (d *DuelManager) Sweep(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()

	duels, err := d.store.ListDuels(ctx)
	if err != nil {
		log.Printf("duel sweep: failed to list duels: %v", err)
		return
	}

	now := d.clock.Now()
	for _, session := range duels {
		if err := d.sweepOne(ctx, session, now); err != nil {
			log.Printf("duel sweep: session %s: %v", session.ID, err)
		}
	}
}

func (d *DuelManager) sweepOne(ctx context.Context, session *models.DuelSession, now time.Time) error {
	switch session.Status {
	case models.DuelPending:
		if now.Sub(session.InviteTime) < duelInviteExpiry {
			return nil
		}
		return d.store.DeleteDuel(ctx, session.ID)

	case models.DuelActive:
		if now.Sub(session.LastMoveTime) < duelMoveTimeout {
			return nil
		}
		return d.timeOut(ctx, session)

	case models.DuelCompleted:
		if now.Sub(session.CompletedAt) < duelCompletedGrace {
			return nil
		}
		return d.store.DeleteDuel(ctx, session.ID)
	}
	return nil
}

func (d *DuelManager) timeOut(ctx context.Context, session *models.DuelSession) error {
	var mover string
	switch {
	case session.MoveA != "" && session.MoveB == "":
		mover = session.PlayerA
	case session.MoveB != "" && session.MoveA == "":
		mover = session.PlayerB
	}

	if mover == "" {
		// Neither side moved; call it off and return the stakes.
		for _, player := range []string{session.PlayerA, session.PlayerB} {
			if _, err := d.ledger.Credit(ctx, player, session.Stake, "duel_refund"); err != nil {
				return err
			}
		}
		return d.store.DeleteDuel(ctx, session.ID)
	}

	if _, err := d.ledger.Credit(ctx, mover, 2*session.Stake, "duel_win"); err != nil {
		return err
	}
	session.Status = models.DuelCompleted
	session.Winner = mover
	session.TimeoutWin = true
	session.CompletedAt = d.clock.Now()
	session.MoveA = ""
	session.MoveB = ""
	if err := d.store.SaveDuel(ctx, session); err != nil {
		return err
	}

	d.notifier.NotifyDuelUpdate(session.PlayerA, session.View(session.PlayerA))
	d.notifier.NotifyDuelUpdate(session.PlayerB, session.View(session.PlayerB))
	return nil
}

func (d *DuelManager) getDuel(ctx context.Context, id string) (*models.DuelSession, error) {
	session, err := d.store.GetDuel(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrDuelNotFound
		}
		return nil, err
	}
	return session, nil
}

// findByPlayer returns the player's live session if one exists; a lingering
// completed session is only returned when nothing live references the player.
func (d *DuelManager) findByPlayer(ctx context.Context, username string) (*models.DuelSession, error) {
	duels, err := d.store.ListDuels(ctx)
	if err != nil {
		return nil, err
	}
	var completed *models.DuelSession
	for _, session := range duels {
		if !session.HasPlayer(username) {
			continue
		}
		if session.Status != models.DuelCompleted {
			return session, nil
		}
		if completed == nil {
			completed = session
		}
	}
	if completed != nil {
		return completed, nil
	}
	return nil, ErrDuelNotFound
}

// engagedPlayers collects everyone currently in a pending or active session.
func (d *DuelManager) engagedPlayers(ctx context.Context) (map[string]bool, error) {
	duels, err := d.store.ListDuels(ctx)
	if err != nil {
		return nil, err
	}
	engaged := make(map[string]bool)
	for _, session := range duels {
		if session.Status == models.DuelCompleted {
			continue
		}
		engaged[session.PlayerA] = true
		engaged[session.PlayerB] = true
	}
	return engaged, nil
}
