package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"campus-arcade-backend/internal/clock"
	"campus-arcade-backend/internal/models"
	"campus-arcade-backend/internal/rng"
	"campus-arcade-backend/internal/store"
)

const (
	TowerMinStake     = 5
	towerRecentWins   = 3
	towerSafePairOdds = 0.6
)

var (
	ErrInvalidMode     = errors.New("invalid mode")
	ErrNoActiveSession = errors.New("no active game")
	ErrLevelMismatch   = errors.New("invalid level")
	ErrMinimumLevel    = errors.New("must complete at least one level")
)

// Tower is the push-your-luck climb. The stake is consumed up front; the
// safe-tile pattern for all nine levels is rolled once at start and never
// touched again, so the outcome space is fixed before the first pick.
type Tower struct {
	ledger *Ledger
	store  store.Store
	random rng.Rand
	clock  clock.Clock
}

func NewTower(ledger *Ledger, st store.Store, random rng.Rand, clk clock.Clock) *Tower {
	return &Tower{ledger: ledger, store: st, random: random, clock: clk}
}

type TowerStartResult struct {
	NewBalance int64 `json:"new_balance"`
}

type TowerSelectResult struct {
	Safe       bool    `json:"hit_safe"`
	Level      int     `json:"level"`
	Multiplier float64 `json:"multiplier,omitempty"`
	NewBalance int64   `json:"new_balance,omitempty"`
}

type TowerCashoutResult struct {
	Profit     int64   `json:"profit"`
	Multiplier float64 `json:"multiplier"`
	NewBalance int64   `json:"new_balance"`
}

// Start stakes the tokens and creates a fresh session. A prior unfinished
// session is simply replaced; its stake was already consumed at its start.
func (t *Tower) Start(ctx context.Context, username string, stake int64, mode int) (*TowerStartResult, error) {
	if stake < TowerMinStake {
		return nil, ErrInvalidStake
	}
	if mode != models.TowerModeTwo && mode != models.TowerModeThree {
		return nil, ErrInvalidMode
	}

	newBalance, err := t.ledger.Debit(ctx, username, stake, "tower_stake")
	if err != nil {
		return nil, err
	}

	session := &models.TowerSession{
		Username:  username,
		Stake:     stake,
		Mode:      mode,
		Level:     0,
		Pattern:   t.generatePattern(mode),
		Active:    true,
		CreatedAt: t.clock.Now(),
	}
	if err := t.store.SaveTowerSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save tower session: %v", err)
	}

	return &TowerStartResult{NewBalance: newBalance}, nil
}

// generatePattern rolls the safe-column set for each of the nine levels.
// Mode 2: one safe column of two. Mode 3: 60% chance two safe columns,
// 40% chance one.
func (t *Tower) generatePattern(mode int) [][]int {
	pattern := make([][]int, models.TowerLevels)
	for level := range pattern {
		if mode == models.TowerModeTwo {
			pattern[level] = []int{t.random.Intn(2)}
			continue
		}

		if t.random.Float64() < towerSafePairOdds {
			unsafe := t.random.Intn(3)
			safe := make([]int, 0, 2)
			for col := 0; col < 3; col++ {
				if col != unsafe {
					safe = append(safe, col)
				}
			}
			pattern[level] = safe
		} else {
			pattern[level] = []int{t.random.Intn(3)}
		}
	}
	return pattern
}

// Select picks a tile on the current level. A safe pick climbs one level; an
// unsafe pick ends the session with the stake already gone.
func (t *Tower) Select(ctx context.Context, username string, level, tile int) (*TowerSelectResult, error) {
	session, err := t.activeSession(ctx, username)
	if err != nil {
		return nil, err
	}
	if level != session.Level {
		return nil, ErrLevelMismatch
	}

	if !session.SafeAt(level, tile) {
		if err := t.store.DeleteTowerSession(ctx, username); err != nil {
			return nil, fmt.Errorf("failed to clear tower session: %v", err)
		}

		balance, err := t.ledger.BalanceOf(ctx, username)
		if err != nil {
			return nil, err
		}
		return &TowerSelectResult{Safe: false, NewBalance: balance}, nil
	}

	session.Level++
	if err := t.store.SaveTowerSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save tower session: %v", err)
	}

	return &TowerSelectResult{
		Safe:       true,
		Level:      session.Level,
		Multiplier: models.TowerMultiplier(session.Mode, session.Level),
	}, nil
}

// CashOut settles the climb at the current level.
func (t *Tower) CashOut(ctx context.Context, username string) (*TowerCashoutResult, error) {
	session, err := t.activeSession(ctx, username)
	if err != nil {
		return nil, err
	}
	if session.Level == 0 {
		return nil, ErrMinimumLevel
	}

	multiplier := models.TowerMultiplier(session.Mode, session.Level)
	profit := int64(float64(session.Stake) * multiplier)

	newBalance, err := t.ledger.Credit(ctx, username, profit, "tower_cashout")
	if err != nil {
		return nil, err
	}

	if err := t.store.DeleteTowerSession(ctx, username); err != nil {
		return nil, fmt.Errorf("failed to clear tower session: %v", err)
	}

	t.recordWin(ctx, &models.TowerWin{
		Username:   username,
		Level:      session.Level,
		Profit:     profit,
		Multiplier: fmt.Sprintf("%.2f", multiplier),
	})

	return &TowerCashoutResult{
		Profit:     profit,
		Multiplier: multiplier,
		NewBalance: newBalance,
	}, nil
}

// RecentWins returns the bounded recent cash-out feed.
func (t *Tower) RecentWins(ctx context.Context) ([]*models.TowerWin, error) {
	return t.store.RecentTowerWins(ctx)
}

func (t *Tower) activeSession(ctx context.Context, username string) (*models.TowerSession, error) {
	session, err := t.store.GetTowerSession(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNoActiveSession
		}
		return nil, err
	}
	if !session.Active {
		return nil, ErrNoActiveSession
	}
	return session, nil
}

func (t *Tower) recordWin(ctx context.Context, win *models.TowerWin) {
	wins, err := t.store.RecentTowerWins(ctx)
	if err != nil {
		log.Printf("failed to load tower wins: %v", err)
		return
	}

	wins = append([]*models.TowerWin{win}, wins...)
	if len(wins) > towerRecentWins {
		wins = wins[:towerRecentWins]
	}

	if err := t.store.SaveRecentTowerWins(ctx, wins); err != nil {
		log.Printf("failed to save tower wins: %v", err)
	}
}
