package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"

	"campus-arcade-backend/internal/clock"
	"campus-arcade-backend/internal/models"
	"campus-arcade-backend/internal/rng"
	"campus-arcade-backend/internal/store"
)

const (
	CoinflipMinStake = 2
	coinflipTopWins  = 3
)

var ErrInvalidStake = errors.New("invalid stake")

var coinSides = []models.CoinSide{models.CoinHeads, models.CoinTails}

// Coinflip is the single-shot heads/tails wager. Stake, outcome and
// settlement happen inside one call; nothing is persisted between plays.
type Coinflip struct {
	ledger *Ledger
	store  store.Store
	random rng.Rand
	clock  clock.Clock
}

func NewCoinflip(ledger *Ledger, st store.Store, random rng.Rand, clk clock.Clock) *Coinflip {
	return &Coinflip{ledger: ledger, store: st, random: random, clock: clk}
}

type CoinflipResult struct {
	Outcome    models.CoinSide `json:"result"`
	Won        bool            `json:"won"`
	Amount     int64           `json:"amount"`
	NewBalance int64           `json:"new_balance"`
}

// Play flips the coin for the given stake and settles immediately: a win
// credits the stake as profit, a loss debits it.
func (c *Coinflip) Play(ctx context.Context, username string, stake int64, call models.CoinSide) (*CoinflipResult, error) {
	if stake < CoinflipMinStake {
		return nil, ErrInvalidStake
	}

	balance, err := c.ledger.BalanceOf(ctx, username)
	if err != nil {
		return nil, err
	}
	if balance < stake {
		return nil, ErrInsufficientFunds
	}

	outcome := coinSides[c.random.Intn(2)]
	won := outcome == call

	var newBalance int64
	if won {
		newBalance, err = c.ledger.Credit(ctx, username, stake, "coinflip")
		if err != nil {
			return nil, err
		}
		c.recordWin(ctx, username, stake)
	} else {
		newBalance, err = c.ledger.Debit(ctx, username, stake, "coinflip")
		if err != nil {
			return nil, err
		}
	}

	return &CoinflipResult{
		Outcome:    outcome,
		Won:        won,
		Amount:     stake,
		NewBalance: newBalance,
	}, nil
}

// TopWins returns the bounded largest-profit leaderboard.
func (c *Coinflip) TopWins(ctx context.Context) ([]*models.CoinflipWin, error) {
	return c.store.TopCoinflipWins(ctx)
}

func (c *Coinflip) recordWin(ctx context.Context, username string, profit int64) {
	wins, err := c.store.TopCoinflipWins(ctx)
	if err != nil {
		log.Printf("failed to load coinflip wins: %v", err)
		return
	}

	wins = append(wins, &models.CoinflipWin{
		Username: username,
		Profit:   profit,
		Date:     c.clock.Now().Format("2006-01-02"),
	})
	sort.SliceStable(wins, func(i, j int) bool {
		return wins[i].Profit > wins[j].Profit
	})
	if len(wins) > coinflipTopWins {
		wins = wins[:coinflipTopWins]
	}

	if err := c.store.SaveTopCoinflipWins(ctx, wins); err != nil {
		log.Printf("failed to save coinflip wins: %v", err)
	}
}

// ParseCoinSide validates a client-supplied side.
func ParseCoinSide(side string) (models.CoinSide, error) {
	switch models.CoinSide(side) {
	case models.CoinHeads, models.CoinTails:
		return models.CoinSide(side), nil
	}
	return "", fmt.Errorf("invalid side choice: %s", side)
}
