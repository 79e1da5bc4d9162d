package store

import (
	"context"
	"errors"
	"time"

	"campus-arcade-backend/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Store is the persistence boundary for the portal. Services depend only on
// this interface; Redis backs it in production and Memory backs the unit
// tests.
type Store interface {
	// Accounts
	GetAccount(ctx context.Context, username string) (*models.Account, error)
	SaveAccount(ctx context.Context, account *models.Account) error
	ListAccounts(ctx context.Context) ([]*models.Account, error)

	// Auth sessions
	SaveSession(ctx context.Context, session *models.UserSession, ttl time.Duration) error
	GetSession(ctx context.Context, username, sessionID string) (*models.UserSession, error)
	DeleteSession(ctx context.Context, username, sessionID string) error

	// Ledger. AppendLedgerEntry assigns the monotonic entry ID and returns
	// it; the entry log is a bounded ring (oldest entries pruned).
	AppendLedgerEntry(ctx context.Context, entry *models.LedgerEntry) (int64, error)
	LedgerHistory(ctx context.Context, account string, limit int) ([]*models.LedgerEntry, error)
	LedgerEntries(ctx context.Context, limit int) ([]*models.LedgerEntry, error)

	// Coinflip leaderboard
	TopCoinflipWins(ctx context.Context) ([]*models.CoinflipWin, error)
	SaveTopCoinflipWins(ctx context.Context, wins []*models.CoinflipWin) error

	// Tower
	GetTowerSession(ctx context.Context, username string) (*models.TowerSession, error)
	SaveTowerSession(ctx context.Context, session *models.TowerSession) error
	DeleteTowerSession(ctx context.Context, username string) error
	RecentTowerWins(ctx context.Context) ([]*models.TowerWin, error)
	SaveRecentTowerWins(ctx context.Context, wins []*models.TowerWin) error

	// Duels
	GetDuel(ctx context.Context, id string) (*models.DuelSession, error)
	SaveDuel(ctx context.Context, duel *models.DuelSession) error
	DeleteDuel(ctx context.Context, id string) error
	ListDuels(ctx context.Context) ([]*models.DuelSession, error)

	// Lottery
	GetLottery(ctx context.Context) (*models.LotteryRound, error)
	SaveLottery(ctx context.Context, round *models.LotteryRound) error
}

const (
	// LedgerGlobalCap bounds the global entry ring.
	LedgerGlobalCap = 1000
	// LedgerAccountCap bounds each account's history ring.
	LedgerAccountCap = 100
)
