package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"campus-arcade-backend/internal/models"
)

// Memory is an in-memory Store used by unit tests and local development.
// Records are deep-copied through JSON on the way in and out so callers
// never alias stored state.
type Memory struct {
	mu sync.RWMutex

	accounts      map[string]*models.Account
	sessions      map[string]*models.UserSession
	entrySeq      int64
	entries       []*models.LedgerEntry
	userEntries   map[string][]*models.LedgerEntry
	coinflipWins  []*models.CoinflipWin
	towerSessions map[string]*models.TowerSession
	towerWins     []*models.TowerWin
	duels         map[string]*models.DuelSession
	lottery       *models.LotteryRound
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		accounts:      make(map[string]*models.Account),
		sessions:      make(map[string]*models.UserSession),
		userEntries:   make(map[string][]*models.LedgerEntry),
		towerSessions: make(map[string]*models.TowerSession),
		duels:         make(map[string]*models.DuelSession),
	}
}

func deepCopy[T any](src *T) (*T, error) {
	data, err := json.Marshal(src)
	if err != nil {
		return nil, fmt.Errorf("failed to copy record: %w", err)
	}
	dst := new(T)
	if err := json.Unmarshal(data, dst); err != nil {
		return nil, fmt.Errorf("failed to copy record: %w", err)
	}
	return dst, nil
}

func (m *Memory) GetAccount(_ context.Context, username string) (*models.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	account, ok := m.accounts[username]
	if !ok {
		return nil, ErrNotFound
	}
	return deepCopy(account)
}

func (m *Memory) SaveAccount(_ context.Context, account *models.Account) error {
	copied, err := deepCopy(account)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.Username] = copied
	return nil
}

func (m *Memory) ListAccounts(_ context.Context) ([]*models.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	accounts := make([]*models.Account, 0, len(m.accounts))
	for _, account := range m.accounts {
		copied, err := deepCopy(account)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, copied)
	}
	return accounts, nil
}

func sessionKey(username, sessionID string) string {
	return username + ":" + sessionID
}

func (m *Memory) SaveSession(_ context.Context, session *models.UserSession, _ time.Duration) error {
	copied, err := deepCopy(session)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sessionKey(session.Username, session.SessionID)] = copied
	return nil
}

func (m *Memory) GetSession(_ context.Context, username, sessionID string) (*models.UserSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, ok := m.sessions[sessionKey(username, sessionID)]
	if !ok {
		return nil, ErrNotFound
	}
	return deepCopy(session)
}

func (m *Memory) DeleteSession(_ context.Context, username, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionKey(username, sessionID))
	return nil
}

func (m *Memory) AppendLedgerEntry(_ context.Context, entry *models.LedgerEntry) (int64, error) {
	copied, err := deepCopy(entry)
	if err != nil {
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.entrySeq++
	copied.ID = m.entrySeq

	m.entries = append([]*models.LedgerEntry{copied}, m.entries...)
	if len(m.entries) > LedgerGlobalCap {
		m.entries = m.entries[:LedgerGlobalCap]
	}

	history := append([]*models.LedgerEntry{copied}, m.userEntries[entry.Account]...)
	if len(history) > LedgerAccountCap {
		history = history[:LedgerAccountCap]
	}
	m.userEntries[entry.Account] = history

	return copied.ID, nil
}

func (m *Memory) LedgerHistory(_ context.Context, account string, limit int) ([]*models.LedgerEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return copyEntries(m.userEntries[account], limit)
}

func (m *Memory) LedgerEntries(_ context.Context, limit int) ([]*models.LedgerEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return copyEntries(m.entries, limit)
}

func copyEntries(entries []*models.LedgerEntry, limit int) ([]*models.LedgerEntry, error) {
	if limit <= 0 || limit > len(entries) {
		limit = len(entries)
	}
	out := make([]*models.LedgerEntry, 0, limit)
	for _, entry := range entries[:limit] {
		copied, err := deepCopy(entry)
		if err != nil {
			return nil, err
		}
		out = append(out, copied)
	}
	return out, nil
}

func (m *Memory) TopCoinflipWins(_ context.Context) ([]*models.CoinflipWin, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	wins := make([]*models.CoinflipWin, 0, len(m.coinflipWins))
	for _, win := range m.coinflipWins {
		copied, err := deepCopy(win)
		if err != nil {
			return nil, err
		}
		wins = append(wins, copied)
	}
	return wins, nil
}

func (m *Memory) SaveTopCoinflipWins(_ context.Context, wins []*models.CoinflipWin) error {
	copied := make([]*models.CoinflipWin, 0, len(wins))
	for _, win := range wins {
		c, err := deepCopy(win)
		if err != nil {
			return err
		}
		copied = append(copied, c)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.coinflipWins = copied
	return nil
}

func (m *Memory) GetTowerSession(_ context.Context, username string) (*models.TowerSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, ok := m.towerSessions[username]
	if !ok {
		return nil, ErrNotFound
	}
	return deepCopy(session)
}

func (m *Memory) SaveTowerSession(_ context.Context, session *models.TowerSession) error {
	copied, err := deepCopy(session)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.towerSessions[session.Username] = copied
	return nil
}

func (m *Memory) DeleteTowerSession(_ context.Context, username string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.towerSessions, username)
	return nil
}

func (m *Memory) RecentTowerWins(_ context.Context) ([]*models.TowerWin, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	wins := make([]*models.TowerWin, 0, len(m.towerWins))
	for _, win := range m.towerWins {
		copied, err := deepCopy(win)
		if err != nil {
			return nil, err
		}
		wins = append(wins, copied)
	}
	return wins, nil
}

func (m *Memory) SaveRecentTowerWins(_ context.Context, wins []*models.TowerWin) error {
	copied := make([]*models.TowerWin, 0, len(wins))
	for _, win := range wins {
		c, err := deepCopy(win)
		if err != nil {
			return err
		}
		copied = append(copied, c)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.towerWins = copied
	return nil
}

func (m *Memory) GetDuel(_ context.Context, id string) (*models.DuelSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	duel, ok := m.duels[id]
	if !ok {
		return nil, ErrNotFound
	}
	return deepCopy(duel)
}

func (m *Memory) SaveDuel(_ context.Context, duel *models.DuelSession) error {
	copied, err := deepCopy(duel)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.duels[duel.ID] = copied
	return nil
}

func (m *Memory) DeleteDuel(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.duels, id)
	return nil
}

func (m *Memory) ListDuels(_ context.Context) ([]*models.DuelSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	duels := make([]*models.DuelSession, 0, len(m.duels))
	for _, duel := range m.duels {
		copied, err := deepCopy(duel)
		if err != nil {
			return nil, err
		}
		duels = append(duels, copied)
	}
	return duels, nil
}

func (m *Memory) GetLottery(_ context.Context) (*models.LotteryRound, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.lottery == nil {
		return nil, ErrNotFound
	}
	return deepCopy(m.lottery)
}

func (m *Memory) SaveLottery(_ context.Context, round *models.LotteryRound) error {
	copied, err := deepCopy(round)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.lottery = copied
	return nil
}
