package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"campus-arcade-backend/internal/models"
)

// RedisConfig holds configuration for the Redis-backed store.
type RedisConfig struct {
	Client *redis.Client
}

// Redis implements Store on a Redis client. Records are JSON documents;
// the ledger rings are Redis lists trimmed on every append.
type Redis struct {
	client *redis.Client
}

// NewRedis creates a Redis-backed store and verifies connectivity.
func NewRedis(cfg *RedisConfig) (*Redis, error) {
	if cfg == nil || cfg.Client == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	if err := cfg.Client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Redis{client: cfg.Client}, nil
}

func (r *Redis) getJSON(ctx context.Context, key string, dst interface{}) error {
	data, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get %s: %w", key, err)
	}

	if err := json.Unmarshal([]byte(data), dst); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}
	return nil
}

func (r *Redis) setJSON(ctx context.Context, key string, src interface{}, ttl time.Duration) error {
	data, err := json.Marshal(src)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	if err := r.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

func (r *Redis) GetAccount(ctx context.Context, username string) (*models.Account, error) {
	var account models.Account
	if err := r.getJSON(ctx, fmt.Sprintf(keyAccount, username), &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *Redis) SaveAccount(ctx context.Context, account *models.Account) error {
	data, err := json.Marshal(account)
	if err != nil {
		return fmt.Errorf("failed to marshal account: %w", err)
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, fmt.Sprintf(keyAccount, account.Username), data, 0)
	pipe.SAdd(ctx, keyAccountIndex, account.Username)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save account: %w", err)
	}
	return nil
}

func (r *Redis) ListAccounts(ctx context.Context) ([]*models.Account, error) {
	usernames, err := r.client.SMembers(ctx, keyAccountIndex).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	if len(usernames) == 0 {
		return []*models.Account{}, nil
	}

	pipe := r.client.Pipeline()
	cmds := make([]*redis.StringCmd, len(usernames))
	for i, username := range usernames {
		cmds[i] = pipe.Get(ctx, fmt.Sprintf(keyAccount, username))
	}
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}

	accounts := make([]*models.Account, 0, len(usernames))
	for _, cmd := range cmds {
		data, err := cmd.Result()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to fetch account: %w", err)
		}

		var account models.Account
		if err := json.Unmarshal([]byte(data), &account); err != nil {
			return nil, fmt.Errorf("failed to unmarshal account: %w", err)
		}
		accounts = append(accounts, &account)
	}
	return accounts, nil
}

func (r *Redis) SaveSession(ctx context.Context, session *models.UserSession, ttl time.Duration) error {
	return r.setJSON(ctx, fmt.Sprintf(keySession, session.Username, session.SessionID), session, ttl)
}

func (r *Redis) GetSession(ctx context.Context, username, sessionID string) (*models.UserSession, error) {
	var session models.UserSession
	if err := r.getJSON(ctx, fmt.Sprintf(keySession, username, sessionID), &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *Redis) DeleteSession(ctx context.Context, username, sessionID string) error {
	return r.client.Del(ctx, fmt.Sprintf(keySession, username, sessionID)).Err()
}

func (r *Redis) AppendLedgerEntry(ctx context.Context, entry *models.LedgerEntry) (int64, error) {
	id, err := r.client.Incr(ctx, keyLedgerSeq).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to allocate ledger entry id: %w", err)
	}

	stamped := *entry
	stamped.ID = id

	data, err := json.Marshal(&stamped)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal ledger entry: %w", err)
	}

	userKey := fmt.Sprintf(keyLedgerUser, entry.Account)

	pipe := r.client.Pipeline()
	pipe.LPush(ctx, keyLedgerAll, data)
	pipe.LTrim(ctx, keyLedgerAll, 0, LedgerGlobalCap-1)
	pipe.LPush(ctx, userKey, data)
	pipe.LTrim(ctx, userKey, 0, LedgerAccountCap-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to append ledger entry: %w", err)
	}

	return id, nil
}

func (r *Redis) LedgerHistory(ctx context.Context, account string, limit int) ([]*models.LedgerEntry, error) {
	return r.readEntries(ctx, fmt.Sprintf(keyLedgerUser, account), limit)
}

func (r *Redis) LedgerEntries(ctx context.Context, limit int) ([]*models.LedgerEntry, error) {
	return r.readEntries(ctx, keyLedgerAll, limit)
}

func (r *Redis) readEntries(ctx context.Context, key string, limit int) ([]*models.LedgerEntry, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit) - 1
	}

	raw, err := r.client.LRange(ctx, key, 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger entries: %w", err)
	}

	entries := make([]*models.LedgerEntry, 0, len(raw))
	for _, data := range raw {
		var entry models.LedgerEntry
		if err := json.Unmarshal([]byte(data), &entry); err != nil {
			return nil, fmt.Errorf("failed to unmarshal ledger entry: %w", err)
		}
		entries = append(entries, &entry)
	}
	return entries, nil
}

func (r *Redis) TopCoinflipWins(ctx context.Context) ([]*models.CoinflipWin, error) {
	var wins []*models.CoinflipWin
	if err := r.getJSON(ctx, keyCoinflipWins, &wins); err != nil {
		if errors.Is(err, ErrNotFound) {
			return []*models.CoinflipWin{}, nil
		}
		return nil, err
	}
	return wins, nil
}

func (r *Redis) SaveTopCoinflipWins(ctx context.Context, wins []*models.CoinflipWin) error {
	return r.setJSON(ctx, keyCoinflipWins, wins, 0)
}

func (r *Redis) GetTowerSession(ctx context.Context, username string) (*models.TowerSession, error) {
	var session models.TowerSession
	if err := r.getJSON(ctx, fmt.Sprintf(keyTowerSession, username), &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *Redis) SaveTowerSession(ctx context.Context, session *models.TowerSession) error {
	return r.setJSON(ctx, fmt.Sprintf(keyTowerSession, session.Username), session, TTLTowerSession)
}

func (r *Redis) DeleteTowerSession(ctx context.Context, username string) error {
	return r.client.Del(ctx, fmt.Sprintf(keyTowerSession, username)).Err()
}

func (r *Redis) RecentTowerWins(ctx context.Context) ([]*models.TowerWin, error) {
	var wins []*models.TowerWin
	if err := r.getJSON(ctx, keyTowerWins, &wins); err != nil {
		if errors.Is(err, ErrNotFound) {
			return []*models.TowerWin{}, nil
		}
		return nil, err
	}
	return wins, nil
}

func (r *Redis) SaveRecentTowerWins(ctx context.Context, wins []*models.TowerWin) error {
	return r.setJSON(ctx, keyTowerWins, wins, 0)
}

func (r *Redis) GetDuel(ctx context.Context, id string) (*models.DuelSession, error) {
	var duel models.DuelSession
	if err := r.getJSON(ctx, fmt.Sprintf(keyDuel, id), &duel); err != nil {
		return nil, err
	}
	return &duel, nil
}

func (r *Redis) SaveDuel(ctx context.Context, duel *models.DuelSession) error {
	data, err := json.Marshal(duel)
	if err != nil {
		return fmt.Errorf("failed to marshal duel: %w", err)
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, fmt.Sprintf(keyDuel, duel.ID), data, 0)
	pipe.SAdd(ctx, keyDuelIndex, duel.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save duel: %w", err)
	}
	return nil
}

func (r *Redis) DeleteDuel(ctx context.Context, id string) error {
	pipe := r.client.Pipeline()
	pipe.Del(ctx, fmt.Sprintf(keyDuel, id))
	pipe.SRem(ctx, keyDuelIndex, id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete duel: %w", err)
	}
	return nil
}

func (r *Redis) ListDuels(ctx context.Context) ([]*models.DuelSession, error) {
	ids, err := r.client.SMembers(ctx, keyDuelIndex).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list duels: %w", err)
	}

	duels := make([]*models.DuelSession, 0, len(ids))
	for _, id := range ids {
		duel, err := r.GetDuel(ctx, id)
		if errors.Is(err, ErrNotFound) {
			// Index entry outlived its record; drop it.
			r.client.SRem(ctx, keyDuelIndex, id)
			continue
		}
		if err != nil {
			return nil, err
		}
		duels = append(duels, duel)
	}
	return duels, nil
}

func (r *Redis) GetLottery(ctx context.Context) (*models.LotteryRound, error) {
	var round models.LotteryRound
	if err := r.getJSON(ctx, keyLottery, &round); err != nil {
		return nil, err
	}
	return &round, nil
}

func (r *Redis) SaveLottery(ctx context.Context, round *models.LotteryRound) error {
	return r.setJSON(ctx, keyLottery, round, 0)
}
