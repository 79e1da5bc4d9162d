package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"campus-arcade-backend/internal/clock"
	"campus-arcade-backend/internal/models"
	"campus-arcade-backend/internal/store"
)

var (
	ErrRankUnknown    = errors.New("unknown rank")
	ErrRankOutOfOrder = errors.New("ranks must be purchased in order")
	ErrNoRank         = errors.New("no rank owned")
	ErrAlreadyClaimed = errors.New("reward already claimed today")
)

// Shop sells the rank ladder and pays out the daily rank pass. Ranks must be
// bought in ladder order; each rank grants one reward claim per calendar day.
type Shop struct {
	ledger *Ledger
	store  store.Store
	clock  clock.Clock

	// mu serializes purchases and claims so the ladder check and the daily
	// claim check each see the state they mutate.
	mu sync.Mutex
}

func NewShop(ledger *Ledger, st store.Store, clk clock.Clock) *Shop {
	return &Shop{ledger: ledger, store: st, clock: clk}
}

type RankStatus struct {
	Rank         string `json:"rank,omitempty"`
	NextRank     string `json:"next_rank,omitempty"`
	DailyReward  int64  `json:"daily_reward,omitempty"`
	ClaimedToday bool   `json:"claimed_today"`
}

// PurchaseRank buys the next rank on the ladder. Skipping ahead is rejected.
func (s *Shop) PurchaseRank(ctx context.Context, username, rankID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rank, ok := models.RankByID(rankID)
	if !ok {
		return 0, ErrRankUnknown
	}

	account, err := s.getAccount(ctx, username)
	if err != nil {
		return 0, err
	}

	currentIndex := -1
	if account.Rank != "" {
		currentIndex = models.RankIndex(account.Rank)
	}
	if models.RankIndex(rankID) != currentIndex+1 {
		return 0, ErrRankOutOfOrder
	}

	newBalance, err := s.ledger.Debit(ctx, username, rank.Price, "rank_purchase")
	if err != nil {
		return 0, err
	}

	// Re-read so the rank change lands on the post-debit balance.
	account, err = s.getAccount(ctx, username)
	if err != nil {
		return 0, err
	}
	account.Rank = rankID
	if err := s.store.SaveAccount(ctx, account); err != nil {
		return 0, fmt.Errorf("failed to save account: %v", err)
	}

	return newBalance, nil
}

// ClaimRankPass pays the daily reward for the caller's rank, at most once
// per calendar day.
func (s *Shop) ClaimRankPass(ctx context.Context, username string) (int64, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, err := s.getAccount(ctx, username)
	if err != nil {
		return 0, 0, err
	}
	rank, ok := models.RankByID(account.Rank)
	if !ok {
		return 0, 0, ErrNoRank
	}

	today := s.clock.Now().Format("2006-01-02")
	if account.LastRankPassClaim == today {
		return 0, 0, ErrAlreadyClaimed
	}

	prevClaim := account.LastRankPassClaim
	account.LastRankPassClaim = today
	if err := s.store.SaveAccount(ctx, account); err != nil {
		return 0, 0, fmt.Errorf("failed to save account: %v", err)
	}

	newBalance, err := s.ledger.Credit(ctx, username, rank.DailyReward, "rank_pass")
	if err != nil {
		// The claim was recorded but the reward never landed; put the
		// claim back so the player can retry.
		account.LastRankPassClaim = prevClaim
		if saveErr := s.store.SaveAccount(ctx, account); saveErr != nil {
			log.Printf("Failed to restore rank pass claim for %s: %v", username, saveErr)
		}
		return 0, 0, err
	}
	return rank.DailyReward, newBalance, nil
}

// Status reports the caller's rank, the next rank for sale, and whether
// today's reward is spent.
func (s *Shop) Status(ctx context.Context, username string) (*RankStatus, error) {
	account, err := s.getAccount(ctx, username)
	if err != nil {
		return nil, err
	}

	status := &RankStatus{Rank: account.Rank}
	if rank, ok := models.RankByID(account.Rank); ok {
		status.DailyReward = rank.DailyReward
		status.ClaimedToday = account.LastRankPassClaim == s.clock.Now().Format("2006-01-02")
	}

	nextIndex := models.RankIndex(account.Rank) + 1
	if account.Rank == "" {
		nextIndex = 0
	}
	if nextIndex >= 0 && nextIndex < len(models.Ranks) {
		status.NextRank = models.Ranks[nextIndex].ID
	}
	return status, nil
}

func (s *Shop) getAccount(ctx context.Context, username string) (*models.Account, error) {
	account, err := s.store.GetAccount(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return account, nil
}
