package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"campus-arcade-backend/internal/clock"
	"campus-arcade-backend/internal/models"
	"campus-arcade-backend/internal/store"
)

var (
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrAccountNotFound   = errors.New("account not found")
)

// Ledger owns every token balance mutation. All three operations run under
// one mutex so a balance check and the mutation it guards are a single
// atomic unit; no caller can interleave between them.
type Ledger struct {
	mu    sync.Mutex
	store store.Store
	clock clock.Clock
}

func NewLedger(st store.Store, clk clock.Clock) *Ledger {
	return &Ledger{store: st, clock: clk}
}

// Credit mints amount tokens into the account and logs a creation entry.
// Returns the new balance.
func (l *Ledger) Credit(ctx context.Context, account string, amount int64, source string) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	acct, err := l.getAccount(ctx, account)
	if err != nil {
		return 0, err
	}

	previous := acct.Balance
	acct.Balance += amount
	if err := l.store.SaveAccount(ctx, acct); err != nil {
		return 0, fmt.Errorf("failed to save account: %v", err)
	}

	if err := l.appendEntry(ctx, &models.LedgerEntry{
		Kind:    models.EntryCreation,
		Amount:  amount,
		Account: account,
		Source:  source,
	}); err != nil {
		l.rollbackBalance(ctx, acct, previous)
		return 0, err
	}

	return acct.Balance, nil
}

// Debit burns amount tokens from the account and logs a destruction entry.
func (l *Ledger) Debit(ctx context.Context, account string, amount int64, source string) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	acct, err := l.getAccount(ctx, account)
	if err != nil {
		return 0, err
	}
	if acct.Balance < amount {
		return 0, ErrInsufficientFunds
	}

	previous := acct.Balance
	acct.Balance -= amount
	if err := l.store.SaveAccount(ctx, acct); err != nil {
		return 0, fmt.Errorf("failed to save account: %v", err)
	}

	if err := l.appendEntry(ctx, &models.LedgerEntry{
		Kind:    models.EntryDestruction,
		Amount:  amount,
		Account: account,
		Source:  source,
	}); err != nil {
		l.rollbackBalance(ctx, acct, previous)
		return 0, err
	}

	return acct.Balance, nil
}

// Transfer moves amount tokens between two accounts as one logical
// operation and logs a single transfer entry (net zero circulation change).
// Returns the sender's new balance.
func (l *Ledger) Transfer(ctx context.Context, from, to string, amount int64, source string) (int64, error) {
	if amount <= 0 || from == to {
		return 0, ErrInvalidAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	sender, err := l.getAccount(ctx, from)
	if err != nil {
		return 0, err
	}
	receiver, err := l.getAccount(ctx, to)
	if err != nil {
		return 0, err
	}
	if sender.Balance < amount {
		return 0, ErrInsufficientFunds
	}

	senderPrevious := sender.Balance
	sender.Balance -= amount
	receiver.Balance += amount

	if err := l.store.SaveAccount(ctx, sender); err != nil {
		return 0, fmt.Errorf("failed to save sender: %v", err)
	}
	if err := l.store.SaveAccount(ctx, receiver); err != nil {
		l.rollbackBalance(ctx, sender, senderPrevious)
		return 0, fmt.Errorf("failed to save receiver: %v", err)
	}

	if err := l.appendEntry(ctx, &models.LedgerEntry{
		Kind:         models.EntryTransfer,
		Amount:       amount,
		Account:      from,
		Counterparty: to,
		Source:       source,
	}); err != nil {
		l.rollbackBalance(ctx, sender, senderPrevious)
		l.rollbackBalance(ctx, receiver, receiver.Balance-amount)
		return 0, err
	}

	return sender.Balance, nil
}

func (l *Ledger) BalanceOf(ctx context.Context, account string) (int64, error) {
	acct, err := l.getAccount(ctx, account)
	if err != nil {
		return 0, err
	}
	return acct.Balance, nil
}

func (l *Ledger) HistoryOf(ctx context.Context, account string, limit int) ([]*models.LedgerEntry, error) {
	return l.store.LedgerHistory(ctx, account, limit)
}

// Circulation returns the current sum of all account balances.
func (l *Ledger) Circulation(ctx context.Context) (int64, error) {
	accounts, err := l.store.ListAccounts(ctx)
	if err != nil {
		return 0, err
	}
	var total int64
	for _, acct := range accounts {
		total += acct.Balance
	}
	return total, nil
}

func (l *Ledger) getAccount(ctx context.Context, username string) (*models.Account, error) {
	acct, err := l.store.GetAccount(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return acct, nil
}

func (l *Ledger) appendEntry(ctx context.Context, entry *models.LedgerEntry) error {
	circulation, err := l.Circulation(ctx)
	if err != nil {
		return fmt.Errorf("failed to snapshot circulation: %v", err)
	}

	entry.Timestamp = l.clock.Now()
	entry.Circulation = circulation

	if _, err := l.store.AppendLedgerEntry(ctx, entry); err != nil {
		return fmt.Errorf("failed to append ledger entry: %v", err)
	}
	return nil
}

// rollbackBalance restores a balance after a failed entry append so no
// balance change is ever visible without its ledger entry.
func (l *Ledger) rollbackBalance(ctx context.Context, acct *models.Account, previous int64) {
	acct.Balance = previous
	// Best effort; the store just accepted a write for this account.
	_ = l.store.SaveAccount(ctx, acct)
}
