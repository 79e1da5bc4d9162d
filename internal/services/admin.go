package services

import (
	"context"
	"errors"
	"fmt"

	"campus-arcade-backend/internal/models"
	"campus-arcade-backend/internal/store"
)

var ErrInvalidRole = errors.New("invalid role")

// Admin bundles the moderation operations behind the admin routes.
type Admin struct {
	ledger *Ledger
	store  store.Store
}

func NewAdmin(ledger *Ledger, st store.Store) *Admin {
	return &Admin{ledger: ledger, store: st}
}

// AdjustTokens grants (positive) or confiscates (negative) tokens. A
// confiscation larger than the balance fails rather than overdrafting.
func (a *Admin) AdjustTokens(ctx context.Context, username string, amount int64) (int64, error) {
	if amount > 0 {
		return a.ledger.Credit(ctx, username, amount, "admin_adjust")
	}
	return a.ledger.Debit(ctx, username, -amount, "admin_adjust")
}

// SetBanned flips the ban flag. Banned accounts keep their balance but
// cannot log in.
func (a *Admin) SetBanned(ctx context.Context, username string, banned bool) error {
	account, err := a.getAccount(ctx, username)
	if err != nil {
		return err
	}
	account.Banned = banned
	if err := a.store.SaveAccount(ctx, account); err != nil {
		return fmt.Errorf("failed to save account: %v", err)
	}
	return nil
}

// SetRole changes an account's role.
func (a *Admin) SetRole(ctx context.Context, username string, role models.Role) error {
	switch role {
	case models.RoleMember, models.RoleAmbassador, models.RoleAdmin:
	default:
		return ErrInvalidRole
	}

	account, err := a.getAccount(ctx, username)
	if err != nil {
		return err
	}
	account.Role = role
	if err := a.store.SaveAccount(ctx, account); err != nil {
		return fmt.Errorf("failed to save account: %v", err)
	}
	return nil
}

// AuditLog returns the most recent global ledger entries.
func (a *Admin) AuditLog(ctx context.Context, limit int) ([]*models.LedgerEntry, error) {
	return a.store.LedgerEntries(ctx, limit)
}

func (a *Admin) getAccount(ctx context.Context, username string) (*models.Account, error) {
	account, err := a.store.GetAccount(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return account, nil
}
