package models

import "time"

// EntryKind is the accounting effect of a ledger entry on circulation.
type EntryKind string

const (
	EntryCreation    EntryKind = "creation"
	EntryDestruction EntryKind = "destruction"
	EntryTransfer    EntryKind = "transfer"
)

// LedgerEntry is a single row in the append-only token ledger. Amount is
// always positive; Kind determines the direction. Circulation is the sum of
// all account balances recorded at write time.
type LedgerEntry struct {
	ID           int64     `json:"id"`
	Kind         EntryKind `json:"kind"`
	Amount       int64     `json:"amount"`
	Account      string    `json:"account"`
	Counterparty string    `json:"counterparty,omitempty"`
	Source       string    `json:"source"`
	Timestamp    time.Time `json:"timestamp"`
	Circulation  int64     `json:"circulation"`
}
