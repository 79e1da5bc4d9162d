package models

import "time"

type Role string

const (
	RoleMember     Role = "member"
	RoleAmbassador Role = "ambassador"
	RoleAdmin      Role = "admin"
)

type Account struct {
	Username     string    `json:"username" redis:"username"`
	PasswordHash string    `json:"password_hash" redis:"password_hash"`
	Role         Role      `json:"role" redis:"role"`
	Balance      int64     `json:"balance" redis:"balance"`
	Rank         string    `json:"rank,omitempty" redis:"rank"`
	Banned       bool      `json:"banned" redis:"banned"`
	CreatedAt    time.Time `json:"created_at" redis:"created_at"`

	// LastRankPassClaim is the calendar day (YYYY-MM-DD) of the most
	// recent rank pass reward claim.
	LastRankPassClaim string `json:"last_rank_pass_claim,omitempty" redis:"last_rank_pass_claim"`
}

// CanUsePanel reports whether the account may access panel endpoints.
func (a *Account) CanUsePanel() bool {
	return a.Role == RoleAmbassador || a.Role == RoleAdmin
}

type UserSession struct {
	Username     string    `json:"username"`
	SessionID    string    `json:"session_id"`
	CreatedAt    time.Time `json:"created_at"`
	LastAccessed time.Time `json:"last_accessed"`
}
