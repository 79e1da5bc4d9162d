package models

import "time"

// LotteryRound is the single (at most one active) lottery. The prize pool is
// fixed by an administrator and is deliberately disjoint from ticket
// revenue: ticket purchases destroy tokens, the payout creates them.
type LotteryRound struct {
	Active      bool           `json:"active"`
	TicketPrice int64          `json:"ticket_price"`
	PrizePool   int64          `json:"prize_pool"`
	EndTime     time.Time      `json:"end_time,omitempty"`
	CreatedAt   time.Time      `json:"created_at,omitempty"`
	Tickets     map[string]int `json:"tickets,omitempty"`

	// Result of the most recently resolved round.
	Winner        string    `json:"winner,omitempty"`
	WinnerTickets int       `json:"winner_tickets,omitempty"`
	TotalTickets  int       `json:"total_tickets,omitempty"`
	WonAt         time.Time `json:"won_at,omitempty"`
	WonAmount     int64     `json:"won_amount,omitempty"`
}
