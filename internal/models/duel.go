package models

import (
	"strings"
	"time"
)

type DuelStatus string

const (
	DuelPending   DuelStatus = "pending"
	DuelActive    DuelStatus = "active"
	DuelCompleted DuelStatus = "completed"
)

type Move string

const (
	MoveRock     Move = "rock"
	MovePaper    Move = "paper"
	MoveScissors Move = "scissors"
)

// Beats reports whether m wins against other under standard precedence.
func (m Move) Beats(other Move) bool {
	switch m {
	case MoveRock:
		return other == MoveScissors
	case MovePaper:
		return other == MoveRock
	case MoveScissors:
		return other == MovePaper
	}
	return false
}

func ValidMove(m Move) bool {
	return m == MoveRock || m == MovePaper || m == MoveScissors
}

// DuelKey builds the order-independent session key for a pair of players.
func DuelKey(a, b string) string {
	if strings.Compare(a, b) > 0 {
		a, b = b, a
	}
	return a + ":" + b
}

// DuelRound is one resolved round. Winner is empty for a tie.
type DuelRound struct {
	Round  int    `json:"round"`
	MoveA  Move   `json:"move_a"`
	MoveB  Move   `json:"move_b"`
	Winner string `json:"winner,omitempty"`
}

// DuelSession is a best-of-5 rock-paper-scissors contest between two
// players. PlayerA is always the inviter.
type DuelSession struct {
	ID      string     `json:"id"`
	PlayerA string     `json:"player_a"`
	PlayerB string     `json:"player_b"`
	Stake   int64      `json:"stake"`
	Status  DuelStatus `json:"status"`

	WinsA   int         `json:"wins_a"`
	WinsB   int         `json:"wins_b"`
	Round   int         `json:"round"`
	MoveA   Move        `json:"move_a,omitempty"`
	MoveB   Move        `json:"move_b,omitempty"`
	History []DuelRound `json:"history,omitempty"`

	InviteTime   time.Time `json:"invite_time"`
	LastMoveTime time.Time `json:"last_move_time,omitempty"`
	CompletedAt  time.Time `json:"completed_at,omitempty"`
	Winner       string    `json:"winner,omitempty"`
	TimeoutWin   bool      `json:"timeout_win,omitempty"`
}

func (d *DuelSession) HasPlayer(username string) bool {
	return d.PlayerA == username || d.PlayerB == username
}

func (d *DuelSession) Opponent(username string) string {
	if d.PlayerA == username {
		return d.PlayerB
	}
	return d.PlayerA
}

func (d *DuelSession) MoveOf(username string) Move {
	if d.PlayerA == username {
		return d.MoveA
	}
	return d.MoveB
}

func (d *DuelSession) SetMove(username string, m Move) {
	if d.PlayerA == username {
		d.MoveA = m
	} else {
		d.MoveB = m
	}
}

func (d *DuelSession) Wins(username string) int {
	if d.PlayerA == username {
		return d.WinsA
	}
	return d.WinsB
}

// DuelView is the client-facing projection of a session. The opponent's
// unresolved move is reduced to a has-moved marker; the literal choice only
// ever appears in History once a round has resolved.
type DuelView struct {
	ID            string      `json:"id"`
	Opponent      string      `json:"opponent"`
	Invited       bool        `json:"invited"`
	Stake         int64       `json:"stake"`
	Status        DuelStatus  `json:"status"`
	Round         int         `json:"round"`
	YourWins      int         `json:"your_wins"`
	OpponentWins  int         `json:"opponent_wins"`
	YourMove      Move        `json:"your_move,omitempty"`
	OpponentMoved bool        `json:"opponent_moved"`
	History       []DuelRound `json:"history,omitempty"`
	Winner        string      `json:"winner,omitempty"`
	TimeoutWin    bool        `json:"timeout_win,omitempty"`
}

// View projects the session for one participant, masking the opponent's
// in-flight move.
func (d *DuelSession) View(viewer string) *DuelView {
	opponent := d.Opponent(viewer)
	return &DuelView{
		ID:            d.ID,
		Opponent:      opponent,
		Invited:       d.PlayerB == viewer,
		Stake:         d.Stake,
		Status:        d.Status,
		Round:         d.Round,
		YourWins:      d.Wins(viewer),
		OpponentWins:  d.Wins(opponent),
		YourMove:      d.MoveOf(viewer),
		OpponentMoved: d.MoveOf(opponent) != "",
		History:       d.History,
		Winner:        d.Winner,
		TimeoutWin:    d.TimeoutWin,
	}
}
