package models

type CoinSide string

const (
	CoinHeads CoinSide = "heads"
	CoinTails CoinSide = "tails"
)

// CoinflipWin is one entry in the bounded top-wins leaderboard.
type CoinflipWin struct {
	Username string `json:"username"`
	Profit   int64  `json:"profit"`
	Date     string `json:"date"`
}
