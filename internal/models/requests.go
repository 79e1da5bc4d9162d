package models

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=24,alphanum"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type CoinflipRequest struct {
	Amount int64  `json:"amount" binding:"required,min=1"`
	Side   string `json:"side" binding:"required,oneof=heads tails"`
}

type TowerStartRequest struct {
	Amount int64 `json:"amount" binding:"required,min=1"`
	Mode   int   `json:"mode" binding:"required"`
}

type TowerSelectRequest struct {
	Level int `json:"level"`
	Tile  int `json:"tile"`
}

type SendTokensRequest struct {
	To     string `json:"to" binding:"required"`
	Amount int64  `json:"amount" binding:"required,min=1"`
}

type DuelInviteRequest struct {
	Opponent string `json:"opponent" binding:"required"`
	Stake    int64  `json:"stake" binding:"required,min=1"`
}

type DuelReplyRequest struct {
	Opponent string `json:"opponent" binding:"required"`
}

type DuelMoveRequest struct {
	Move string `json:"move" binding:"required,oneof=rock paper scissors"`
}

type LotteryCreateRequest struct {
	TicketPrice   int64 `json:"ticket_price" binding:"required,min=1"`
	PrizePool     int64 `json:"prize_pool" binding:"required,min=1"`
	DurationHours int   `json:"duration_hours" binding:"required,min=1"`
}

type LotteryPurchaseRequest struct {
	Count int `json:"count" binding:"required,min=1"`
}

type AdjustTokensRequest struct {
	// Amount is signed: positive credits, negative debits.
	Amount int64  `json:"amount" binding:"required"`
	Reason string `json:"reason"`
}
