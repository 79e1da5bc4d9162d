package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"campus-arcade-backend/internal/models"
	"campus-arcade-backend/internal/services"
)

type LotteryHandler struct {
	lottery *services.Lottery
}

func NewLotteryHandler(lottery *services.Lottery) *LotteryHandler {
	return &LotteryHandler{lottery: lottery}
}

func (h *LotteryHandler) Status(c *gin.Context) {
	username := c.GetString("username")

	round, err := h.lottery.Status(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	yourTickets := 0
	total := 0
	for _, count := range round.Tickets {
		total += count
	}
	if round.Tickets != nil {
		yourTickets = round.Tickets[username]
	}

	c.JSON(http.StatusOK, gin.H{
		"active":        round.Active,
		"ticket_price":  round.TicketPrice,
		"prize_pool":    round.PrizePool,
		"end_time":      round.EndTime,
		"your_tickets":  yourTickets,
		"total_tickets": total,
		"participants":  len(round.Tickets),
		"last_result": gin.H{
			"winner":         round.Winner,
			"winner_tickets": round.WinnerTickets,
			"total_tickets":  round.TotalTickets,
			"won_at":         round.WonAt,
			"won_amount":     round.WonAmount,
		},
	})
}

func (h *LotteryHandler) BuyTickets(c *gin.Context) {
	username := c.GetString("username")

	var req models.LotteryPurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	round, err := h.lottery.Buy(c.Request.Context(), username, req.Count)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"your_tickets": round.Tickets[username],
		"ticket_price": round.TicketPrice,
	})
}

func (h *LotteryHandler) Create(c *gin.Context) {
	var req models.LotteryCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	round, err := h.lottery.Create(
		c.Request.Context(),
		req.TicketPrice,
		req.PrizePool,
		time.Duration(req.DurationHours)*time.Hour,
	)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"ticket_price": round.TicketPrice,
		"prize_pool":   round.PrizePool,
		"end_time":     round.EndTime,
	})
}

func (h *LotteryHandler) End(c *gin.Context) {
	round, err := h.lottery.End(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"winner":     round.Winner,
		"won_amount": round.WonAmount,
	})
}

func (h *LotteryHandler) Cancel(c *gin.Context) {
	if err := h.lottery.Cancel(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Lottery cancelled"})
}
