package handlers

import (
	"net/http"
	"sort"
	"strconv"

	"github.com/gin-gonic/gin"

	"campus-arcade-backend/internal/models"
	"campus-arcade-backend/internal/services"
	"campus-arcade-backend/internal/store"
)

const leaderboardSize = 5

type TokenHandler struct {
	ledger *services.Ledger
	store  store.Store
}

func NewTokenHandler(ledger *services.Ledger, st store.Store) *TokenHandler {
	return &TokenHandler{ledger: ledger, store: st}
}

func (h *TokenHandler) Balance(c *gin.Context) {
	username := c.GetString("username")

	balance, err := h.ledger.BalanceOf(c.Request.Context(), username)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"balance": balance})
}

func (h *TokenHandler) History(c *gin.Context) {
	username := c.GetString("username")

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	entries, err := h.ledger.HistoryOf(c.Request.Context(), username, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

func (h *TokenHandler) Send(c *gin.Context) {
	username := c.GetString("username")

	var req models.SendTokensRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	newBalance, err := h.ledger.Transfer(c.Request.Context(), username, req.To, req.Amount, "gift")
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sent":        req.Amount,
		"to":          req.To,
		"new_balance": newBalance,
	})
}

// Leaderboard returns the richest accounts by current balance.
func (h *TokenHandler) Leaderboard(c *gin.Context) {
	accounts, err := h.store.ListAccounts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	sort.Slice(accounts, func(i, j int) bool {
		if accounts[i].Balance != accounts[j].Balance {
			return accounts[i].Balance > accounts[j].Balance
		}
		return accounts[i].Username < accounts[j].Username
	})
	if len(accounts) > leaderboardSize {
		accounts = accounts[:leaderboardSize]
	}

	leaders := make([]gin.H, 0, len(accounts))
	for _, account := range accounts {
		leaders = append(leaders, gin.H{
			"username": account.Username,
			"balance":  account.Balance,
			"rank":     account.Rank,
		})
	}

	c.JSON(http.StatusOK, gin.H{"leaderboard": leaders})
}
