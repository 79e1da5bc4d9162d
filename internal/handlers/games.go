package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"campus-arcade-backend/internal/models"
	"campus-arcade-backend/internal/services"
)

type GameHandler struct {
	coinflip *services.Coinflip
	tower    *services.Tower
}

func NewGameHandler(coinflip *services.Coinflip, tower *services.Tower) *GameHandler {
	return &GameHandler{coinflip: coinflip, tower: tower}
}

func (h *GameHandler) PlayCoinflip(c *gin.Context) {
	username := c.GetString("username")

	var req models.CoinflipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	side, err := services.ParseCoinSide(req.Side)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.coinflip.Play(c.Request.Context(), username, req.Amount, side)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *GameHandler) CoinflipTopWins(c *gin.Context) {
	wins, err := h.coinflip.TopWins(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"top_wins": wins})
}

func (h *GameHandler) StartTower(c *gin.Context) {
	username := c.GetString("username")

	var req models.TowerStartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	result, err := h.tower.Start(c.Request.Context(), username, req.Amount, req.Mode)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *GameHandler) SelectTowerTile(c *gin.Context) {
	username := c.GetString("username")

	var req models.TowerSelectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	result, err := h.tower.Select(c.Request.Context(), username, req.Level, req.Tile)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *GameHandler) CashOutTower(c *gin.Context) {
	username := c.GetString("username")

	result, err := h.tower.CashOut(c.Request.Context(), username)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *GameHandler) TowerRecentWins(c *gin.Context) {
	wins, err := h.tower.RecentWins(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recent_wins": wins})
}
