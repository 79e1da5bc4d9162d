package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"campus-arcade-backend/internal/models"
	"campus-arcade-backend/internal/services"
)

type ShopHandler struct {
	shop *services.Shop
}

func NewShopHandler(shop *services.Shop) *ShopHandler {
	return &ShopHandler{shop: shop}
}

func (h *ShopHandler) ListRanks(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ranks": models.Ranks})
}

func (h *ShopHandler) PurchaseRank(c *gin.Context) {
	username := c.GetString("username")

	var req struct {
		Rank string `json:"rank" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	newBalance, err := h.shop.PurchaseRank(c.Request.Context(), username, req.Rank)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"rank":        req.Rank,
		"new_balance": newBalance,
	})
}

func (h *ShopHandler) ClaimRankPass(c *gin.Context) {
	username := c.GetString("username")

	reward, newBalance, err := h.shop.ClaimRankPass(c.Request.Context(), username)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reward":      reward,
		"new_balance": newBalance,
	})
}

func (h *ShopHandler) RankPassStatus(c *gin.Context) {
	username := c.GetString("username")

	status, err := h.shop.Status(c.Request.Context(), username)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, status)
}
