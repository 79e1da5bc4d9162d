package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"campus-arcade-backend/internal/models"
	"campus-arcade-backend/internal/services"
)

type AdminHandler struct {
	admin *services.Admin
}

func NewAdminHandler(admin *services.Admin) *AdminHandler {
	return &AdminHandler{admin: admin}
}

func (h *AdminHandler) AdjustTokens(c *gin.Context) {
	username := c.Param("username")

	var req models.AdjustTokensRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	newBalance, err := h.admin.AdjustTokens(c.Request.Context(), username, req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"username":    username,
		"adjustment":  req.Amount,
		"new_balance": newBalance,
	})
}

func (h *AdminHandler) Ban(c *gin.Context) {
	h.setBanned(c, true)
}

func (h *AdminHandler) Unban(c *gin.Context) {
	h.setBanned(c, false)
}

func (h *AdminHandler) setBanned(c *gin.Context, banned bool) {
	username := c.Param("username")

	if err := h.admin.SetBanned(c.Request.Context(), username, banned); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"username": username,
		"banned":   banned,
	})
}

func (h *AdminHandler) SetRole(c *gin.Context) {
	username := c.Param("username")

	var req struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if err := h.admin.SetRole(c.Request.Context(), username, models.Role(req.Role)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"username": username,
		"role":     req.Role,
	})
}

// AuditLog exposes the global ledger ring for moderation review.
func (h *AdminHandler) AuditLog(c *gin.Context) {
	limit := 100
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	entries, err := h.admin.AuditLog(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": entries})
}
