package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"campus-arcade-backend/internal/models"
	"campus-arcade-backend/internal/services"
)

type DuelHandler struct {
	duels *services.DuelManager
}

func NewDuelHandler(duels *services.DuelManager) *DuelHandler {
	return &DuelHandler{duels: duels}
}

func (h *DuelHandler) Invite(c *gin.Context) {
	username := c.GetString("username")

	var req models.DuelInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	view, err := h.duels.Invite(c.Request.Context(), username, req.Opponent, req.Stake)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, view)
}

func (h *DuelHandler) Accept(c *gin.Context) {
	username := c.GetString("username")

	var req models.DuelReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	view, err := h.duels.Accept(c.Request.Context(), username, req.Opponent)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *DuelHandler) Decline(c *gin.Context) {
	username := c.GetString("username")

	var req models.DuelReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if err := h.duels.Decline(c.Request.Context(), username, req.Opponent); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Invite declined"})
}

func (h *DuelHandler) Move(c *gin.Context) {
	username := c.GetString("username")

	var req models.DuelMoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	view, err := h.duels.Move(c.Request.Context(), username, models.Move(req.Move))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *DuelHandler) State(c *gin.Context) {
	username := c.GetString("username")

	view, err := h.duels.State(c.Request.Context(), username)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}
