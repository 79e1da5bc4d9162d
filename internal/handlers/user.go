package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"campus-arcade-backend/internal/services"
	"campus-arcade-backend/internal/store"
)

type UserHandler struct {
	auth  *services.Auth
	store store.Store
}

func NewUserHandler(auth *services.Auth, st store.Store) *UserHandler {
	return &UserHandler{auth: auth, store: st}
}

func (h *UserHandler) GetCurrentUser(c *gin.Context) {
	username := c.GetString("username")
	sessionID := c.GetString("session_id")

	if _, err := h.store.GetSession(c.Request.Context(), username, sessionID); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session expired or invalid"})
		return
	}

	account, err := h.store.GetAccount(c.Request.Context(), username)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"username":     account.Username,
		"role":         account.Role,
		"balance":      account.Balance,
		"rank":         account.Rank,
		"banned":       account.Banned,
		"panel_access": account.CanUsePanel(),
		"created_at":   account.CreatedAt,
	})
}

func (h *UserHandler) Logout(c *gin.Context) {
	username := c.GetString("username")
	sessionID := c.GetString("session_id")

	if err := h.auth.Logout(c.Request.Context(), username, sessionID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to logout"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Successfully logged out"})
}
