package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"campus-arcade-backend/internal/services"
	"campus-arcade-backend/internal/store"
)

// respondError maps service errors onto HTTP statuses. Unknown errors are
// treated as server faults and their detail is not leaked to the client.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrAccountNotFound),
		errors.Is(err, services.ErrDuelNotFound),
		errors.Is(err, services.ErrNoActiveSession),
		errors.Is(err, services.ErrLotteryNotActive),
		errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})

	case errors.Is(err, services.ErrBanned),
		errors.Is(err, services.ErrNotInvitedPlayer):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})

	case errors.Is(err, services.ErrUsernameTaken),
		errors.Is(err, services.ErrAlreadyInDuel),
		errors.Is(err, services.ErrAlreadyMoved),
		errors.Is(err, services.ErrLotteryActive),
		errors.Is(err, services.ErrAlreadyClaimed):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})

	case errors.Is(err, services.ErrInvalidAmount),
		errors.Is(err, services.ErrInsufficientFunds),
		errors.Is(err, services.ErrInvalidStake),
		errors.Is(err, services.ErrInvalidMode),
		errors.Is(err, services.ErrLevelMismatch),
		errors.Is(err, services.ErrMinimumLevel),
		errors.Is(err, services.ErrSelfDuel),
		errors.Is(err, services.ErrDuelNotActive),
		errors.Is(err, services.ErrInvalidMove),
		errors.Is(err, services.ErrInvalidTicketCount),
		errors.Is(err, services.ErrInvalidLottery),
		errors.Is(err, services.ErrRankUnknown),
		errors.Is(err, services.ErrRankOutOfOrder),
		errors.Is(err, services.ErrNoRank),
		errors.Is(err, services.ErrInvalidRole):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
