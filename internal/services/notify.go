package services

import "campus-arcade-backend/internal/models"

// Broadcaster pushes out-of-band events to connected clients. Implementations
// must tolerate the target not being connected.
type Broadcaster interface {
	NotifyDuelInvite(to, from string, stake int64)
	NotifyDuelUpdate(username string, view *models.DuelView)
	NotifyLotteryResult(winner string, prize int64)
}

// NopBroadcaster discards every notification. Used in tests and anywhere a
// live hub is not wired.
type NopBroadcaster struct{}

func (NopBroadcaster) NotifyDuelInvite(string, string, int64)    {}
func (NopBroadcaster) NotifyDuelUpdate(string, *models.DuelView) {}
func (NopBroadcaster) NotifyLotteryResult(string, int64)         {}
