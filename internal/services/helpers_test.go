package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"campus-arcade-backend/internal/clock"
	"campus-arcade-backend/internal/models"
	"campus-arcade-backend/internal/store"
)

// scriptedRand replays a fixed sequence of draws so game outcomes are
// deterministic under test.
type scriptedRand struct {
	ints   []int
	floats []float64
}

func (r *scriptedRand) Intn(n int) int {
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[0]
	r.ints = r.ints[1:]
	return v % n
}

func (r *scriptedRand) Float64() float64 {
	if len(r.floats) == 0 {
		return 0
	}
	v := r.floats[0]
	r.floats = r.floats[1:]
	return v
}

func testClock() *clock.Fake {
	return &clock.Fake{Current: time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)}
}

func seedAccount(t *testing.T, st store.Store, username string, balance int64) {
	t.Helper()
	err := st.SaveAccount(context.Background(), &models.Account{
		Username: username,
		Role:     models.RoleMember,
		Balance:  balance,
	})
	require.NoError(t, err)
}

func balanceOf(t *testing.T, st store.Store, username string) int64 {
	t.Helper()
	account, err := st.GetAccount(context.Background(), username)
	require.NoError(t, err)
	return account.Balance
}
