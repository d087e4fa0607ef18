package entity

import (
	"context"
	"testing"
	"time"

	errs "github.com/ownaimerch/merch-credits/internal/domain/error"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time                  { return c.now }
func (c fixedClock) Since(t time.Time) time.Duration { return c.now.Sub(t) }
func (c fixedClock) Sleep(time.Duration)             {}
func (c fixedClock) WithTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, timeout)
}

func TestNewAccount(t *testing.T) {
	fixedTime := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := fixedClock{now: fixedTime}

	t.Run("Fresh account has the trial available", func(t *testing.T) {
		account, err := NewAccount(Identity{CustomerID: 42, Email: "a@example.com"}, 0, clock)

		require.NoError(t, err)
		assert.Equal(t, uint64(42), account.CustomerID)
		assert.Equal(t, int64(0), account.Balance)
		assert.True(t, account.TrialAvailable())
		assert.False(t, account.HasPurchased())
		assert.Equal(t, fixedTime, account.CreatedAt)
		assert.Equal(t, fixedTime, account.UpdatedAt)
	})

	t.Run("Starting allowance is applied", func(t *testing.T) {
		account, err := NewAccount(Identity{CustomerID: 1}, 1, clock)

		require.NoError(t, err)
		assert.Equal(t, int64(1), account.Balance)
	})

	t.Run("Zero customer id is rejected", func(t *testing.T) {
		account, err := NewAccount(Identity{}, 0, clock)

		assert.ErrorIs(t, err, errs.ErrInvalidIdentity)
		assert.Nil(t, account)
	})

	t.Run("Negative allowance is rejected", func(t *testing.T) {
		account, err := NewAccount(Identity{CustomerID: 1}, -1, clock)

		assert.Error(t, err)
		assert.Nil(t, account)
	})
}

func TestAccountHelpers(t *testing.T) {
	account := &Account{CustomerID: 7, Email: "old@example.com", Balance: 5, TrialUsed: true, TotalPurchased: 30}

	assert.True(t, account.Covers(5))
	assert.False(t, account.Covers(6))
	assert.False(t, account.TrialAvailable())
	assert.True(t, account.HasPurchased())
	assert.True(t, account.NeedsEmailRefresh("new@example.com"))
	assert.False(t, account.NeedsEmailRefresh(""))
	assert.False(t, account.NeedsEmailRefresh("old@example.com"))
}
