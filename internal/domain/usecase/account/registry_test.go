package account

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ownaimerch/merch-credits/internal/domain/entity"
	errs "github.com/ownaimerch/merch-credits/internal/domain/error"
	coremocks "github.com/ownaimerch/merch-credits/mocks/port/core"
	persistencemocks "github.com/ownaimerch/merch-credits/mocks/port/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGetOrCreate(t *testing.T) {
	ctx := context.Background()
	fixedTime := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	identity := entity.Identity{CustomerID: 42, Email: "a@example.com"}

	t.Run("Existing account is returned", func(t *testing.T) {
		accounts := persistencemocks.NewMockAccountRepository(t)
		usage := persistencemocks.NewMockUsageRepository(t)
		clock := coremocks.NewMockTimeProvider(t).Frozen(fixedTime)
		logger := coremocks.NewMockLogger(t).AllowAll()

		existing := &entity.Account{CustomerID: 42, Email: "a@example.com", Balance: 7}
		accounts.On("Get", mock.Anything, uint64(42)).Return(existing, nil).Once()

		registry := NewRegistry(accounts, usage, 0, clock, logger)
		account, err := registry.GetOrCreate(ctx, identity)

		require.NoError(t, err)
		assert.Equal(t, int64(7), account.Balance)
	})

	t.Run("First sight creates with starting balance and trial available", func(t *testing.T) {
		accounts := persistencemocks.NewMockAccountRepository(t)
		usage := persistencemocks.NewMockUsageRepository(t)
		clock := coremocks.NewMockTimeProvider(t).Frozen(fixedTime)
		logger := coremocks.NewMockLogger(t).AllowAll()

		accounts.On("Get", mock.Anything, uint64(42)).Return(nil, errs.ErrAccountNotFound).Once()
		accounts.On("InsertIfAbsent", mock.Anything, mock.MatchedBy(func(a *entity.Account) bool {
			return a.CustomerID == 42 && a.Balance == 5 && !a.TrialUsed
		})).Return(true, nil).Once()

		registry := NewRegistry(accounts, usage, 5, clock, logger)
		account, err := registry.GetOrCreate(ctx, identity)

		require.NoError(t, err)
		assert.Equal(t, int64(5), account.Balance)
		assert.True(t, account.TrialAvailable())
		assert.Equal(t, fixedTime, account.CreatedAt)
	})

	t.Run("Losing the insert race reads the winner's row", func(t *testing.T) {
		accounts := persistencemocks.NewMockAccountRepository(t)
		usage := persistencemocks.NewMockUsageRepository(t)
		clock := coremocks.NewMockTimeProvider(t).Frozen(fixedTime)
		logger := coremocks.NewMockLogger(t).AllowAll()

		winner := &entity.Account{CustomerID: 42, Email: "a@example.com", TrialUsed: true}
		accounts.On("Get", mock.Anything, uint64(42)).Return(nil, errs.ErrAccountNotFound).Once()
		accounts.On("InsertIfAbsent", mock.Anything, mock.Anything).Return(false, nil).Once()
		accounts.On("Get", mock.Anything, uint64(42)).Return(winner, nil).Once()

		registry := NewRegistry(accounts, usage, 0, clock, logger)
		account, err := registry.GetOrCreate(ctx, identity)

		require.NoError(t, err)
		assert.Same(t, winner, account)
	})

	t.Run("Changed email is refreshed", func(t *testing.T) {
		accounts := persistencemocks.NewMockAccountRepository(t)
		usage := persistencemocks.NewMockUsageRepository(t)
		clock := coremocks.NewMockTimeProvider(t).Frozen(fixedTime)
		logger := coremocks.NewMockLogger(t).AllowAll()

		existing := &entity.Account{CustomerID: 42, Email: "old@example.com"}
		accounts.On("Get", mock.Anything, uint64(42)).Return(existing, nil).Once()
		accounts.On("UpdateEmail", mock.Anything, uint64(42), "a@example.com").Return(nil).Once()

		registry := NewRegistry(accounts, usage, 0, clock, logger)
		account, err := registry.GetOrCreate(ctx, identity)

		require.NoError(t, err)
		assert.Equal(t, "a@example.com", account.Email)
	})

	t.Run("Email refresh failure is not fatal", func(t *testing.T) {
		accounts := persistencemocks.NewMockAccountRepository(t)
		usage := persistencemocks.NewMockUsageRepository(t)
		clock := coremocks.NewMockTimeProvider(t).Frozen(fixedTime)
		logger := coremocks.NewMockLogger(t)

		existing := &entity.Account{CustomerID: 42, Email: "old@example.com"}
		accounts.On("Get", mock.Anything, uint64(42)).Return(existing, nil).Once()
		accounts.On("UpdateEmail", mock.Anything, uint64(42), "a@example.com").Return(errs.ErrStoreUnavailable).Once()
		logger.On("Warn", "Failed to refresh account email", mock.Anything).Once()

		registry := NewRegistry(accounts, usage, 0, clock, logger)
		account, err := registry.GetOrCreate(ctx, identity)

		require.NoError(t, err)
		assert.Equal(t, "old@example.com", account.Email)
	})

	t.Run("Missing identity", func(t *testing.T) {
		registry := NewRegistry(
			persistencemocks.NewMockAccountRepository(t),
			persistencemocks.NewMockUsageRepository(t),
			0,
			coremocks.NewMockTimeProvider(t),
			coremocks.NewMockLogger(t),
		)

		account, err := registry.GetOrCreate(ctx, entity.Identity{})

		assert.Nil(t, account)
		assert.ErrorIs(t, err, errs.ErrNotAuthenticated)
	})

	t.Run("Store failure is propagated", func(t *testing.T) {
		accounts := persistencemocks.NewMockAccountRepository(t)
		accounts.On("Get", mock.Anything, uint64(42)).Return(nil, errs.ErrStoreUnavailable).Once()

		registry := NewRegistry(accounts, persistencemocks.NewMockUsageRepository(t), 0,
			coremocks.NewMockTimeProvider(t), coremocks.NewMockLogger(t))
		_, err := registry.GetOrCreate(ctx, identity)

		assert.True(t, errors.Is(err, errs.ErrStoreUnavailable))
	})
}

func TestGetBalance(t *testing.T) {
	accounts := persistencemocks.NewMockAccountRepository(t)
	existing := &entity.Account{CustomerID: 9, Balance: 12, TrialUsed: true, TotalUsed: 3, TotalPurchased: 15}
	accounts.On("Get", mock.Anything, uint64(9)).Return(existing, nil).Once()

	registry := NewRegistry(accounts, persistencemocks.NewMockUsageRepository(t), 0,
		coremocks.NewMockTimeProvider(t), coremocks.NewMockLogger(t))
	balance, err := registry.GetBalance(context.Background(), entity.Identity{CustomerID: 9})

	require.NoError(t, err)
	assert.Equal(t, int64(12), balance.Credits)
	assert.False(t, balance.TrialAvailable)
	assert.Equal(t, int64(3), balance.TotalUsed)
	assert.Equal(t, int64(15), balance.TotalPurchased)
}

func TestGetUsageHistory(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		limit     int
		wantLimit int
	}{
		{name: "Default limit", limit: 0, wantLimit: DefaultHistoryLimit},
		{name: "Explicit limit", limit: 5, wantLimit: 5},
		{name: "Capped limit", limit: 1000, wantLimit: MaxHistoryLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			usage := persistencemocks.NewMockUsageRepository(t)
			records := []*entity.UsageRecord{{ID: 1, CustomerID: 3}}
			usage.On("ListByCustomer", mock.Anything, uint64(3), tt.wantLimit).Return(records, nil).Once()

			registry := NewRegistry(persistencemocks.NewMockAccountRepository(t), usage, 0,
				coremocks.NewMockTimeProvider(t), coremocks.NewMockLogger(t))
			got, err := registry.GetUsageHistory(ctx, 3, tt.limit)

			require.NoError(t, err)
			assert.Len(t, got, 1)
		})
	}

	t.Run("Zero customer id", func(t *testing.T) {
		registry := NewRegistry(persistencemocks.NewMockAccountRepository(t), persistencemocks.NewMockUsageRepository(t), 0,
			coremocks.NewMockTimeProvider(t), coremocks.NewMockLogger(t))
		_, err := registry.GetUsageHistory(ctx, 0, 10)
		assert.ErrorIs(t, err, errs.ErrInvalidIdentity)
	})
}

func TestCorrelationUsed(t *testing.T) {
	accounts := persistencemocks.NewMockAccountRepository(t)
	usage := persistencemocks.NewMockUsageRepository(t)
	registry := NewRegistry(accounts, usage, 0, coremocks.NewMockTimeProvider(t), coremocks.NewMockLogger(t).AllowAll())

	used, err := registry.CorrelationUsed(context.Background(), "")
	require.NoError(t, err)
	assert.False(t, used)
	usage.AssertNotCalled(t, "ExistsByCorrelationID", mock.Anything, mock.Anything)

	usage.On("ExistsByCorrelationID", mock.Anything, "generation:7:x").Return(true, nil).Once()
	used, err = registry.CorrelationUsed(context.Background(), "generation:7:x")
	require.NoError(t, err)
	assert.True(t, used)
}
