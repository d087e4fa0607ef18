package persistence

import (
	"context"
	"testing"

	"github.com/ownaimerch/merch-credits/internal/domain/port/persistence"
	"github.com/stretchr/testify/mock"
)

// MockUnitOfWork is a testify double for persistence.UnitOfWork.
// Repository getters return the bound doubles without recording calls.
type MockUnitOfWork struct {
	mock.Mock
	Accounts *MockAccountRepository
	Usage    *MockUsageRepository
}

// NewMockUnitOfWork creates a MockUnitOfWork serving the given repositories
func NewMockUnitOfWork(t testing.TB, accounts *MockAccountRepository, usage *MockUsageRepository) *MockUnitOfWork {
	m := &MockUnitOfWork{Accounts: accounts, Usage: usage}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockUnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	args := m.Called(ctx)
	if txCtx, ok := args.Get(0).(context.Context); ok && txCtx != nil {
		return txCtx, args.Error(1)
	}
	return ctx, args.Error(1)
}

func (m *MockUnitOfWork) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) GetAccountRepository(ctx context.Context) persistence.AccountRepository {
	return m.Accounts
}

func (m *MockUnitOfWork) GetUsageRepository(ctx context.Context) persistence.UsageRepository {
	return m.Usage
}
