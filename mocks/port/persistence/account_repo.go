package persistence

import (
	"context"
	"testing"

	"github.com/ownaimerch/merch-credits/internal/domain/entity"
	"github.com/stretchr/testify/mock"
)

// MockAccountRepository is a testify double for persistence.AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

// NewMockAccountRepository creates a MockAccountRepository and asserts its expectations on cleanup
func NewMockAccountRepository(t testing.TB) *MockAccountRepository {
	m := &MockAccountRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockAccountRepository) account(args mock.Arguments) *entity.Account {
	if account, ok := args.Get(0).(*entity.Account); ok {
		return account
	}
	return nil
}

func (m *MockAccountRepository) Get(ctx context.Context, customerID uint64) (*entity.Account, error) {
	args := m.Called(ctx, customerID)
	return m.account(args), args.Error(1)
}

func (m *MockAccountRepository) InsertIfAbsent(ctx context.Context, account *entity.Account) (bool, error) {
	args := m.Called(ctx, account)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountRepository) LockForUpdate(ctx context.Context, customerID uint64) (*entity.Account, error) {
	args := m.Called(ctx, customerID)
	return m.account(args), args.Error(1)
}

func (m *MockAccountRepository) ConditionalDecrement(ctx context.Context, customerID uint64, amount int64) (bool, error) {
	args := m.Called(ctx, customerID, amount)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountRepository) ConsumeTrial(ctx context.Context, customerID uint64) (bool, error) {
	args := m.Called(ctx, customerID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountRepository) Increment(ctx context.Context, customerID uint64, amount int64) error {
	args := m.Called(ctx, customerID, amount)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateEmail(ctx context.Context, customerID uint64, email string) error {
	args := m.Called(ctx, customerID, email)
	return args.Error(0)
}
