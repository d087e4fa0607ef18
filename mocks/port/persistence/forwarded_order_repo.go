package persistence

import (
	"context"
	"testing"

	"github.com/ownaimerch/merch-credits/internal/domain/entity"
	"github.com/stretchr/testify/mock"
)

// MockForwardedOrderRepository is a testify double for persistence.ForwardedOrderRepository
type MockForwardedOrderRepository struct {
	mock.Mock
}

// NewMockForwardedOrderRepository creates a MockForwardedOrderRepository and asserts its expectations on cleanup
func NewMockForwardedOrderRepository(t testing.TB) *MockForwardedOrderRepository {
	m := &MockForwardedOrderRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockForwardedOrderRepository) Claim(ctx context.Context, externalID string) (bool, *entity.ForwardedOrder, error) {
	args := m.Called(ctx, externalID)
	existing, _ := args.Get(1).(*entity.ForwardedOrder)
	return args.Bool(0), existing, args.Error(2)
}

func (m *MockForwardedOrderRepository) Complete(ctx context.Context, externalID, printOrderID string) error {
	args := m.Called(ctx, externalID, printOrderID)
	return args.Error(0)
}

func (m *MockForwardedOrderRepository) Release(ctx context.Context, externalID string) error {
	args := m.Called(ctx, externalID)
	return args.Error(0)
}
