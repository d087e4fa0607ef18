package persistence

import (
	"context"
	"testing"

	"github.com/ownaimerch/merch-credits/internal/domain/entity"
	"github.com/stretchr/testify/mock"
)

// MockUsageRepository is a testify double for persistence.UsageRepository
type MockUsageRepository struct {
	mock.Mock
}

// NewMockUsageRepository creates a MockUsageRepository and asserts its expectations on cleanup
func NewMockUsageRepository(t testing.TB) *MockUsageRepository {
	m := &MockUsageRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockUsageRepository) Append(ctx context.Context, record *entity.UsageRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockUsageRepository) ExistsByCorrelationID(ctx context.Context, correlationID string) (bool, error) {
	args := m.Called(ctx, correlationID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUsageRepository) ListByCustomer(ctx context.Context, customerID uint64, limit int) ([]*entity.UsageRecord, error) {
	args := m.Called(ctx, customerID, limit)
	records, _ := args.Get(0).([]*entity.UsageRecord)
	return records, args.Error(1)
}
