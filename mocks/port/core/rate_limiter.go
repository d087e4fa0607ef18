package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
)

// MockRateLimiter is a testify double for core.RateLimiter
type MockRateLimiter struct {
	mock.Mock
}

// NewMockRateLimiter creates a MockRateLimiter and asserts its expectations on cleanup
func NewMockRateLimiter(t testing.TB) *MockRateLimiter {
	m := &MockRateLimiter{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}
