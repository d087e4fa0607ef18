package core

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockTimeProvider is a testify double for core.TimeProvider
type MockTimeProvider struct {
	mock.Mock
}

// NewMockTimeProvider creates a MockTimeProvider and asserts its expectations on cleanup
func NewMockTimeProvider(t testing.TB) *MockTimeProvider {
	m := &MockTimeProvider{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// Frozen answers Now with a fixed instant, Sleep without blocking and WithTimeout with a real deadline
func (m *MockTimeProvider) Frozen(now time.Time) *MockTimeProvider {
	m.On("Now").Return(now).Maybe()
	m.On("Since", mock.Anything).Return(time.Duration(0)).Maybe()
	m.On("Sleep", mock.Anything).Return().Maybe()
	m.On("WithTimeout", mock.Anything, mock.Anything).Return(nil, nil).Maybe()
	return m
}

func (m *MockTimeProvider) Now() time.Time {
	args := m.Called()
	return args.Get(0).(time.Time)
}

func (m *MockTimeProvider) Since(t time.Time) time.Duration {
	args := m.Called(t)
	return args.Get(0).(time.Duration)
}

func (m *MockTimeProvider) Sleep(d time.Duration) {
	m.Called(d)
}

// WithTimeout derives a real context unless the expectation returns one
func (m *MockTimeProvider) WithTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	args := m.Called(ctx, timeout)
	if derived, ok := args.Get(0).(context.Context); ok && derived != nil {
		return derived, args.Get(1).(context.CancelFunc)
	}
	return context.WithTimeout(ctx, timeout)
}
