package core

import (
	"testing"

	"github.com/stretchr/testify/mock"
)

// MockMetrics is a testify double for core.Metrics
type MockMetrics struct {
	mock.Mock
}

// NewMockMetrics creates a MockMetrics and asserts its expectations on cleanup
func NewMockMetrics(t testing.TB) *MockMetrics {
	m := &MockMetrics{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// AllowAll accepts any metric observation
func (m *MockMetrics) AllowAll() *MockMetrics {
	m.On("ChargeCommitted", mock.Anything, mock.Anything).Maybe()
	m.On("ChargeRaceLost", mock.Anything).Maybe()
	m.On("EntitlementDenied", mock.Anything).Maybe()
	m.On("CreditsGranted", mock.Anything).Maybe()
	m.On("ReconcileOutcome", mock.Anything).Maybe()
	m.On("ProviderCall", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Maybe()
	m.On("BackgroundRemovalDegraded").Maybe()
	return m
}

func (m *MockMetrics) ChargeCommitted(billingMode string, cost int64) {
	m.Called(billingMode, cost)
}

func (m *MockMetrics) ChargeRaceLost(billingMode string) {
	m.Called(billingMode)
}

func (m *MockMetrics) EntitlementDenied(reason string) {
	m.Called(reason)
}

func (m *MockMetrics) CreditsGranted(credits int64) {
	m.Called(credits)
}

func (m *MockMetrics) ReconcileOutcome(outcome string) {
	m.Called(outcome)
}

func (m *MockMetrics) ProviderCall(provider, operation string, success bool, seconds float64) {
	m.Called(provider, operation, success, seconds)
}

func (m *MockMetrics) BackgroundRemovalDegraded() {
	m.Called()
}
