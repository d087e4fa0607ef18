package provider

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
)

// MockImageGenerator is a testify double for provider.ImageGenerator
type MockImageGenerator struct {
	mock.Mock
}

// NewMockImageGenerator creates a MockImageGenerator and asserts its expectations on cleanup
func NewMockImageGenerator(t testing.TB) *MockImageGenerator {
	m := &MockImageGenerator{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockImageGenerator) Generate(ctx context.Context, prompt string) ([]byte, error) {
	args := m.Called(ctx, prompt)
	image, _ := args.Get(0).([]byte)
	return image, args.Error(1)
}

// MockBackgroundRemover is a testify double for provider.BackgroundRemover
type MockBackgroundRemover struct {
	mock.Mock
}

// NewMockBackgroundRemover creates a MockBackgroundRemover and asserts its expectations on cleanup
func NewMockBackgroundRemover(t testing.TB) *MockBackgroundRemover {
	m := &MockBackgroundRemover{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockBackgroundRemover) RemoveBackground(ctx context.Context, image []byte) ([]byte, error) {
	args := m.Called(ctx, image)
	out, _ := args.Get(0).([]byte)
	return out, args.Error(1)
}
