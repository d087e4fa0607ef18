package provider

import (
	"context"
	"testing"

	"github.com/ownaimerch/merch-credits/internal/domain/port/provider"
	"github.com/stretchr/testify/mock"
)

// MockArtworkStore is a testify double for provider.ArtworkStore
type MockArtworkStore struct {
	mock.Mock
}

// NewMockArtworkStore creates a MockArtworkStore and asserts its expectations on cleanup
func NewMockArtworkStore(t testing.TB) *MockArtworkStore {
	m := &MockArtworkStore{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockArtworkStore) Put(ctx context.Context, key string, image []byte, contentType string) (*provider.StoredArtwork, error) {
	args := m.Called(ctx, key, image, contentType)
	stored, _ := args.Get(0).(*provider.StoredArtwork)
	return stored, args.Error(1)
}
