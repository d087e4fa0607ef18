package provider

import (
	"context"
	"testing"

	"github.com/ownaimerch/merch-credits/internal/domain/entity"
	"github.com/stretchr/testify/mock"
)

// MockFulfillmentProvider is a testify double for provider.FulfillmentProvider
type MockFulfillmentProvider struct {
	mock.Mock
}

// NewMockFulfillmentProvider creates a MockFulfillmentProvider and asserts its expectations on cleanup
func NewMockFulfillmentProvider(t testing.TB) *MockFulfillmentProvider {
	m := &MockFulfillmentProvider{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockFulfillmentProvider) UploadImage(ctx context.Context, fileName, base64Contents string) (*entity.RemoteImage, error) {
	args := m.Called(ctx, fileName, base64Contents)
	image, _ := args.Get(0).(*entity.RemoteImage)
	return image, args.Error(1)
}

func (m *MockFulfillmentProvider) CreateOrder(ctx context.Context, order entity.PrintOrder) (string, error) {
	args := m.Called(ctx, order)
	return args.String(0), args.Error(1)
}

func (m *MockFulfillmentProvider) CreateProduct(ctx context.Context, request entity.ProductRequest) (*entity.ProductResult, error) {
	args := m.Called(ctx, request)
	result, _ := args.Get(0).(*entity.ProductResult)
	return result, args.Error(1)
}

func (m *MockFulfillmentProvider) ListBlueprints(ctx context.Context, search string) ([]entity.Blueprint, error) {
	args := m.Called(ctx, search)
	blueprints, _ := args.Get(0).([]entity.Blueprint)
	return blueprints, args.Error(1)
}

func (m *MockFulfillmentProvider) ListProviders(ctx context.Context, blueprintID int64) ([]entity.PrintProvider, error) {
	args := m.Called(ctx, blueprintID)
	providers, _ := args.Get(0).([]entity.PrintProvider)
	return providers, args.Error(1)
}

func (m *MockFulfillmentProvider) ListVariants(ctx context.Context, blueprintID, printProviderID int64) ([]entity.CatalogVariant, error) {
	args := m.Called(ctx, blueprintID, printProviderID)
	variants, _ := args.Get(0).([]entity.CatalogVariant)
	return variants, args.Error(1)
}

func (m *MockFulfillmentProvider) ListShops(ctx context.Context) ([]entity.Shop, error) {
	args := m.Called(ctx)
	shops, _ := args.Get(0).([]entity.Shop)
	return shops, args.Error(1)
}

// MockMockupCompositor is a testify double for provider.MockupCompositor
type MockMockupCompositor struct {
	mock.Mock
}

// NewMockMockupCompositor creates a MockMockupCompositor and asserts its expectations on cleanup
func NewMockMockupCompositor(t testing.TB) *MockMockupCompositor {
	m := &MockMockupCompositor{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockMockupCompositor) Compose(artwork []byte, garmentColor string) ([]byte, error) {
	args := m.Called(artwork, garmentColor)
	out, _ := args.Get(0).([]byte)
	return out, args.Error(1)
}
