package usecase

import (
	"context"
	"testing"

	"github.com/ownaimerch/merch-credits/internal/domain/entity"
	"github.com/ownaimerch/merch-credits/internal/domain/port/usecase"
	"github.com/stretchr/testify/mock"
)

// MockAccountRegistry is a testify double for usecase.AccountRegistry
type MockAccountRegistry struct {
	mock.Mock
}

// NewMockAccountRegistry creates a MockAccountRegistry and asserts its expectations on cleanup
func NewMockAccountRegistry(t testing.TB) *MockAccountRegistry {
	m := &MockAccountRegistry{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockAccountRegistry) GetOrCreate(ctx context.Context, identity entity.Identity) (*entity.Account, error) {
	args := m.Called(ctx, identity)
	account, _ := args.Get(0).(*entity.Account)
	return account, args.Error(1)
}

func (m *MockAccountRegistry) GetBalance(ctx context.Context, identity entity.Identity) (*usecase.AccountBalanceResponse, error) {
	args := m.Called(ctx, identity)
	balance, _ := args.Get(0).(*usecase.AccountBalanceResponse)
	return balance, args.Error(1)
}

func (m *MockAccountRegistry) GetUsageHistory(ctx context.Context, customerID uint64, limit int) ([]*entity.UsageRecord, error) {
	args := m.Called(ctx, customerID, limit)
	records, _ := args.Get(0).([]*entity.UsageRecord)
	return records, args.Error(1)
}

func (m *MockAccountRegistry) CorrelationUsed(ctx context.Context, correlationID string) (bool, error) {
	args := m.Called(ctx, correlationID)
	return args.Bool(0), args.Error(1)
}

// MockChargeExecutor is a testify double for usecase.ChargeExecutor
type MockChargeExecutor struct {
	mock.Mock
}

// NewMockChargeExecutor creates a MockChargeExecutor and asserts its expectations on cleanup
func NewMockChargeExecutor(t testing.TB) *MockChargeExecutor {
	m := &MockChargeExecutor{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockChargeExecutor) Charge(ctx context.Context, customerID uint64, billingMode entity.BillingMode, cost int64, meta entity.UsageMeta) (*entity.ChargeResult, error) {
	args := m.Called(ctx, customerID, billingMode, cost, meta)
	result, _ := args.Get(0).(*entity.ChargeResult)
	return result, args.Error(1)
}

// MockGenerationUseCase is a testify double for usecase.GenerationUseCase
type MockGenerationUseCase struct {
	mock.Mock
}

// NewMockGenerationUseCase creates a MockGenerationUseCase and asserts its expectations on cleanup
func NewMockGenerationUseCase(t testing.TB) *MockGenerationUseCase {
	m := &MockGenerationUseCase{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockGenerationUseCase) Generate(ctx context.Context, request entity.GenerationRequest) (*entity.GenerationResult, error) {
	args := m.Called(ctx, request)
	result, _ := args.Get(0).(*entity.GenerationResult)
	return result, args.Error(1)
}

// MockCreditReconciler is a testify double for usecase.CreditReconciler
type MockCreditReconciler struct {
	mock.Mock
}

// NewMockCreditReconciler creates a MockCreditReconciler and asserts its expectations on cleanup
func NewMockCreditReconciler(t testing.TB) *MockCreditReconciler {
	m := &MockCreditReconciler{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockCreditReconciler) Reconcile(ctx context.Context, event entity.PurchaseEvent) (*entity.ReconcileResult, error) {
	args := m.Called(ctx, event)
	result, _ := args.Get(0).(*entity.ReconcileResult)
	return result, args.Error(1)
}

// MockFulfillmentUseCase is a testify double for usecase.FulfillmentUseCase
type MockFulfillmentUseCase struct {
	mock.Mock
}

// NewMockFulfillmentUseCase creates a MockFulfillmentUseCase and asserts its expectations on cleanup
func NewMockFulfillmentUseCase(t testing.TB) *MockFulfillmentUseCase {
	m := &MockFulfillmentUseCase{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockFulfillmentUseCase) CreateOrder(ctx context.Context, request entity.PrintOrderRequest) (*entity.PrintOrderResult, error) {
	args := m.Called(ctx, request)
	result, _ := args.Get(0).(*entity.PrintOrderResult)
	return result, args.Error(1)
}

func (m *MockFulfillmentUseCase) CreateProduct(ctx context.Context, request entity.ProductRequest) (*entity.ProductResult, error) {
	args := m.Called(ctx, request)
	result, _ := args.Get(0).(*entity.ProductResult)
	return result, args.Error(1)
}

func (m *MockFulfillmentUseCase) ForwardOrder(ctx context.Context, order entity.CommerceOrder) (*entity.PrintOrderResult, error) {
	args := m.Called(ctx, order)
	result, _ := args.Get(0).(*entity.PrintOrderResult)
	return result, args.Error(1)
}

func (m *MockFulfillmentUseCase) ListBlueprints(ctx context.Context, search string) ([]entity.Blueprint, error) {
	args := m.Called(ctx, search)
	blueprints, _ := args.Get(0).([]entity.Blueprint)
	return blueprints, args.Error(1)
}

func (m *MockFulfillmentUseCase) ListProviders(ctx context.Context, blueprintID int64) ([]entity.PrintProvider, error) {
	args := m.Called(ctx, blueprintID)
	providers, _ := args.Get(0).([]entity.PrintProvider)
	return providers, args.Error(1)
}

func (m *MockFulfillmentUseCase) ListVariants(ctx context.Context, blueprintID, printProviderID int64) ([]entity.CatalogVariant, error) {
	args := m.Called(ctx, blueprintID, printProviderID)
	variants, _ := args.Get(0).([]entity.CatalogVariant)
	return variants, args.Error(1)
}

func (m *MockFulfillmentUseCase) ListShops(ctx context.Context) ([]entity.Shop, error) {
	args := m.Called(ctx)
	shops, _ := args.Get(0).([]entity.Shop)
	return shops, args.Error(1)
}

// MockMockupUseCase is a testify double for usecase.MockupUseCase
type MockMockupUseCase struct {
	mock.Mock
}

// NewMockMockupUseCase creates a MockMockupUseCase and asserts its expectations on cleanup
func NewMockMockupUseCase(t testing.TB) *MockMockupUseCase {
	m := &MockMockupUseCase{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockMockupUseCase) Compose(ctx context.Context, imageData, garmentColor string) ([]byte, error) {
	args := m.Called(ctx, imageData, garmentColor)
	out, _ := args.Get(0).([]byte)
	return out, args.Error(1)
}
