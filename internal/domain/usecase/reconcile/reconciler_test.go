package reconcile

import (
	"context"
	"testing"
	"time"

	"github.com/ownaimerch/merch-credits/internal/domain/entity"
	errs "github.com/ownaimerch/merch-credits/internal/domain/error"
	"github.com/ownaimerch/merch-credits/internal/domain/port/usecase"
	coremocks "github.com/ownaimerch/merch-credits/mocks/port/core"
	persistencemocks "github.com/ownaimerch/merch-credits/mocks/port/persistence"
	usecasemocks "github.com/ownaimerch/merch-credits/mocks/port/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testCatalog(t *testing.T) *entity.PackCatalog {
	catalog, err := entity.NewPackCatalog([]entity.CreditPack{
		{VariantID: "111", Code: "PACK_10", Credits: 10},
		{VariantID: "222", Code: "PACK_50", Credits: 50},
	})
	require.NoError(t, err)
	return catalog
}

type reconcileFixture struct {
	accounts   *persistencemocks.MockAccountRepository
	usage      *persistencemocks.MockUsageRepository
	uow        *persistencemocks.MockUnitOfWork
	registry   *usecasemocks.MockAccountRegistry
	metrics    *coremocks.MockMetrics
	reconciler usecase.CreditReconciler
}

func newReconcileFixture(t *testing.T) *reconcileFixture {
	accounts := persistencemocks.NewMockAccountRepository(t)
	usage := persistencemocks.NewMockUsageRepository(t)
	uow := persistencemocks.NewMockUnitOfWork(t, accounts, usage)
	registry := usecasemocks.NewMockAccountRegistry(t)
	metrics := coremocks.NewMockMetrics(t)
	clock := coremocks.NewMockTimeProvider(t).Frozen(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	logger := coremocks.NewMockLogger(t).AllowAll()

	return &reconcileFixture{
		accounts:   accounts,
		usage:      usage,
		uow:        uow,
		registry:   registry,
		metrics:    metrics,
		reconciler: NewReconciler(uow, registry, testCatalog(t), nil, metrics, clock, logger),
	}
}

func paidEvent() entity.PurchaseEvent {
	return entity.PurchaseEvent{
		OrderID:         "5001",
		OrderName:       "#1001",
		CustomerID:      "gid://shopify/Customer/42",
		CustomerEmail:   "buyer@example.com",
		FinancialStatus: "paid",
		LineItems: []entity.PurchaseLineItem{
			{VariantID: "111", Quantity: 2},
			{VariantID: "999", Quantity: 1},
			{VariantID: "222", Quantity: 1},
		},
	}
}

func TestReconcileGrants(t *testing.T) {
	f := newReconcileFixture(t)

	f.registry.On("GetOrCreate", mock.Anything, entity.Identity{CustomerID: 42, Email: "buyer@example.com"}).
		Return(&entity.Account{CustomerID: 42}, nil).Once()
	f.uow.On("Begin", mock.Anything).Return(nil, nil).Once()
	f.accounts.On("LockForUpdate", mock.Anything, uint64(42)).Return(&entity.Account{CustomerID: 42}, nil).Once()
	f.usage.On("ExistsByCorrelationID", mock.Anything, "shopify-order:5001").Return(false, nil).Once()
	f.accounts.On("Increment", mock.Anything, uint64(42), int64(70)).Return(nil).Once()
	f.usage.On("Append", mock.Anything, mock.MatchedBy(func(r *entity.UsageRecord) bool {
		return r.Cost == -70 &&
			r.OperationType == entity.OperationPackPurchase &&
			r.BillingMode == entity.BillingModeGrant &&
			r.CorrelationID == "shopify-order:5001" &&
			r.Note == "order #1001: PACK_10,PACK_50"
	})).Return(nil).Once()
	f.accounts.On("Get", mock.Anything, uint64(42)).Return(&entity.Account{CustomerID: 42, Balance: 70}, nil).Once()
	f.uow.On("Commit", mock.Anything).Return(nil).Once()
	f.metrics.On("ReconcileOutcome", "GRANTED").Once()
	f.metrics.On("CreditsGranted", int64(70)).Once()

	result, err := f.reconciler.Reconcile(context.Background(), paidEvent())

	require.NoError(t, err)
	assert.False(t, result.Skipped)
	assert.Equal(t, int64(70), result.CreditsGranted)
	assert.Equal(t, int64(70), result.NewBalance)
	assert.Len(t, result.Packs, 2)
}

func TestReconcileAlreadyProcessed(t *testing.T) {
	t.Run("Existing grant record", func(t *testing.T) {
		f := newReconcileFixture(t)

		f.registry.On("GetOrCreate", mock.Anything, mock.Anything).Return(&entity.Account{CustomerID: 42}, nil).Once()
		f.uow.On("Begin", mock.Anything).Return(nil, nil).Once()
		f.accounts.On("LockForUpdate", mock.Anything, uint64(42)).Return(&entity.Account{CustomerID: 42}, nil).Once()
		f.usage.On("ExistsByCorrelationID", mock.Anything, "shopify-order:5001").Return(true, nil).Once()
		f.uow.On("Rollback", mock.Anything).Return(nil).Once()
		f.metrics.On("ReconcileOutcome", "ALREADY_PROCESSED").Once()

		result, err := f.reconciler.Reconcile(context.Background(), paidEvent())

		require.NoError(t, err)
		assert.True(t, result.Skipped)
		assert.Equal(t, entity.SkipAlreadyProcessed, result.Reason)
		f.accounts.AssertNotCalled(t, "Increment", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Concurrent grant wins the unique index", func(t *testing.T) {
		f := newReconcileFixture(t)

		f.registry.On("GetOrCreate", mock.Anything, mock.Anything).Return(&entity.Account{CustomerID: 42}, nil).Once()
		f.uow.On("Begin", mock.Anything).Return(nil, nil).Once()
		f.accounts.On("LockForUpdate", mock.Anything, uint64(42)).Return(&entity.Account{CustomerID: 42}, nil).Once()
		f.usage.On("ExistsByCorrelationID", mock.Anything, mock.Anything).Return(false, nil).Once()
		f.accounts.On("Increment", mock.Anything, uint64(42), int64(70)).Return(nil).Once()
		f.usage.On("Append", mock.Anything, mock.Anything).Return(errs.ErrDuplicateCorrelation).Once()
		f.uow.On("Rollback", mock.Anything).Return(nil).Once()
		f.metrics.On("ReconcileOutcome", "ALREADY_PROCESSED").Once()

		result, err := f.reconciler.Reconcile(context.Background(), paidEvent())

		require.NoError(t, err)
		assert.Equal(t, entity.SkipAlreadyProcessed, result.Reason)
		f.uow.AssertNotCalled(t, "Commit", mock.Anything)
	})
}

func TestReconcileSkips(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(e *entity.PurchaseEvent)
		reason entity.SkipReason
	}{
		{name: "No order id", mutate: func(e *entity.PurchaseEvent) { e.OrderID = " " }, reason: entity.SkipNoOrder},
		{name: "Pending payment", mutate: func(e *entity.PurchaseEvent) { e.FinancialStatus = "pending" }, reason: entity.SkipNotPaid},
		{name: "Missing status", mutate: func(e *entity.PurchaseEvent) { e.FinancialStatus = "" }, reason: entity.SkipNotPaid},
		{name: "Guest checkout", mutate: func(e *entity.PurchaseEvent) { e.CustomerID = "" }, reason: entity.SkipNoCustomer},
		{name: "Malformed customer", mutate: func(e *entity.PurchaseEvent) { e.CustomerID = "abc" }, reason: entity.SkipNoCustomer},
		{name: "No pack lines", mutate: func(e *entity.PurchaseEvent) {
			e.LineItems = []entity.PurchaseLineItem{{VariantID: "999", Quantity: 3}}
		}, reason: entity.SkipNoPacks},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newReconcileFixture(t)
			f.metrics.On("ReconcileOutcome", string(tt.reason)).Once()

			event := paidEvent()
			tt.mutate(&event)
			result, err := f.reconciler.Reconcile(context.Background(), event)

			require.NoError(t, err)
			assert.True(t, result.Skipped)
			assert.Equal(t, tt.reason, result.Reason)
			assert.Zero(t, result.CreditsGranted)
			f.uow.AssertNotCalled(t, "Begin", mock.Anything)
			f.registry.AssertNotCalled(t, "GetOrCreate", mock.Anything, mock.Anything)
		})
	}
}

func TestReconcileCompletedStatusIsPaid(t *testing.T) {
	f := newReconcileFixture(t)

	f.registry.On("GetOrCreate", mock.Anything, mock.Anything).Return(&entity.Account{CustomerID: 42}, nil).Once()
	f.uow.On("Begin", mock.Anything).Return(nil, nil).Once()
	f.accounts.On("LockForUpdate", mock.Anything, uint64(42)).Return(&entity.Account{CustomerID: 42}, nil).Once()
	f.usage.On("ExistsByCorrelationID", mock.Anything, mock.Anything).Return(true, nil).Once()
	f.uow.On("Rollback", mock.Anything).Return(nil).Once()
	f.metrics.On("ReconcileOutcome", "ALREADY_PROCESSED").Once()

	event := paidEvent()
	event.FinancialStatus = "COMPLETED"
	result, err := f.reconciler.Reconcile(context.Background(), event)

	require.NoError(t, err)
	assert.NotEqual(t, entity.SkipNotPaid, result.Reason)
}

func TestReconcileStoreFailure(t *testing.T) {
	f := newReconcileFixture(t)

	f.registry.On("GetOrCreate", mock.Anything, mock.Anything).Return(&entity.Account{CustomerID: 42}, nil).Once()
	f.uow.On("Begin", mock.Anything).Return(nil, nil).Once()
	f.accounts.On("LockForUpdate", mock.Anything, uint64(42)).Return(&entity.Account{CustomerID: 42}, nil).Once()
	f.usage.On("ExistsByCorrelationID", mock.Anything, mock.Anything).Return(false, nil).Once()
	f.accounts.On("Increment", mock.Anything, uint64(42), int64(70)).Return(errs.ErrStoreUnavailable).Once()
	f.uow.On("Rollback", mock.Anything).Return(nil).Once()

	result, err := f.reconciler.Reconcile(context.Background(), paidEvent())

	assert.Nil(t, result)
	assert.ErrorIs(t, err, errs.ErrStoreUnavailable)
	f.metrics.AssertNotCalled(t, "CreditsGranted", mock.Anything)
}
