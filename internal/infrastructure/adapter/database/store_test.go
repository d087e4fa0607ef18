package database

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/ownaimerch/merch-credits/internal/domain/entity"
	errs "github.com/ownaimerch/merch-credits/internal/domain/error"
	"github.com/ownaimerch/merch-credits/internal/domain/usecase/account"
	"github.com/ownaimerch/merch-credits/internal/domain/usecase/charge"
	"github.com/ownaimerch/merch-credits/internal/domain/usecase/entitlement"
	"github.com/ownaimerch/merch-credits/internal/domain/usecase/fulfillment"
	"github.com/ownaimerch/merch-credits/internal/domain/usecase/generation"
	"github.com/ownaimerch/merch-credits/internal/domain/usecase/reconcile"
	"github.com/ownaimerch/merch-credits/internal/infrastructure/adapter/logger"
	"github.com/ownaimerch/merch-credits/internal/infrastructure/adapter/model"
	coremocks "github.com/ownaimerch/merch-credits/mocks/port/core"
	providermocks "github.com/ownaimerch/merch-credits/mocks/port/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *TestDBManager {
	t.Helper()
	return NewTestDBManager(t, logger.NewNoopLogger())
}

func newTestExecutor(t *testing.T, store *TestDBManager) *charge.Executor {
	return charge.NewExecutor(
		store.Manager.CreateUnitOfWork(),
		coremocks.NewMockMetrics(t).AllowAll(),
		store.TimeProvider,
		store.Logger,
	).(*charge.Executor)
}

func TestAccountRepository(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	repo := store.Manager.AccountRepository()

	_, err := repo.Get(ctx, 42)
	assert.ErrorIs(t, err, errs.ErrAccountNotFound)

	fresh, err := entity.NewAccount(entity.Identity{CustomerID: 42, Email: "a@example.com"}, 3, store.TimeProvider)
	require.NoError(t, err)

	created, err := repo.InsertIfAbsent(ctx, fresh)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.InsertIfAbsent(ctx, fresh)
	require.NoError(t, err)
	assert.False(t, created, "second insert must not overwrite the row")

	applied, err := repo.ConditionalDecrement(ctx, 42, 2)
	require.NoError(t, err)
	assert.True(t, applied)

	applied, err = repo.ConditionalDecrement(ctx, 42, 2)
	require.NoError(t, err)
	assert.False(t, applied, "balance 1 does not cover 2")

	applied, err = repo.ConsumeTrial(ctx, 42)
	require.NoError(t, err)
	assert.True(t, applied)

	applied, err = repo.ConsumeTrial(ctx, 42)
	require.NoError(t, err)
	assert.False(t, applied)

	require.NoError(t, repo.Increment(ctx, 42, 10))
	assert.ErrorIs(t, repo.Increment(ctx, 7, 10), errs.ErrAccountNotFound)
	require.NoError(t, repo.UpdateEmail(ctx, 42, "b@example.com"))

	got, err := repo.Get(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(11), got.Balance)
	assert.Equal(t, int64(2), got.TotalUsed)
	assert.Equal(t, int64(10), got.TotalPurchased)
	assert.True(t, got.TrialUsed)
	assert.Equal(t, "b@example.com", got.Email)

	locked, err := repo.LockForUpdate(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(11), locked.Balance)
}

func TestBalanceCheckConstraint(t *testing.T) {
	store := newTestStore(t)
	store.CreateTestAccount(t, 1, 0, false)

	err := store.Manager.DB().Model(&model.CreditAccount{}).
		Where("customer_id = ?", 1).
		Update("balance", -1).Error

	require.Error(t, err)
	assert.ErrorIs(t, store.Manager.GetErrorMapper().MapError(err, "update"), errs.ErrConstraintViolation)
}

func TestUsageRepository(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	repo := store.Manager.UsageRepository()
	store.CreateTestAccount(t, 5, 0, false)

	for i := 1; i <= 3; i++ {
		require.NoError(t, repo.Append(ctx, &entity.UsageRecord{
			CustomerID:    5,
			OperationType: entity.OperationGenerate,
			Cost:          1,
			NominalCost:   1,
			BillingMode:   entity.BillingModePaid,
			Note:          fmt.Sprintf("prompt %d", i),
			CorrelationID: fmt.Sprintf("generation:%d", i),
		}))
	}
	// Records without a correlation id never collide
	for i := 0; i < 2; i++ {
		require.NoError(t, repo.Append(ctx, &entity.UsageRecord{
			CustomerID:    5,
			OperationType: entity.OperationTrialGenerate,
			BillingMode:   entity.BillingModeFreeTrial,
		}))
	}

	err := repo.Append(ctx, &entity.UsageRecord{
		CustomerID:    5,
		OperationType: entity.OperationGenerate,
		Cost:          1,
		BillingMode:   entity.BillingModePaid,
		CorrelationID: "generation:1",
	})
	assert.ErrorIs(t, err, errs.ErrDuplicateCorrelation)

	exists, err := repo.ExistsByCorrelationID(ctx, "generation:2")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByCorrelationID(ctx, "")
	require.NoError(t, err)
	assert.False(t, exists)

	records, err := repo.ListByCustomer(ctx, 5, 4)
	require.NoError(t, err)
	require.Len(t, records, 4)
	for i := 1; i < len(records); i++ {
		assert.Greater(t, records[i-1].ID, records[i].ID, "history is newest first")
	}
	assert.Equal(t, "", records[0].CorrelationID)
}

func TestConcurrentChargesNeverOverdraw(t *testing.T) {
	store := newTestStore(t)
	executor := newTestExecutor(t, store)
	store.CreateTestAccount(t, 10, 5, true)

	const attempts = 20
	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded, raceLost := 0, 0

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := executor.Charge(context.Background(), 10, entity.BillingModePaid, 1, entity.UsageMeta{
				OperationType: entity.OperationGenerate,
				NominalCost:   1,
				CorrelationID: entity.GenerationCorrelationID(10, fmt.Sprintf("req-%d", i)),
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errs.IsRaceLost(err):
				raceLost++
			default:
				t.Errorf("unexpected charge error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 5, succeeded)
	assert.Equal(t, attempts-5, raceLost)

	account := store.GetTestAccount(t, 10)
	assert.Equal(t, int64(0), account.Balance)
	assert.Equal(t, int64(5), account.TotalUsed)
	assert.Equal(t, int64(5), store.CountUsage(t, 10))
}

func TestConcurrentTrialIsConsumedOnce(t *testing.T) {
	store := newTestStore(t)
	executor := newTestExecutor(t, store)
	store.CreateTestAccount(t, 11, 0, false)

	const attempts = 10
	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := executor.Charge(context.Background(), 11, entity.BillingModeFreeTrial, 0, entity.UsageMeta{
				OperationType: entity.OperationTrialGenerate,
				NominalCost:   1,
			})
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	account := store.GetTestAccount(t, 11)
	assert.True(t, account.TrialUsed)
	assert.Equal(t, int64(0), account.Balance)
	assert.Equal(t, int64(1), store.CountUsage(t, 11))
}

func TestChargeReplaysCorrelationID(t *testing.T) {
	store := newTestStore(t)
	executor := newTestExecutor(t, store)
	store.CreateTestAccount(t, 12, 10, true)
	meta := entity.UsageMeta{
		OperationType: entity.OperationGenerateRemoveBackground,
		NominalCost:   3,
		CorrelationID: entity.GenerationCorrelationID(12, "same"),
	}

	first, err := executor.Charge(context.Background(), 12, entity.BillingModePaid, 3, meta)
	require.NoError(t, err)
	assert.False(t, first.Replayed)
	assert.Equal(t, int64(7), first.NewBalance)

	second, err := executor.Charge(context.Background(), 12, entity.BillingModePaid, 3, meta)
	require.NoError(t, err)
	assert.True(t, second.Replayed)
	assert.Equal(t, int64(7), second.NewBalance)
	assert.Equal(t, int64(1), store.CountUsage(t, 12))
}

func TestConcurrentGetOrCreateInsertsOnce(t *testing.T) {
	store := newTestStore(t)
	registry := account.NewRegistry(
		store.Manager.AccountRepository(),
		store.Manager.UsageRepository(),
		2,
		store.TimeProvider,
		store.Logger,
	)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := registry.GetOrCreate(context.Background(), entity.Identity{CustomerID: 13})
			if assert.NoError(t, err) {
				assert.Equal(t, int64(2), got.Balance)
			}
		}()
	}
	wg.Wait()

	var rows int64
	require.NoError(t, store.Manager.DB().Model(&model.CreditAccount{}).Where("customer_id = ?", 13).Count(&rows).Error)
	assert.Equal(t, int64(1), rows)
}

func TestReconcileRedeliveryGrantsOnce(t *testing.T) {
	store := newTestStore(t)
	registry := account.NewRegistry(
		store.Manager.AccountRepository(),
		store.Manager.UsageRepository(),
		0,
		store.TimeProvider,
		store.Logger,
	)
	catalog, err := entity.NewPackCatalog([]entity.CreditPack{{VariantID: "v50", Code: "PACK_50", Credits: 50}})
	require.NoError(t, err)
	reconciler := reconcile.NewReconciler(
		store.Manager.CreateUnitOfWork(),
		registry,
		catalog,
		nil,
		coremocks.NewMockMetrics(t).AllowAll(),
		store.TimeProvider,
		store.Logger,
	)

	event := entity.PurchaseEvent{
		OrderID:         "5001",
		OrderName:       "#1001",
		CustomerID:      "gid://shopify/Customer/14",
		FinancialStatus: "paid",
		LineItems:       []entity.PurchaseLineItem{{VariantID: "v50", Quantity: 2}},
	}

	const deliveries = 5
	var wg sync.WaitGroup
	var mu sync.Mutex
	granted, skipped := 0, 0
	for i := 0; i < deliveries; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := reconciler.Reconcile(context.Background(), event)
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			defer mu.Unlock()
			if result.Skipped {
				assert.Equal(t, entity.SkipAlreadyProcessed, result.Reason)
				skipped++
			} else {
				granted++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, granted)
	assert.Equal(t, deliveries-1, skipped)

	account := store.GetTestAccount(t, 14)
	assert.Equal(t, int64(100), account.Balance)
	assert.Equal(t, int64(100), account.TotalPurchased)

	history, err := store.Manager.UsageRepository().ListByCustomer(context.Background(), 14, 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, int64(-100), history[0].Cost)
	assert.Equal(t, entity.BillingModeGrant, history[0].BillingMode)
	assert.Equal(t, "shopify-order:5001", history[0].CorrelationID)
	assert.Equal(t, "order #1001: PACK_50", history[0].Note)
}

func TestGenerationRequestIDIsScopedToCustomer(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	registry := account.NewRegistry(
		store.Manager.AccountRepository(),
		store.Manager.UsageRepository(),
		0,
		store.TimeProvider,
		store.Logger,
	)
	generator := providermocks.NewMockImageGenerator(t)
	generator.On("Generate", mock.Anything, mock.Anything).Return([]byte("png"), nil)

	svc := generation.NewService(
		generation.Dependencies{
			Registry:  registry,
			Evaluator: entitlement.NewEvaluator(entitlement.Config{}),
			Charger:   newTestExecutor(t, store),
			Generator: generator,
		},
		entity.DefaultPricing(),
		generation.DefaultConfig(),
		coremocks.NewMockMetrics(t).AllowAll(),
		store.TimeProvider,
		store.Logger,
	)

	store.CreateTestAccount(t, 15, 5, true)
	request := entity.GenerationRequest{
		Identity:  entity.Identity{CustomerID: 15},
		Prompt:    "a fox in a space suit",
		RequestID: "shared",
	}

	first, err := svc.Generate(ctx, request)
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.Charged)
	assert.Equal(t, int64(4), first.CreditsLeft)

	for i := 0; i < 3; i++ {
		_, err := svc.Generate(ctx, request)
		assert.ErrorIs(t, err, errs.ErrDuplicateRequest)
	}
	assert.Equal(t, int64(4), store.GetTestAccount(t, 15).Balance)
	assert.Equal(t, int64(1), store.CountUsage(t, 15))
	generator.AssertNumberOfCalls(t, "Generate", 1)

	// A new customer reusing someone else's request id still spends the trial
	request.Identity = entity.Identity{CustomerID: 16}
	trial, err := svc.Generate(ctx, request)
	require.NoError(t, err)
	assert.Equal(t, entity.BillingModeFreeTrial, trial.BillingMode)
	assert.True(t, store.GetTestAccount(t, 16).TrialUsed)
	assert.Equal(t, int64(1), store.CountUsage(t, 16))

	// and pays for the next one under a fresh request id
	request.RequestID = "shared-2"
	_, err = svc.Generate(ctx, request)
	assert.ErrorIs(t, err, errs.ErrInsufficientBalance)
}

func TestForwardedOrderRepository(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	repo := store.Manager.ForwardedOrderRepository()

	claimed, existing, err := repo.Claim(ctx, "shopify-1")
	require.NoError(t, err)
	assert.True(t, claimed)
	assert.Nil(t, existing)

	claimed, existing, err = repo.Claim(ctx, "shopify-1")
	require.NoError(t, err)
	assert.False(t, claimed)
	require.NotNil(t, existing)
	assert.False(t, existing.Placed())

	// a released claim can be taken again
	require.NoError(t, repo.Release(ctx, "shopify-1"))
	claimed, _, err = repo.Claim(ctx, "shopify-1")
	require.NoError(t, err)
	assert.True(t, claimed)

	require.NoError(t, repo.Complete(ctx, "shopify-1", "po-1"))
	// placed orders are never released
	require.NoError(t, repo.Release(ctx, "shopify-1"))
	claimed, existing, err = repo.Claim(ctx, "shopify-1")
	require.NoError(t, err)
	assert.False(t, claimed)
	assert.Equal(t, "po-1", existing.PrintOrderID)
}

func TestOrderRedeliveryPlacesOnePrintOrder(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	printer := providermocks.NewMockFulfillmentProvider(t)
	svc := fulfillment.NewService(
		printer,
		store.Manager.ForwardedOrderRepository(),
		fulfillment.DefaultConfig(),
		coremocks.NewMockMetrics(t).AllowAll(),
		store.TimeProvider,
		store.Logger,
	)

	order := entity.CommerceOrder{
		ID:   "9001",
		Name: "#1042",
		LineItems: []entity.CommerceOrderItem{{Quantity: 1, Properties: map[string]string{
			entity.PropertyArtworkID:  "gen-1",
			entity.PropertyArtworkURL: "https://cdn.example.com/a.png",
		}}},
	}

	// the first delivery fails upstream and must not block the redelivery
	printer.On("CreateOrder", mock.Anything, mock.Anything).
		Return("", errs.NewProviderError("printify", "create_order", 503, assert.AnError)).Once()
	_, err := svc.ForwardOrder(ctx, order)
	require.ErrorIs(t, err, errs.ErrProviderError)

	printer.On("CreateOrder", mock.Anything, mock.MatchedBy(func(o entity.PrintOrder) bool {
		return o.ExternalID == "shopify-9001"
	})).Return("po-1", nil).Once()

	var wg sync.WaitGroup
	results := make(chan *entity.PrintOrderResult, 4)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := svc.ForwardOrder(ctx, order)
			if assert.NoError(t, err) {
				results <- result
			}
		}()
	}
	wg.Wait()
	close(results)

	placed := 0
	for result := range results {
		if !result.Skipped {
			placed++
			assert.Equal(t, "po-1", result.OrderID)
			continue
		}
		assert.Equal(t, fulfillment.SkipAlreadyForwarded, result.Reason)
	}
	assert.Equal(t, 1, placed)
	printer.AssertNumberOfCalls(t, "CreateOrder", 2)

	again, err := svc.ForwardOrder(ctx, order)
	require.NoError(t, err)
	assert.True(t, again.Skipped)
	assert.Equal(t, "po-1", again.OrderID)

	var rows int64
	require.NoError(t, store.Manager.DB().Model(&model.ForwardedOrder{}).Count(&rows).Error)
	assert.Equal(t, int64(1), rows)
}
