package reconcile

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ownaimerch/merch-credits/internal/domain/entity"
	errs "github.com/ownaimerch/merch-credits/internal/domain/error"
	coreport "github.com/ownaimerch/merch-credits/internal/domain/port/core"
	"github.com/ownaimerch/merch-credits/internal/domain/port/persistence"
	"github.com/ownaimerch/merch-credits/internal/domain/port/usecase"
)

const outcomeGranted = "GRANTED"

// DefaultPaidStatuses are the commerce financial statuses that release credits
var DefaultPaidStatuses = []string{"paid", "completed"}

// Reconciler turns purchase events into credit grants, exactly once per order
type Reconciler struct {
	uow          persistence.UnitOfWork
	registry     usecase.AccountRegistry
	catalog      *entity.PackCatalog
	paidStatuses []string
	metrics      coreport.Metrics
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewReconciler creates a new credit reconciler
func NewReconciler(
	uow persistence.UnitOfWork,
	registry usecase.AccountRegistry,
	catalog *entity.PackCatalog,
	paidStatuses []string,
	metrics coreport.Metrics,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) usecase.CreditReconciler {
	if len(paidStatuses) == 0 {
		paidStatuses = DefaultPaidStatuses
	}
	return &Reconciler{
		uow:          uow,
		registry:     registry,
		catalog:      catalog,
		paidStatuses: paidStatuses,
		metrics:      metrics,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Reconcile grants the pack credits of a paid order. Unpaid orders, anonymous orders, orders without
// packs and redelivered orders are skipped; only store failures are returned as errors.
func (r *Reconciler) Reconcile(ctx context.Context, event entity.PurchaseEvent) (*entity.ReconcileResult, error) {
	orderID := strings.TrimSpace(event.OrderID)
	if orderID == "" {
		return r.skip(entity.SkippedResult("", 0, entity.SkipNoOrder)), nil
	}

	if !event.IsPaid(r.paidStatuses) {
		return r.skip(entity.SkippedResult(orderID, 0, entity.SkipNotPaid)), nil
	}

	identity, err := entity.NewIdentity(event.CustomerID, event.CustomerEmail)
	if err != nil {
		return r.skip(entity.SkippedResult(orderID, 0, entity.SkipNoCustomer)), nil
	}

	grant := entity.MapGrant(event.LineItems, r.catalog)
	if grant.Total <= 0 {
		return r.skip(entity.SkippedResult(orderID, identity.CustomerID, entity.SkipNoPacks)), nil
	}

	if _, err := r.registry.GetOrCreate(ctx, identity); err != nil {
		return nil, fmt.Errorf("failed to provision account for order %s: %w", orderID, err)
	}

	result, err := r.apply(ctx, orderID, event.OrderName, identity.CustomerID, grant)
	if err != nil {
		r.logger.Error("Failed to reconcile purchase", map[string]any{
			"order_id":    orderID,
			"customer_id": identity.CustomerID,
			"credits":     grant.Total,
			"error":       err.Error(),
		})
		return nil, err
	}
	if result.Skipped {
		return r.skip(result), nil
	}

	r.metrics.ReconcileOutcome(outcomeGranted)
	r.metrics.CreditsGranted(result.CreditsGranted)
	r.logger.Info("Credits granted", map[string]any{
		"order_id":    orderID,
		"customer_id": identity.CustomerID,
		"credits":     result.CreditsGranted,
		"packs":       grant.PackCodes(),
		"new_balance": result.NewBalance,
	})
	return result, nil
}

// apply runs the idempotency check, the increment and the grant record in one transaction.
// The row lock serializes redeliveries of the same order for the same customer.
func (r *Reconciler) apply(
	ctx context.Context,
	orderID, orderName string,
	customerID uint64,
	grant entity.CreditGrant,
) (*entity.ReconcileResult, error) {
	txCtx, err := r.uow.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin reconcile: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			if rbErr := r.uow.Rollback(txCtx); rbErr != nil {
				r.logger.Warn("Failed to roll back reconcile", map[string]any{
					"order_id": orderID,
					"error":    rbErr.Error(),
				})
			}
		}
	}()

	accountRepo := r.uow.GetAccountRepository(txCtx)
	usageRepo := r.uow.GetUsageRepository(txCtx)
	correlationID := entity.OrderCorrelationID(orderID)

	if _, err := accountRepo.LockForUpdate(txCtx, customerID); err != nil {
		return nil, err
	}

	exists, err := usageRepo.ExistsByCorrelationID(txCtx, correlationID)
	if err != nil {
		return nil, err
	}
	if exists {
		return entity.SkippedResult(orderID, customerID, entity.SkipAlreadyProcessed), nil
	}

	if err := accountRepo.Increment(txCtx, customerID, grant.Total); err != nil {
		return nil, err
	}

	record := &entity.UsageRecord{
		CustomerID:    customerID,
		OperationType: entity.OperationPackPurchase,
		Cost:          -grant.Total,
		NominalCost:   -grant.Total,
		BillingMode:   entity.BillingModeGrant,
		Note:          grantNote(orderID, orderName, grant),
		CorrelationID: correlationID,
		CreatedAt:     r.timeProvider.Now(),
	}
	if err := usageRepo.Append(txCtx, record); err != nil {
		if errors.Is(err, errs.ErrDuplicateCorrelation) {
			return entity.SkippedResult(orderID, customerID, entity.SkipAlreadyProcessed), nil
		}
		return nil, err
	}

	account, err := accountRepo.Get(txCtx, customerID)
	if err != nil {
		return nil, err
	}

	if err := r.uow.Commit(txCtx); err != nil {
		return nil, fmt.Errorf("failed to commit reconcile: %w", err)
	}
	committed = true

	return &entity.ReconcileResult{
		OrderID:        orderID,
		CustomerID:     customerID,
		CreditsGranted: grant.Total,
		NewBalance:     account.Balance,
		Packs:          grant.Packs,
	}, nil
}

func (r *Reconciler) skip(result *entity.ReconcileResult) *entity.ReconcileResult {
	r.metrics.ReconcileOutcome(string(result.Reason))
	r.logger.Info("Purchase skipped", map[string]any{
		"order_id":    result.OrderID,
		"customer_id": result.CustomerID,
		"reason":      result.Reason,
	})
	return result
}

func grantNote(orderID, orderName string, grant entity.CreditGrant) string {
	label := orderName
	if label == "" {
		label = orderID
	}
	return fmt.Sprintf("order %s: %s", label, strings.Join(grant.PackCodes(), ","))
}
