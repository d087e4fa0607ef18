package charge

import (
	"context"
	"errors"
	"fmt"

	"github.com/ownaimerch/merch-credits/internal/domain/entity"
	errs "github.com/ownaimerch/merch-credits/internal/domain/error"
	coreport "github.com/ownaimerch/merch-credits/internal/domain/port/core"
	"github.com/ownaimerch/merch-credits/internal/domain/port/persistence"
	"github.com/ownaimerch/merch-credits/internal/domain/port/usecase"
)

// Executor applies decided charges. It is the only component that decrements balances.
type Executor struct {
	uow          persistence.UnitOfWork
	metrics      coreport.Metrics
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewExecutor creates a new charge executor
func NewExecutor(
	uow persistence.UnitOfWork,
	metrics coreport.Metrics,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) usecase.ChargeExecutor {
	return &Executor{
		uow:          uow,
		metrics:      metrics,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Charge consumes the trial or conditionally decrements the balance, then appends the usage record,
// all in one store transaction. A correlation id that was already charged is replayed without a new debit.
func (e *Executor) Charge(
	ctx context.Context,
	customerID uint64,
	billingMode entity.BillingMode,
	cost int64,
	meta entity.UsageMeta,
) (*entity.ChargeResult, error) {
	if customerID == 0 {
		return nil, errs.ErrInvalidIdentity
	}

	switch billingMode {
	case entity.BillingModeFreeTrial:
		cost = 0
	case entity.BillingModePaid:
		if cost <= 0 {
			return nil, errs.ErrInvalidCost
		}
	default:
		return nil, errs.ErrInvalidBillingMode
	}

	txCtx, err := e.uow.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin charge: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			if rbErr := e.uow.Rollback(txCtx); rbErr != nil {
				e.logger.Warn("Failed to roll back charge", map[string]any{
					"customer_id": customerID,
					"error":       rbErr.Error(),
				})
			}
		}
	}()

	accountRepo := e.uow.GetAccountRepository(txCtx)
	usageRepo := e.uow.GetUsageRepository(txCtx)

	if meta.CorrelationID != "" {
		exists, err := usageRepo.ExistsByCorrelationID(txCtx, meta.CorrelationID)
		if err != nil {
			return nil, err
		}
		if exists {
			return e.replay(txCtx, accountRepo, customerID, billingMode, meta)
		}
	}

	var applied bool
	if billingMode == entity.BillingModeFreeTrial {
		applied, err = accountRepo.ConsumeTrial(txCtx, customerID)
	} else {
		applied, err = accountRepo.ConditionalDecrement(txCtx, customerID, cost)
	}
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, e.raceLost(txCtx, accountRepo, customerID, billingMode, cost, meta)
	}

	record := &entity.UsageRecord{
		CustomerID:    customerID,
		OperationType: meta.OperationType,
		Cost:          cost,
		NominalCost:   meta.NominalCost,
		BillingMode:   billingMode,
		Note:          meta.Note,
		CorrelationID: meta.CorrelationID,
		CreatedAt:     e.timeProvider.Now(),
	}
	if err := usageRepo.Append(txCtx, record); err != nil {
		if errors.Is(err, errs.ErrDuplicateCorrelation) {
			// A concurrent charge with the same correlation id committed first
			if rbErr := e.uow.Rollback(txCtx); rbErr != nil {
				return nil, rbErr
			}
			committed = true
			return e.replay(ctx, e.uow.GetAccountRepository(ctx), customerID, billingMode, meta)
		}
		return nil, err
	}

	account, err := accountRepo.Get(txCtx, customerID)
	if err != nil {
		return nil, err
	}

	if err := e.uow.Commit(txCtx); err != nil {
		return nil, fmt.Errorf("failed to commit charge: %w", err)
	}
	committed = true

	e.metrics.ChargeCommitted(string(billingMode), cost)
	e.logger.Info("Charge committed", map[string]any{
		"customer_id":    customerID,
		"billing_mode":   billingMode,
		"cost":           cost,
		"nominal_cost":   meta.NominalCost,
		"operation_type": meta.OperationType,
		"correlation_id": meta.CorrelationID,
		"new_balance":    account.Balance,
	})

	return &entity.ChargeResult{
		CustomerID:  customerID,
		BillingMode: billingMode,
		Charged:     cost,
		NewBalance:  account.Balance,
		TrialUsed:   account.TrialUsed,
	}, nil
}

func (e *Executor) replay(
	ctx context.Context,
	accountRepo persistence.AccountRepository,
	customerID uint64,
	billingMode entity.BillingMode,
	meta entity.UsageMeta,
) (*entity.ChargeResult, error) {
	account, err := accountRepo.Get(ctx, customerID)
	if err != nil {
		return nil, err
	}

	e.logger.Info("Charge already applied", map[string]any{
		"customer_id":    customerID,
		"correlation_id": meta.CorrelationID,
	})

	return &entity.ChargeResult{
		CustomerID:  customerID,
		BillingMode: billingMode,
		NewBalance:  account.Balance,
		TrialUsed:   account.TrialUsed,
		Replayed:    true,
	}, nil
}

// raceLost classifies a conditional update that affected no rows
func (e *Executor) raceLost(
	ctx context.Context,
	accountRepo persistence.AccountRepository,
	customerID uint64,
	billingMode entity.BillingMode,
	cost int64,
	meta entity.UsageMeta,
) error {
	if _, err := accountRepo.Get(ctx, customerID); err != nil {
		return err
	}

	raceErr := errs.NewRaceLostError(customerID, string(billingMode), cost, meta.CorrelationID)
	e.metrics.ChargeRaceLost(string(billingMode))
	e.logger.Error("Charge lost a concurrent race after paid work completed", errs.LogFields(raceErr))
	return raceErr
}
