package account

import (
	"context"
	"errors"

	"github.com/ownaimerch/merch-credits/internal/domain/entity"
	errs "github.com/ownaimerch/merch-credits/internal/domain/error"
	coreport "github.com/ownaimerch/merch-credits/internal/domain/port/core"
	"github.com/ownaimerch/merch-credits/internal/domain/port/persistence"
	"github.com/ownaimerch/merch-credits/internal/domain/port/usecase"
)

const (
	// DefaultHistoryLimit is used when a caller asks for usage history without a limit
	DefaultHistoryLimit = 20
	// MaxHistoryLimit caps a single usage history page
	MaxHistoryLimit = 100
)

// Registry lazily provisions ledger accounts for external identities
type Registry struct {
	accountRepo     persistence.AccountRepository
	usageRepo       persistence.UsageRepository
	startingBalance int64
	timeProvider    coreport.TimeProvider
	logger          coreport.Logger
}

// NewRegistry creates a new account registry
func NewRegistry(
	accountRepo persistence.AccountRepository,
	usageRepo persistence.UsageRepository,
	startingBalance int64,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) usecase.AccountRegistry {
	return &Registry{
		accountRepo:     accountRepo,
		usageRepo:       usageRepo,
		startingBalance: startingBalance,
		timeProvider:    timeProvider,
		logger:          logger,
	}
}

// GetOrCreate returns the account for the identity, inserting it on first sight.
// Concurrent first requests race on InsertIfAbsent; the loser reads the winner's row.
func (r *Registry) GetOrCreate(ctx context.Context, identity entity.Identity) (*entity.Account, error) {
	if identity.IsZero() {
		return nil, errs.ErrNotAuthenticated
	}

	account, err := r.accountRepo.Get(ctx, identity.CustomerID)
	switch {
	case err == nil:
		r.refreshEmail(ctx, account, identity.Email)
		return account, nil
	case !errors.Is(err, errs.ErrAccountNotFound):
		return nil, err
	}

	fresh, err := entity.NewAccount(identity, r.startingBalance, r.timeProvider)
	if err != nil {
		return nil, err
	}

	created, err := r.accountRepo.InsertIfAbsent(ctx, fresh)
	if err != nil {
		r.logger.Error("Failed to create account", map[string]any{
			"customer_id": identity.CustomerID,
			"error":       err.Error(),
		})
		return nil, err
	}
	if created {
		r.logger.Info("Account created", map[string]any{
			"customer_id":      identity.CustomerID,
			"starting_balance": r.startingBalance,
		})
		return fresh, nil
	}

	// Lost the insert race to a concurrent first request
	account, err = r.accountRepo.Get(ctx, identity.CustomerID)
	if err != nil {
		return nil, err
	}
	r.refreshEmail(ctx, account, identity.Email)
	return account, nil
}

func (r *Registry) refreshEmail(ctx context.Context, account *entity.Account, email string) {
	if !account.NeedsEmailRefresh(email) {
		return
	}
	if err := r.accountRepo.UpdateEmail(ctx, account.CustomerID, email); err != nil {
		r.logger.Warn("Failed to refresh account email", map[string]any{
			"customer_id": account.CustomerID,
			"error":       err.Error(),
		})
		return
	}
	account.Email = email
}

// GetBalance returns the storefront balance view
func (r *Registry) GetBalance(ctx context.Context, identity entity.Identity) (*usecase.AccountBalanceResponse, error) {
	account, err := r.GetOrCreate(ctx, identity)
	if err != nil {
		return nil, err
	}

	return &usecase.AccountBalanceResponse{
		CustomerID:     account.CustomerID,
		Email:          account.Email,
		Credits:        account.Balance,
		TrialAvailable: account.TrialAvailable(),
		TotalUsed:      account.TotalUsed,
		TotalPurchased: account.TotalPurchased,
	}, nil
}

// GetUsageHistory returns the newest usage records of a customer
func (r *Registry) GetUsageHistory(ctx context.Context, customerID uint64, limit int) ([]*entity.UsageRecord, error) {
	if customerID == 0 {
		return nil, errs.ErrInvalidIdentity
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}
	return r.usageRepo.ListByCustomer(ctx, customerID, limit)
}

// CorrelationUsed reports whether an operation with this idempotency key was already recorded
func (r *Registry) CorrelationUsed(ctx context.Context, correlationID string) (bool, error) {
	if correlationID == "" {
		return false, nil
	}
	return r.usageRepo.ExistsByCorrelationID(ctx, correlationID)
}
