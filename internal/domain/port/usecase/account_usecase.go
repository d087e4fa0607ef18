package usecase

import (
	"context"

	"github.com/ownaimerch/merch-credits/internal/domain/entity"
)

// AccountBalanceResponse is the storefront view of an account
type AccountBalanceResponse struct {
	CustomerID     uint64
	Email          string
	Credits        int64
	TrialAvailable bool
	TotalUsed      int64
	TotalPurchased int64
}

// AccountRegistry ensures a ledger row exists for an external identity
type AccountRegistry interface {
	// GetOrCreate returns the account, lazily creating it with the starting allowance.
	// Safe under concurrent first requests for the same identity.
	GetOrCreate(ctx context.Context, identity entity.Identity) (*entity.Account, error)

	// GetBalance returns the balance view, creating the account on first sight
	GetBalance(ctx context.Context, identity entity.Identity) (*AccountBalanceResponse, error)

	// GetUsageHistory returns the most recent usage records of an account
	GetUsageHistory(ctx context.Context, customerID uint64, limit int) ([]*entity.UsageRecord, error)

	// CorrelationUsed reports whether an operation with this idempotency key was already recorded
	CorrelationUsed(ctx context.Context, correlationID string) (bool, error)
}
