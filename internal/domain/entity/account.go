package entity

import (
	"time"

	errs "github.com/ownaimerch/merch-credits/internal/domain/error"
	coreport "github.com/ownaimerch/merch-credits/internal/domain/port/core"
)

// Account is the per-customer ledger row: spendable credits and trial state
type Account struct {
	CustomerID     uint64    // Stable external identity (Shopify customer id)
	Email          string    // Informational only
	Balance        int64     // Spendable credit units, never negative
	TrialUsed      bool      // True once the one-time free operation was consumed
	TotalUsed      int64     // Lifetime credits debited
	TotalPurchased int64     // Lifetime credits granted from packs
	CreatedAt      time.Time // When the account was first seen
	UpdatedAt      time.Time // Last mutation
}

// NewAccount creates a fresh account with the starting allowance and the trial available
func NewAccount(identity Identity, startingBalance int64, timeProvider coreport.TimeProvider) (*Account, error) {
	if identity.CustomerID == 0 {
		return nil, errs.ErrInvalidIdentity
	}
	if startingBalance < 0 {
		return nil, errs.ErrInvalidCost
	}

	now := timeProvider.Now()
	return &Account{
		CustomerID: identity.CustomerID,
		Email:      identity.Email,
		Balance:    startingBalance,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// TrialAvailable reports whether the next billable operation is waived
func (a *Account) TrialAvailable() bool {
	return !a.TrialUsed
}

// HasPurchased reports whether the customer ever bought a credit pack
func (a *Account) HasPurchased() bool {
	return a.TotalPurchased > 0
}

// Covers reports whether the balance covers the given cost
func (a *Account) Covers(cost int64) bool {
	return a.Balance >= cost
}

// NeedsEmailRefresh reports whether a supplied email differs from the stored one
func (a *Account) NeedsEmailRefresh(email string) bool {
	return email != "" && email != a.Email
}
