package entity

import errs "github.com/ownaimerch/merch-credits/internal/domain/error"

// BillingMode classifies how an operation is paid for
type BillingMode string

const (
	BillingModeFreeTrial BillingMode = "FREE_TRIAL"
	BillingModePaid      BillingMode = "PAID"
	BillingModeDenied    BillingMode = "DENIED"
)

// DenialReason explains a DENIED decision
type DenialReason string

const (
	DenialInsufficientBalance   DenialReason = DenialReason(errs.CodeInsufficientBalance)
	DenialCapabilityNotEntitled DenialReason = DenialReason(errs.CodeCapabilityNotEntitled)
	DenialNotAuthenticated      DenialReason = DenialReason(errs.CodeNotAuthenticated)
)

// Decision is the read-only outcome of an entitlement evaluation
type Decision struct {
	CustomerID   uint64
	Allowed      bool
	BillingMode  BillingMode
	Cost         int64 // effective cost to charge, 0 on trial
	NominalCost  int64
	DenialReason DenialReason
	Balance      int64 // balance at evaluation time, for display
	Required     int64 // required amount on denial, for display
}

// Err converts a denied decision to its domain error, nil when allowed
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	switch d.DenialReason {
	case DenialCapabilityNotEntitled:
		return errs.NewCapabilityNotEntitledError(d.CustomerID, d.Balance, d.Required)
	case DenialNotAuthenticated:
		return errs.ErrNotAuthenticated
	default:
		return errs.NewInsufficientBalanceError(d.CustomerID, d.Balance, d.Required)
	}
}
