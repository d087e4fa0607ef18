package entitlement

import (
	"github.com/ownaimerch/merch-credits/internal/domain/entity"
	"github.com/ownaimerch/merch-credits/internal/domain/port/usecase"
)

// Config holds the capability gates of the evaluator
type Config struct {
	// BackgroundRemovalRequiresPurchase denies background removal to accounts that never bought a pack
	BackgroundRemovalRequiresPurchase bool
}

// Evaluator is the pure entitlement decision function
type Evaluator struct {
	config Config
}

// NewEvaluator creates a new entitlement evaluator
func NewEvaluator(config Config) usecase.EntitlementEvaluator {
	return &Evaluator{config: config}
}

// Evaluate decides how an operation is billed for the given account snapshot.
// Order: capability gate, free trial, balance.
func (e *Evaluator) Evaluate(account *entity.Account, operation entity.Operation) entity.Decision {
	if account == nil {
		return entity.Decision{
			BillingMode:  entity.BillingModeDenied,
			NominalCost:  operation.NominalCost,
			DenialReason: entity.DenialNotAuthenticated,
			Required:     operation.NominalCost,
		}
	}

	decision := entity.Decision{
		CustomerID:  account.CustomerID,
		NominalCost: operation.NominalCost,
		Balance:     account.Balance,
	}

	if operation.RemoveBackground && e.config.BackgroundRemovalRequiresPurchase && !account.HasPurchased() {
		decision.BillingMode = entity.BillingModeDenied
		decision.DenialReason = entity.DenialCapabilityNotEntitled
		decision.Required = operation.NominalCost
		return decision
	}

	if account.TrialAvailable() {
		decision.Allowed = true
		decision.BillingMode = entity.BillingModeFreeTrial
		decision.Cost = 0
		return decision
	}

	if account.Covers(operation.NominalCost) {
		decision.Allowed = true
		decision.BillingMode = entity.BillingModePaid
		decision.Cost = operation.NominalCost
		return decision
	}

	decision.BillingMode = entity.BillingModeDenied
	decision.DenialReason = entity.DenialInsufficientBalance
	decision.Required = operation.NominalCost
	return decision
}
