package entity

// OperationType tags a usage record
type OperationType string

const (
	// OperationGenerate is a plain image generation
	OperationGenerate OperationType = "generate"
	// OperationGenerateRemoveBackground is a generation with the background removal add-on
	OperationGenerateRemoveBackground OperationType = "generate_remove_bg"
	// OperationTrialGenerate is a generation waived by the one-time trial
	OperationTrialGenerate OperationType = "trial_generate"
	// OperationPackPurchase is a credit grant from a purchased pack
	OperationPackPurchase OperationType = "pack_purchase"
)

// Pricing holds the nominal cost of billable operations in credit units
type Pricing struct {
	Generate          int64
	BackgroundRemoval int64
}

// DefaultPricing mirrors the storefront price list: 1 credit, 3 with background removal
func DefaultPricing() Pricing {
	return Pricing{
		Generate:          1,
		BackgroundRemoval: 2,
	}
}

// Operation is a billable request as seen by the entitlement evaluator
type Operation struct {
	Type             OperationType
	RemoveBackground bool
	NominalCost      int64
}

// GenerationOperation prices a generation; add-on costs are additive
func (p Pricing) GenerationOperation(removeBackground bool) Operation {
	if removeBackground {
		return Operation{
			Type:             OperationGenerateRemoveBackground,
			RemoveBackground: true,
			NominalCost:      p.Generate + p.BackgroundRemoval,
		}
	}
	return Operation{
		Type:        OperationGenerate,
		NominalCost: p.Generate,
	}
}

// WithoutBackgroundRemoval reprices an operation whose add-on could not be delivered
func (p Pricing) WithoutBackgroundRemoval(op Operation) Operation {
	if !op.RemoveBackground {
		return op
	}
	return p.GenerationOperation(false)
}

// UsageType returns the usage tag recorded for the operation under the given billing mode
func (o Operation) UsageType(mode BillingMode) OperationType {
	if mode == BillingModeFreeTrial {
		return OperationTrialGenerate
	}
	return o.Type
}
