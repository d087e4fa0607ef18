package core

// Metrics records ledger and provider outcomes for observability
type Metrics interface {
	// ChargeCommitted counts a committed charge by billing mode and the credits deducted
	ChargeCommitted(billingMode string, cost int64)
	// ChargeRaceLost counts a charge that affected no rows after paid work succeeded
	ChargeRaceLost(billingMode string)
	// EntitlementDenied counts a denied evaluation by reason
	EntitlementDenied(reason string)
	// CreditsGranted counts credits granted by the reconciler
	CreditsGranted(credits int64)
	// ReconcileOutcome counts a reconcile run by outcome (granted or a skip reason)
	ReconcileOutcome(outcome string)
	// ProviderCall observes an external provider call
	ProviderCall(provider, operation string, success bool, seconds float64)
	// BackgroundRemovalDegraded counts a background removal that fell back to the original image
	BackgroundRemovalDegraded()
}
