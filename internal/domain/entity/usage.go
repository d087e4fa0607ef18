package entity

import (
	"fmt"
	"time"
)

// UsageRecord is an append-only audit entry, one per billed, waived or granted operation
type UsageRecord struct {
	ID            uint64
	CustomerID    uint64
	OperationType OperationType
	Cost          int64 // positive debit, negative credit grant
	NominalCost   int64
	BillingMode   BillingMode
	Note          string
	CorrelationID string // empty when the operation carries no idempotency key
	CreatedAt     time.Time
}

// UsageMeta describes the operation a charge is for
type UsageMeta struct {
	OperationType OperationType
	NominalCost   int64
	Note          string
	CorrelationID string
}

// BillingModeGrant tags usage records of credit grants, which are not charges
const BillingModeGrant BillingMode = "GRANT"

// ChargeResult is the outcome of a committed charge
type ChargeResult struct {
	CustomerID  uint64
	BillingMode BillingMode
	Charged     int64
	NewBalance  int64
	TrialUsed   bool
	Replayed    bool // the correlation id was already charged; nothing new was deducted
}

// OrderCorrelationID is the idempotency key of a commerce order grant
func OrderCorrelationID(orderID string) string {
	return fmt.Sprintf("shopify-order:%s", orderID)
}

// GenerationCorrelationID is the idempotency key of a billed generation, scoped to its customer
func GenerationCorrelationID(customerID uint64, requestID string) string {
	return fmt.Sprintf("generation:%d:%s", customerID, requestID)
}
