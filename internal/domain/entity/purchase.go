package entity

import "strings"

// SkipReason explains a reconcile run that granted nothing
type SkipReason string

const (
	SkipNoOrder          SkipReason = "NO_ORDER"
	SkipNotPaid          SkipReason = "NOT_PAID"
	SkipNoCustomer       SkipReason = "NO_CUSTOMER"
	SkipNoPacks          SkipReason = "NO_PACKS"
	SkipAlreadyProcessed SkipReason = "ALREADY_PROCESSED"
)

// PurchaseLineItem is one purchased line of a commerce order
type PurchaseLineItem struct {
	VariantID string
	SKU       string
	Title     string
	Quantity  int
}

// PurchaseEvent is a "purchase completed" notification from the commerce platform
type PurchaseEvent struct {
	OrderID         string
	OrderName       string
	CustomerID      string // raw, normalized by the reconciler
	CustomerEmail   string
	FinancialStatus string
	LineItems       []PurchaseLineItem
}

// IsPaid reports whether the event status is one of the accepted paid statuses
func (e PurchaseEvent) IsPaid(paidStatuses []string) bool {
	status := strings.ToLower(strings.TrimSpace(e.FinancialStatus))
	if status == "" {
		return false
	}
	for _, paid := range paidStatuses {
		if status == strings.ToLower(paid) {
			return true
		}
	}
	return false
}

// GrantedPack is one pack line that contributed to a grant
type GrantedPack struct {
	VariantID string
	Code      string
	Quantity  int
	Credits   int64
}

// CreditGrant is the result of mapping an order's line items through the pack catalog
type CreditGrant struct {
	Total int64
	Packs []GrantedPack
}

// MapGrant sums pack credits across line items; unknown variants are skipped
func MapGrant(items []PurchaseLineItem, catalog *PackCatalog) CreditGrant {
	var grant CreditGrant
	for _, item := range items {
		pack, ok := catalog.Lookup(item.VariantID)
		if !ok {
			continue
		}
		quantity := item.Quantity
		if quantity == 0 {
			quantity = 1
		}
		if quantity < 0 {
			continue
		}
		credits := pack.Credits * int64(quantity)
		grant.Total += credits
		grant.Packs = append(grant.Packs, GrantedPack{
			VariantID: pack.VariantID,
			Code:      pack.Code,
			Quantity:  quantity,
			Credits:   credits,
		})
	}
	return grant
}

// PackCodes lists the codes of the granted packs
func (g CreditGrant) PackCodes() []string {
	codes := make([]string, 0, len(g.Packs))
	for _, pack := range g.Packs {
		codes = append(codes, pack.Code)
	}
	return codes
}

// ReconcileResult is the outcome of applying a purchase event
type ReconcileResult struct {
	OrderID        string
	CustomerID     uint64
	CreditsGranted int64
	Skipped        bool
	Reason         SkipReason
	NewBalance     int64
	Packs          []GrantedPack
}

// SkippedResult builds a no-op result
func SkippedResult(orderID string, customerID uint64, reason SkipReason) *ReconcileResult {
	return &ReconcileResult{
		OrderID:    orderID,
		CustomerID: customerID,
		Skipped:    true,
		Reason:     reason,
	}
}
