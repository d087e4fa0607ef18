package dto

import (
	"time"

	"github.com/ownaimerch/merch-credits/internal/domain/entity"
	"github.com/ownaimerch/merch-credits/internal/domain/port/usecase"
)

// CreditsQuery is the balance lookup; customerId/email may also come from a token
type CreditsQuery struct {
	CustomerID string `form:"customerId"`
	Email      string `form:"email"`
	Limit      int    `form:"limit" binding:"omitempty,min=1,max=100"`
}

// CreditsResponse is the storefront balance view
type CreditsResponse struct {
	OK             bool   `json:"ok"`
	CustomerID     uint64 `json:"customerId"`
	Email          string `json:"email,omitempty"`
	Credits        int64  `json:"credits"`
	TrialAvailable bool   `json:"trialAvailable"`
	TotalUsed      int64  `json:"totalUsed"`
	TotalPurchased int64  `json:"totalPurchased"`
}

// NewCreditsResponse maps the registry view
func NewCreditsResponse(balance *usecase.AccountBalanceResponse) CreditsResponse {
	return CreditsResponse{
		OK:             true,
		CustomerID:     balance.CustomerID,
		Email:          balance.Email,
		Credits:        balance.Credits,
		TrialAvailable: balance.TrialAvailable,
		TotalUsed:      balance.TotalUsed,
		TotalPurchased: balance.TotalPurchased,
	}
}

// UsageRecord is one audit entry
type UsageRecord struct {
	ID            uint64    `json:"id"`
	Type          string    `json:"type"`
	Cost          int64     `json:"cost"`
	NominalCost   int64     `json:"nominalCost"`
	BillingMode   string    `json:"billingMode"`
	Note          string    `json:"note,omitempty"`
	CorrelationID string    `json:"correlationId,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// HistoryResponse lists recent usage, newest first
type HistoryResponse struct {
	OK         bool          `json:"ok"`
	CustomerID uint64        `json:"customerId"`
	Records    []UsageRecord `json:"records"`
}

// NewHistoryResponse maps usage records
func NewHistoryResponse(customerID uint64, records []*entity.UsageRecord) HistoryResponse {
	out := make([]UsageRecord, 0, len(records))
	for _, record := range records {
		out = append(out, UsageRecord{
			ID:            record.ID,
			Type:          string(record.OperationType),
			Cost:          record.Cost,
			NominalCost:   record.NominalCost,
			BillingMode:   string(record.BillingMode),
			Note:          record.Note,
			CorrelationID: record.CorrelationID,
			CreatedAt:     record.CreatedAt,
		})
	}
	return HistoryResponse{OK: true, CustomerID: customerID, Records: out}
}
