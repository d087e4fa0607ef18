package model

import (
	"time"
)

// UsageRecord represents one row of the append-only usage log
type UsageRecord struct {
	ID            uint64    `gorm:"primaryKey;autoIncrement"`
	CustomerID    uint64    `gorm:"not null;index:idx_usage_customer_created,priority:1"`
	OperationType string    `gorm:"not null;size:50"`
	Cost          int64     `gorm:"not null"`
	NominalCost   int64     `gorm:"not null;default:0"`
	BillingMode   string    `gorm:"not null;size:20"`
	Note          string    `gorm:"type:text"`
	CorrelationID *string   `gorm:"size:255;uniqueIndex:idx_usage_correlation_id"` // NULL for operations without an idempotency key
	CreatedAt     time.Time `gorm:"not null;index:idx_usage_customer_created,priority:2"`
}

// TableName specifies the table name for UsageRecord
func (UsageRecord) TableName() string {
	return "credit_usage_records"
}
