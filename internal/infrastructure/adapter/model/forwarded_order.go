package model

import (
	"time"
)

// ForwardedOrder represents a commerce order claimed for print fulfillment
type ForwardedOrder struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement"`
	ExternalID   string    `gorm:"not null;size:255;uniqueIndex:idx_forwarded_orders_external_id"`
	PrintOrderID string    `gorm:"not null;size:255;default:''"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

// TableName specifies the table name for ForwardedOrder
func (ForwardedOrder) TableName() string {
	return "print_order_forwards"
}
