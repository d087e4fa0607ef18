package dto

import (
	"fmt"
	"strings"

	"github.com/ownaimerch/merch-credits/internal/domain/entity"
)

// ShopifyCustomer is the customer block of an order payload
type ShopifyCustomer struct {
	ID        FlexibleID `json:"id"`
	Email     string     `json:"email"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Phone     string     `json:"phone"`
}

// ShopifyProperty is a custom line item property
type ShopifyProperty struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// ShopifyLineItem is one order line
type ShopifyLineItem struct {
	VariantID  FlexibleID        `json:"variant_id"`
	SKU        string            `json:"sku"`
	Title      string            `json:"title"`
	Quantity   int               `json:"quantity"`
	Properties []ShopifyProperty `json:"properties"`
}

// ShopifyAddress is the shipping address of an order
type ShopifyAddress struct {
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Phone        string `json:"phone"`
	Country      string `json:"country"`
	CountryCode  string `json:"country_code"`
	Province     string `json:"province"`
	ProvinceCode string `json:"province_code"`
	Address1     string `json:"address1"`
	Address2     string `json:"address2"`
	City         string `json:"city"`
	Zip          string `json:"zip"`
}

// ShopifyOrder is the subset of the orders/paid webhook payload the service reads
type ShopifyOrder struct {
	ID              FlexibleID        `json:"id"`
	Name            string            `json:"name"`
	Email           string            `json:"email"`
	FinancialStatus string            `json:"financial_status"`
	Customer        *ShopifyCustomer  `json:"customer"`
	LineItems       []ShopifyLineItem `json:"line_items"`
	ShippingAddress *ShopifyAddress   `json:"shipping_address"`
}

// ToPurchaseEvent maps the order to a credit purchase event
func (o ShopifyOrder) ToPurchaseEvent() entity.PurchaseEvent {
	event := entity.PurchaseEvent{
		OrderID:         o.ID.String(),
		OrderName:       o.Name,
		CustomerEmail:   o.Email,
		FinancialStatus: o.FinancialStatus,
	}
	if o.Customer != nil {
		event.CustomerID = o.Customer.ID.String()
		if o.Customer.Email != "" {
			event.CustomerEmail = o.Customer.Email
		}
	}
	for _, item := range o.LineItems {
		event.LineItems = append(event.LineItems, entity.PurchaseLineItem{
			VariantID: item.VariantID.String(),
			SKU:       item.SKU,
			Title:     item.Title,
			Quantity:  item.Quantity,
		})
	}
	return event
}

// ToCommerceOrder maps the order for fulfillment forwarding
func (o ShopifyOrder) ToCommerceOrder() entity.CommerceOrder {
	order := entity.CommerceOrder{
		ID:    o.ID.String(),
		Name:  o.Name,
		Email: o.Email,
	}

	var customer ShopifyCustomer
	if o.Customer != nil {
		customer = *o.Customer
	}
	if order.Email == "" {
		order.Email = customer.Email
	}

	var address ShopifyAddress
	if o.ShippingAddress != nil {
		address = *o.ShippingAddress
	}
	order.Shipping = entity.ShippingAddress{
		FirstName: firstNonEmpty(address.FirstName, customer.FirstName),
		LastName:  firstNonEmpty(address.LastName, customer.LastName),
		Phone:     firstNonEmpty(address.Phone, customer.Phone),
		Country:   firstNonEmpty(address.CountryCode, address.Country),
		Region:    firstNonEmpty(address.ProvinceCode, address.Province),
		Address1:  address.Address1,
		Address2:  address.Address2,
		City:      address.City,
		Zip:       address.Zip,
	}

	for _, item := range o.LineItems {
		properties := make(map[string]string, len(item.Properties))
		for _, property := range item.Properties {
			if property.Name == "" || property.Value == nil {
				continue
			}
			value := strings.TrimSpace(fmt.Sprint(property.Value))
			if value != "" {
				properties[property.Name] = value
			}
		}
		order.LineItems = append(order.LineItems, entity.CommerceOrderItem{
			Quantity:   item.Quantity,
			Properties: properties,
		})
	}
	return order
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}

// ReconcileResponse acknowledges a credits webhook
type ReconcileResponse struct {
	OK             bool     `json:"ok"`
	OrderID        string   `json:"orderId,omitempty"`
	CustomerID     uint64   `json:"customerId,omitempty"`
	CreditsGranted int64    `json:"creditsGranted"`
	NewBalance     int64    `json:"newBalance,omitempty"`
	Skipped        bool     `json:"skipped,omitempty"`
	Reason         string   `json:"reason,omitempty"`
	Packs          []string `json:"packs,omitempty"`
}

// NewReconcileResponse maps a reconcile result
func NewReconcileResponse(result *entity.ReconcileResult) ReconcileResponse {
	response := ReconcileResponse{
		OK:             true,
		OrderID:        result.OrderID,
		CustomerID:     result.CustomerID,
		CreditsGranted: result.CreditsGranted,
		NewBalance:     result.NewBalance,
		Skipped:        result.Skipped,
		Reason:         string(result.Reason),
	}
	for _, pack := range result.Packs {
		response.Packs = append(response.Packs, pack.Code)
	}
	return response
}
