package dto

import "github.com/ownaimerch/merch-credits/internal/domain/entity"

// Shipping is a recipient address in storefront field names
type Shipping struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email" binding:"omitempty,email"`
	Phone     string `json:"phone"`
	Country   string `json:"country"`
	Region    string `json:"region"`
	Address1  string `json:"address1"`
	Address2  string `json:"address2"`
	City      string `json:"city"`
	Zip       string `json:"zip"`
}

// ToEntity maps to the domain address
func (s Shipping) ToEntity() entity.ShippingAddress {
	return entity.ShippingAddress{
		FirstName: s.FirstName,
		LastName:  s.LastName,
		Email:     s.Email,
		Phone:     s.Phone,
		Country:   s.Country,
		Region:    s.Region,
		Address1:  s.Address1,
		Address2:  s.Address2,
		City:      s.City,
		Zip:       s.Zip,
	}
}

// PrintOrderRequest orders a print of freshly generated artwork
type PrintOrderRequest struct {
	Base64          string   `json:"base64" binding:"required"`
	Prompt          string   `json:"prompt"`
	ExternalID      string   `json:"external_id" binding:"omitempty,max=64"`
	Quantity        int      `json:"quantity" binding:"omitempty,min=1,max=100"`
	ShippingMethod  int      `json:"shipping_method" binding:"omitempty,min=1"`
	BlueprintID     int64    `json:"blueprint_id" binding:"omitempty,min=1"`
	PrintProviderID int64    `json:"print_provider_id" binding:"omitempty,min=1"`
	VariantID       int64    `json:"variant_id" binding:"omitempty,min=1"`
	Shipping        Shipping `json:"shipping"`
}

// ToEntity maps to the domain request
func (r PrintOrderRequest) ToEntity() entity.PrintOrderRequest {
	return entity.PrintOrderRequest{
		ImageBase64: r.Base64,
		Prompt:      r.Prompt,
		ExternalID:  r.ExternalID,
		Product: entity.ProductRef{
			BlueprintID:     r.BlueprintID,
			PrintProviderID: r.PrintProviderID,
			VariantID:       r.VariantID,
		},
		Quantity:       r.Quantity,
		ShippingMethod: r.ShippingMethod,
		Shipping:       r.Shipping.ToEntity(),
	}
}

// PrintOrderResponse is the created order
type PrintOrderResponse struct {
	OK         bool             `json:"ok"`
	OrderID    string           `json:"orderId,omitempty"`
	ExternalID string           `json:"externalId"`
	ImageSrc   string           `json:"imageSrc,omitempty"`
	PrintArea  entity.PrintArea `json:"printArea"`
	Skipped    bool             `json:"skipped,omitempty"`
	Reason     string           `json:"reason,omitempty"`
}

// NewPrintOrderResponse maps an order result
func NewPrintOrderResponse(result *entity.PrintOrderResult) PrintOrderResponse {
	return PrintOrderResponse{
		OK:         true,
		OrderID:    result.OrderID,
		ExternalID: result.ExternalID,
		ImageSrc:   result.ImageURL,
		PrintArea:  result.PrintArea,
		Skipped:    result.Skipped,
		Reason:     result.Reason,
	}
}

// ProductRequest creates a hidden product for stored artwork
type ProductRequest struct {
	ImageURL string `json:"image_url" binding:"required,url"`
	Prompt   string `json:"prompt"`
}

// ProductResponse is the created product
type ProductResponse struct {
	OK        bool   `json:"ok"`
	ProductID string `json:"productId"`
	MockupURL string `json:"mockupUrl,omitempty"`
	Prompt    string `json:"prompt,omitempty"`
}

// CatalogQuery narrows a print catalog lookup
type CatalogQuery struct {
	Search          string `form:"search" binding:"omitempty,max=100"`
	BlueprintID     int64  `form:"blueprint_id" binding:"omitempty,min=1"`
	PrintProviderID int64  `form:"print_provider_id" binding:"omitempty,min=1"`
}

// BlueprintsResponse lists catalog blueprints
type BlueprintsResponse struct {
	OK         bool               `json:"ok"`
	Blueprints []entity.Blueprint `json:"blueprints"`
}

// ProvidersResponse lists the print providers of a blueprint
type ProvidersResponse struct {
	OK          bool                   `json:"ok"`
	BlueprintID int64                  `json:"blueprintId"`
	Providers   []entity.PrintProvider `json:"providers"`
}

// VariantsResponse lists the variants of a blueprint at a print provider
type VariantsResponse struct {
	OK              bool                    `json:"ok"`
	BlueprintID     int64                   `json:"blueprintId"`
	PrintProviderID int64                   `json:"printProviderId"`
	Variants        []entity.CatalogVariant `json:"variants"`
}

// ShopsResponse lists the shops of the print provider account
type ShopsResponse struct {
	OK    bool          `json:"ok"`
	Shops []entity.Shop `json:"shops"`
}
