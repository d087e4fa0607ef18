package entity

import "time"

// PrintArea places artwork on the front of a garment, in relative coordinates
type PrintArea struct {
	Scale float64 `json:"scale"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Angle float64 `json:"angle"`
}

// StandardPrintArea is the placement used for every storefront order
func StandardPrintArea() PrintArea {
	return PrintArea{Scale: 0.55, X: 0.5, Y: 0.42, Angle: 0}
}

// ProductRef identifies a print-on-demand catalog product
type ProductRef struct {
	BlueprintID     int64
	PrintProviderID int64
	VariantID       int64
}

// ShippingAddress is the recipient of a print order
type ShippingAddress struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Country   string
	Region    string
	Address1  string
	Address2  string
	City      string
	Zip       string
}

// WithDefaults fills fields the print provider requires
func (a ShippingAddress) WithDefaults() ShippingAddress {
	if a.FirstName == "" {
		a.FirstName = "AI"
	}
	if a.LastName == "" {
		a.LastName = "Customer"
	}
	if a.Phone == "" {
		a.Phone = "000000000"
	}
	if a.Country == "" {
		a.Country = "US"
	}
	return a
}

// RemoteImage is artwork uploaded to the fulfillment provider
type RemoteImage struct {
	ID         string
	PreviewURL string
}

// PrintLineItem is one printed item of an order
type PrintLineItem struct {
	Product    ProductRef
	Quantity   int
	ExternalID string
	ImageURL   string
	PrintArea  PrintArea
}

// PrintOrder is submitted to the fulfillment provider
type PrintOrder struct {
	ExternalID     string
	Label          string
	LineItems      []PrintLineItem
	ShippingMethod int
	Address        ShippingAddress
}

// PrintOrderRequest is a direct storefront order for freshly generated artwork
type PrintOrderRequest struct {
	ImageBase64    string
	Prompt         string
	ExternalID     string
	Product        ProductRef // zero fields fall back to the configured default product
	Quantity       int
	ShippingMethod int
	Shipping       ShippingAddress
}

// PrintOrderResult is the created order
type PrintOrderResult struct {
	OrderID    string
	ExternalID string
	ImageURL   string
	PrintArea  PrintArea
	Skipped    bool
	Reason     string
}

// ProductRequest creates a hidden catalog product for artwork
type ProductRequest struct {
	ImageURL string
	Prompt   string
}

// ProductResult is the created product
type ProductResult struct {
	ProductID string
	MockupURL string
}

// CommerceOrderItem is a commerce order line with its custom properties
type CommerceOrderItem struct {
	Quantity   int
	Properties map[string]string
}

// CommerceOrder is a paid commerce order forwarded to fulfillment
type CommerceOrder struct {
	ID        string
	Name      string
	Email     string
	LineItems []CommerceOrderItem
	Shipping  ShippingAddress
}

// Line item properties attached by the storefront to AI artwork
const (
	PropertyArtworkID  = "ai_id"
	PropertyArtworkURL = "ai_image_url"
)

// ForwardedOrder is the claim taken on a commerce order before its print order is placed
type ForwardedOrder struct {
	ExternalID   string
	PrintOrderID string // empty until the print provider accepted the order
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Placed reports whether the print provider accepted the order
func (o ForwardedOrder) Placed() bool {
	return o.PrintOrderID != ""
}

// CommerceExternalID is the print order external id of a commerce order
func CommerceExternalID(orderRef string) string {
	return "shopify-" + orderRef
}
