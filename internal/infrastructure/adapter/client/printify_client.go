package client

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/ownaimerch/merch-credits/internal/domain/entity"
	errs "github.com/ownaimerch/merch-credits/internal/domain/error"
	"github.com/ownaimerch/merch-credits/internal/infrastructure/config"
)

const productDescription = "Generated with your imagination and AI"

// PrintifyClient talks to the Printify shop API
type PrintifyClient struct {
	http            httpClient
	token           string
	shopID          string
	product         entity.ProductRef
	productVariants []int64
	printArea       entity.PrintArea
}

type printifyImage struct {
	Src   string  `json:"src"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Scale float64 `json:"scale"`
	Angle float64 `json:"angle"`
}

type printifyAddress struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Country   string `json:"country"`
	Region    string `json:"region"`
	Address1  string `json:"address1"`
	Address2  string `json:"address2"`
	City      string `json:"city"`
	Zip       string `json:"zip"`
}

type printifyLineItem struct {
	PrintProviderID int64                      `json:"print_provider_id"`
	BlueprintID     int64                      `json:"blueprint_id"`
	VariantID       int64                      `json:"variant_id"`
	Quantity        int                        `json:"quantity"`
	ExternalID      string                     `json:"external_id,omitempty"`
	PrintAreas      map[string][]printifyImage `json:"print_areas"`
}

type printifyOrderRequest struct {
	ExternalID               string             `json:"external_id"`
	Label                    string             `json:"label,omitempty"`
	LineItems                []printifyLineItem `json:"line_items"`
	ShippingMethod           int                `json:"shipping_method"`
	IsPrintifyExpress        bool               `json:"is_printify_express"`
	IsEconomyShipping        bool               `json:"is_economy_shipping"`
	SendShippingNotification bool               `json:"send_shipping_notification"`
	AddressTo                printifyAddress    `json:"address_to"`
}

type printifyVariant struct {
	ID        int64 `json:"id"`
	IsEnabled bool  `json:"is_enabled"`
}

type printifyPlaceholder struct {
	Position string          `json:"position"`
	Images   []printifyImage `json:"images"`
}

type printifyProductArea struct {
	VariantIDs   []int64               `json:"variant_ids"`
	Placeholders []printifyPlaceholder `json:"placeholders"`
}

type printifyProductRequest struct {
	Title           string                `json:"title"`
	Description     string                `json:"description"`
	BlueprintID     int64                 `json:"blueprint_id"`
	PrintProviderID int64                 `json:"print_provider_id"`
	Variants        []printifyVariant     `json:"variants"`
	PrintAreas      []printifyProductArea `json:"print_areas"`
	IsVisible       bool                  `json:"is_visible"`
}

type printifyProductResponse struct {
	ID     string `json:"id"`
	Images []struct {
		Src string `json:"src"`
	} `json:"images"`
}

// NewPrintifyClient creates a Printify client for the configured shop
func NewPrintifyClient(conf config.PrintifyConfig) *PrintifyClient {
	variants := conf.ProductVariants
	if len(variants) == 0 && conf.VariantID > 0 {
		variants = []int64{conf.VariantID}
	}
	return &PrintifyClient{
		http:   newHTTPClient("printify", conf.BaseURL, conf.Timeout),
		token:  conf.APIToken,
		shopID: conf.ShopID,
		product: entity.ProductRef{
			BlueprintID:     conf.BlueprintID,
			PrintProviderID: conf.PrintProviderID,
			VariantID:       conf.VariantID,
		},
		productVariants: variants,
		printArea:       entity.StandardPrintArea(),
	}
}

// UploadImage uploads base64 artwork to the media library
func (c *PrintifyClient) UploadImage(ctx context.Context, fileName, base64Contents string) (*entity.RemoteImage, error) {
	if err := c.ready("upload_image", false); err != nil {
		return nil, err
	}

	var out struct {
		ID         string `json:"id"`
		PreviewURL string `json:"preview_url"`
	}
	err := c.http.postJSON(ctx, "upload_image", "/uploads/images.json", c.headers(),
		map[string]string{"file_name": fileName, "contents": base64Contents}, &out)
	if err != nil {
		return nil, err
	}

	return &entity.RemoteImage{ID: out.ID, PreviewURL: out.PreviewURL}, nil
}

// CreateOrder submits a print order to the shop
func (c *PrintifyClient) CreateOrder(ctx context.Context, order entity.PrintOrder) (string, error) {
	if err := c.ready("create_order", true); err != nil {
		return "", err
	}

	lineItems := make([]printifyLineItem, 0, len(order.LineItems))
	for _, item := range order.LineItems {
		lineItems = append(lineItems, printifyLineItem{
			PrintProviderID: item.Product.PrintProviderID,
			BlueprintID:     item.Product.BlueprintID,
			VariantID:       item.Product.VariantID,
			Quantity:        item.Quantity,
			ExternalID:      item.ExternalID,
			PrintAreas: map[string][]printifyImage{
				"front": {toPrintifyImage(item.ImageURL, item.PrintArea)},
			},
		})
	}

	address := order.Address
	var out struct {
		ID string `json:"id"`
	}
	err := c.http.postJSON(ctx, "create_order", c.shopPath("orders.json"), c.headers(), printifyOrderRequest{
		ExternalID:     order.ExternalID,
		Label:          order.Label,
		LineItems:      lineItems,
		ShippingMethod: order.ShippingMethod,
		AddressTo: printifyAddress{
			FirstName: address.FirstName,
			LastName:  address.LastName,
			Email:     address.Email,
			Phone:     address.Phone,
			Country:   address.Country,
			Region:    address.Region,
			Address1:  address.Address1,
			Address2:  address.Address2,
			City:      address.City,
			Zip:       address.Zip,
		},
	}, &out)
	if err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", errs.NewProviderError("printify", "create_order", 0, errors.New("order id missing from response"))
	}
	return out.ID, nil
}

// CreateProduct creates a hidden product with the configured blueprint and variants
func (c *PrintifyClient) CreateProduct(ctx context.Context, request entity.ProductRequest) (*entity.ProductResult, error) {
	if err := c.ready("create_product", true); err != nil {
		return nil, err
	}
	if len(c.productVariants) == 0 {
		return nil, errs.NewProviderError("printify", "create_product", 0, errors.New("no product variants configured"))
	}

	title := "Your AI-generated T-shirt"
	if prompt := strings.TrimSpace(request.Prompt); prompt != "" {
		title = fmt.Sprintf("AI T-shirt: %s", truncateRunes(prompt, 80))
	}

	variants := make([]printifyVariant, 0, len(c.productVariants))
	for _, id := range c.productVariants {
		variants = append(variants, printifyVariant{ID: id, IsEnabled: true})
	}

	var out printifyProductResponse
	err := c.http.postJSON(ctx, "create_product", c.shopPath("products.json"), c.headers(), printifyProductRequest{
		Title:           title,
		Description:     productDescription,
		BlueprintID:     c.product.BlueprintID,
		PrintProviderID: c.product.PrintProviderID,
		Variants:        variants,
		PrintAreas: []printifyProductArea{{
			VariantIDs: c.productVariants,
			Placeholders: []printifyPlaceholder{{
				Position: "front",
				Images:   []printifyImage{toPrintifyImage(request.ImageURL, c.printArea)},
			}},
		}},
		IsVisible: false,
	}, &out)
	if err != nil {
		return nil, err
	}

	result := &entity.ProductResult{ProductID: out.ID}
	if len(out.Images) > 0 {
		result.MockupURL = out.Images[0].Src
	}
	return result, nil
}

func (c *PrintifyClient) ready(operation string, needsShop bool) error {
	if c.token == "" {
		return errs.NewProviderError("printify", operation, 0, errors.New("api token is not configured"))
	}
	if needsShop && c.shopID == "" {
		return errs.NewProviderError("printify", operation, 0, errors.New("shop id is not configured"))
	}
	return nil
}

func (c *PrintifyClient) headers() map[string]string {
	return map[string]string{"Authorization": "Bearer " + c.token}
}

func (c *PrintifyClient) shopPath(resource string) string {
	return "/shops/" + url.PathEscape(c.shopID) + "/" + resource
}

func toPrintifyImage(src string, area entity.PrintArea) printifyImage {
	return printifyImage{Src: src, X: area.X, Y: area.Y, Scale: area.Scale, Angle: area.Angle}
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
