package fulfillment

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/ownaimerch/merch-credits/internal/domain/entity"
	errs "github.com/ownaimerch/merch-credits/internal/domain/error"
	coreport "github.com/ownaimerch/merch-credits/internal/domain/port/core"
	"github.com/ownaimerch/merch-credits/internal/domain/port/persistence"
	"github.com/ownaimerch/merch-credits/internal/domain/port/provider"
	"github.com/ownaimerch/merch-credits/internal/domain/port/usecase"
)

const (
	providerName = "printify"
	// SkipNoArtwork marks a commerce order without AI artwork lines
	SkipNoArtwork = "NO_AI_ITEMS"
	// SkipAlreadyForwarded marks a redelivered commerce order that already has a print order
	SkipAlreadyForwarded = "ALREADY_FORWARDED"
)

// Config holds the print defaults applied to storefront orders
type Config struct {
	DefaultProduct entity.ProductRef
	PrintArea      entity.PrintArea
	ShippingMethod int
}

// DefaultConfig returns the standard tee product and print placement
func DefaultConfig() Config {
	return Config{
		DefaultProduct: entity.ProductRef{BlueprintID: 706, PrintProviderID: 99, VariantID: 79153},
		PrintArea:      entity.StandardPrintArea(),
		ShippingMethod: 1,
	}
}

// Service forwards artwork to the print-on-demand provider
type Service struct {
	provider      provider.FulfillmentProvider
	forwards      persistence.ForwardedOrderRepository
	config        Config
	metrics       coreport.Metrics
	timeProvider  coreport.TimeProvider
	logger        coreport.Logger
	newExternalID func() string
}

// NewService creates a new fulfillment service
func NewService(
	fulfillmentProvider provider.FulfillmentProvider,
	forwards persistence.ForwardedOrderRepository,
	config Config,
	metrics coreport.Metrics,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) usecase.FulfillmentUseCase {
	return &Service{
		provider:     fulfillmentProvider,
		forwards:     forwards,
		config:       config,
		metrics:      metrics,
		timeProvider: timeProvider,
		logger:       logger,
		newExternalID: func() string {
			return "ai-" + uuid.NewString()
		},
	}
}

// CreateOrder uploads the artwork and places a single-item print order
func (s *Service) CreateOrder(ctx context.Context, request entity.PrintOrderRequest) (*entity.PrintOrderResult, error) {
	image, err := entity.DecodeImageData(request.ImageBase64)
	if err != nil {
		return nil, err
	}

	externalID := strings.TrimSpace(request.ExternalID)
	if externalID == "" {
		externalID = s.newExternalID()
	}

	uploaded, err := s.upload(ctx, externalID+".png", image)
	if err != nil {
		return nil, err
	}

	quantity := request.Quantity
	if quantity <= 0 {
		quantity = 1
	}
	shippingMethod := request.ShippingMethod
	if shippingMethod <= 0 {
		shippingMethod = s.config.ShippingMethod
	}

	order := entity.PrintOrder{
		ExternalID: externalID,
		Label:      strings.TrimSpace(request.Prompt),
		LineItems: []entity.PrintLineItem{{
			Product:    s.product(request.Product),
			Quantity:   quantity,
			ExternalID: externalID + "-1",
			ImageURL:   uploaded.PreviewURL,
			PrintArea:  s.config.PrintArea,
		}},
		ShippingMethod: shippingMethod,
		Address:        request.Shipping.WithDefaults(),
	}

	orderID, err := s.createOrder(ctx, order)
	if err != nil {
		return nil, err
	}

	return &entity.PrintOrderResult{
		OrderID:    orderID,
		ExternalID: externalID,
		ImageURL:   uploaded.PreviewURL,
		PrintArea:  s.config.PrintArea,
	}, nil
}

// CreateProduct creates a hidden catalog product for a stored artwork URL
func (s *Service) CreateProduct(ctx context.Context, request entity.ProductRequest) (*entity.ProductResult, error) {
	if strings.TrimSpace(request.ImageURL) == "" {
		return nil, errs.ErrInvalidRequest
	}

	start := s.timeProvider.Now()
	result, err := s.provider.CreateProduct(ctx, request)
	s.metrics.ProviderCall(providerName, "create_product", err == nil, s.timeProvider.Since(start).Seconds())
	if err != nil {
		s.logger.Error("Failed to create product", errs.LogFields(err))
		return nil, err
	}

	s.logger.Info("Product created", map[string]any{
		"product_id": result.ProductID,
	})
	return result, nil
}

// ForwardOrder submits the AI artwork lines of a paid commerce order.
// Orders without artwork are skipped, and so is every delivery after the first that claimed the order.
func (s *Service) ForwardOrder(ctx context.Context, order entity.CommerceOrder) (*entity.PrintOrderResult, error) {
	orderRef := strings.TrimSpace(order.ID)
	if orderRef == "" {
		orderRef = strings.TrimPrefix(strings.TrimSpace(order.Name), "#")
	}
	if orderRef == "" {
		return nil, errs.ErrInvalidRequest
	}
	externalID := entity.CommerceExternalID(orderRef)

	var lineItems []entity.PrintLineItem
	for i, item := range order.LineItems {
		artworkID := strings.TrimSpace(item.Properties[entity.PropertyArtworkID])
		artworkURL := strings.TrimSpace(item.Properties[entity.PropertyArtworkURL])
		if artworkID == "" || artworkURL == "" {
			continue
		}
		quantity := item.Quantity
		if quantity <= 0 {
			quantity = 1
		}
		lineItems = append(lineItems, entity.PrintLineItem{
			Product:    s.config.DefaultProduct,
			Quantity:   quantity,
			ExternalID: fmt.Sprintf("%s-%d", externalID, i+1),
			ImageURL:   artworkURL,
			PrintArea:  s.config.PrintArea,
		})
	}

	if len(lineItems) == 0 {
		s.logger.Info("Commerce order has no AI artwork, skipping", map[string]any{
			"order_id": orderRef,
		})
		return &entity.PrintOrderResult{ExternalID: externalID, Skipped: true, Reason: SkipNoArtwork}, nil
	}

	label := strings.TrimSpace(order.Name)
	if label == "" {
		label = "Shopify order " + orderRef
	}

	shipping := order.Shipping
	if shipping.Email == "" {
		shipping.Email = order.Email
	}

	claimed, existing, err := s.forwards.Claim(ctx, externalID)
	if err != nil {
		s.logger.Error("Failed to claim commerce order", errs.LogFields(err))
		return nil, err
	}
	if !claimed {
		s.logger.Info("Commerce order already forwarded, skipping", map[string]any{
			"order_id":       orderRef,
			"print_order_id": existing.PrintOrderID,
		})
		return &entity.PrintOrderResult{
			OrderID:    existing.PrintOrderID,
			ExternalID: externalID,
			Skipped:    true,
			Reason:     SkipAlreadyForwarded,
		}, nil
	}

	orderID, err := s.createOrder(ctx, entity.PrintOrder{
		ExternalID:     externalID,
		Label:          label,
		LineItems:      lineItems,
		ShippingMethod: s.config.ShippingMethod,
		Address:        shipping.WithDefaults(),
	})
	if err != nil {
		// let the redelivery try again
		if releaseErr := s.forwards.Release(context.WithoutCancel(ctx), externalID); releaseErr != nil {
			s.logger.Error("Failed to release commerce order claim", map[string]any{
				"external_id": externalID,
				"error":       releaseErr.Error(),
			})
		}
		return nil, err
	}

	if err := s.forwards.Complete(context.WithoutCancel(ctx), externalID, orderID); err != nil {
		// the claim row still blocks redeliveries
		s.logger.Error("Failed to record print order id", map[string]any{
			"external_id":    externalID,
			"print_order_id": orderID,
			"error":          err.Error(),
		})
	}

	return &entity.PrintOrderResult{
		OrderID:    orderID,
		ExternalID: externalID,
		PrintArea:  s.config.PrintArea,
	}, nil
}

// ListBlueprints searches the print catalog
func (s *Service) ListBlueprints(ctx context.Context, search string) ([]entity.Blueprint, error) {
	start := s.timeProvider.Now()
	blueprints, err := s.provider.ListBlueprints(ctx, search)
	s.metrics.ProviderCall(providerName, "list_blueprints", err == nil, s.timeProvider.Since(start).Seconds())
	if err != nil {
		s.logger.Error("Failed to list blueprints", errs.LogFields(err))
		return nil, err
	}
	return blueprints, nil
}

// ListProviders returns the print providers of a blueprint
func (s *Service) ListProviders(ctx context.Context, blueprintID int64) ([]entity.PrintProvider, error) {
	if blueprintID <= 0 {
		return nil, fmt.Errorf("%w: blueprint_id is required", errs.ErrInvalidRequest)
	}

	start := s.timeProvider.Now()
	providers, err := s.provider.ListProviders(ctx, blueprintID)
	s.metrics.ProviderCall(providerName, "list_providers", err == nil, s.timeProvider.Since(start).Seconds())
	if err != nil {
		s.logger.Error("Failed to list print providers", errs.LogFields(err))
		return nil, err
	}
	return providers, nil
}

// ListVariants returns the variants of a blueprint at a print provider
func (s *Service) ListVariants(ctx context.Context, blueprintID, printProviderID int64) ([]entity.CatalogVariant, error) {
	if blueprintID <= 0 || printProviderID <= 0 {
		return nil, fmt.Errorf("%w: blueprint_id and print_provider_id are required", errs.ErrInvalidRequest)
	}

	start := s.timeProvider.Now()
	variants, err := s.provider.ListVariants(ctx, blueprintID, printProviderID)
	s.metrics.ProviderCall(providerName, "list_variants", err == nil, s.timeProvider.Since(start).Seconds())
	if err != nil {
		s.logger.Error("Failed to list variants", errs.LogFields(err))
		return nil, err
	}
	return variants, nil
}

// ListShops returns the shops of the print provider account
func (s *Service) ListShops(ctx context.Context) ([]entity.Shop, error) {
	start := s.timeProvider.Now()
	shops, err := s.provider.ListShops(ctx)
	s.metrics.ProviderCall(providerName, "list_shops", err == nil, s.timeProvider.Since(start).Seconds())
	if err != nil {
		s.logger.Error("Failed to list shops", errs.LogFields(err))
		return nil, err
	}
	return shops, nil
}

func (s *Service) upload(ctx context.Context, fileName string, image []byte) (*entity.RemoteImage, error) {
	start := s.timeProvider.Now()
	uploaded, err := s.provider.UploadImage(ctx, fileName, base64.StdEncoding.EncodeToString(image))
	s.metrics.ProviderCall(providerName, "upload_image", err == nil, s.timeProvider.Since(start).Seconds())
	if err != nil {
		s.logger.Error("Failed to upload artwork", errs.LogFields(err))
		return nil, err
	}
	if uploaded.PreviewURL == "" {
		return nil, errs.NewProviderError(providerName, "upload_image", 0, fmt.Errorf("upload %s returned no preview url", uploaded.ID))
	}
	return uploaded, nil
}

func (s *Service) createOrder(ctx context.Context, order entity.PrintOrder) (string, error) {
	start := s.timeProvider.Now()
	orderID, err := s.provider.CreateOrder(ctx, order)
	s.metrics.ProviderCall(providerName, "create_order", err == nil, s.timeProvider.Since(start).Seconds())
	if err != nil {
		s.logger.Error("Failed to create print order", errs.LogFields(err))
		return "", err
	}

	s.logger.Info("Print order created", map[string]any{
		"order_id":    orderID,
		"external_id": order.ExternalID,
		"line_items":  len(order.LineItems),
	})
	return orderID, nil
}

func (s *Service) product(requested entity.ProductRef) entity.ProductRef {
	product := s.config.DefaultProduct
	if requested.BlueprintID > 0 {
		product.BlueprintID = requested.BlueprintID
	}
	if requested.PrintProviderID > 0 {
		product.PrintProviderID = requested.PrintProviderID
	}
	if requested.VariantID > 0 {
		product.VariantID = requested.VariantID
	}
	return product
}
