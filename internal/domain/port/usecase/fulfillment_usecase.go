package usecase

import (
	"context"

	"github.com/ownaimerch/merch-credits/internal/domain/entity"
)

// FulfillmentUseCase sends artwork to the print-on-demand provider
type FulfillmentUseCase interface {
	// CreateOrder uploads artwork and submits a print order with the standard print area
	CreateOrder(ctx context.Context, request entity.PrintOrderRequest) (*entity.PrintOrderResult, error)

	// CreateProduct creates a hidden catalog product for artwork
	CreateProduct(ctx context.Context, request entity.ProductRequest) (*entity.ProductResult, error)

	// ForwardOrder submits the AI artwork lines of a paid commerce order
	ForwardOrder(ctx context.Context, order entity.CommerceOrder) (*entity.PrintOrderResult, error)

	// ListBlueprints searches the print catalog
	ListBlueprints(ctx context.Context, search string) ([]entity.Blueprint, error)

	// ListProviders returns the print providers of a blueprint
	ListProviders(ctx context.Context, blueprintID int64) ([]entity.PrintProvider, error)

	// ListVariants returns the variants of a blueprint at a print provider
	ListVariants(ctx context.Context, blueprintID, printProviderID int64) ([]entity.CatalogVariant, error)

	// ListShops returns the shops of the print provider account
	ListShops(ctx context.Context) ([]entity.Shop, error)
}

// MockupUseCase renders garment previews
type MockupUseCase interface {
	Compose(ctx context.Context, imageData, garmentColor string) ([]byte, error)
}
