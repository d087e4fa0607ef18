package provider

import (
	"context"

	"github.com/ownaimerch/merch-credits/internal/domain/entity"
)

// FulfillmentProvider is the print-on-demand backend
type FulfillmentProvider interface {
	// UploadImage uploads base64 artwork (without data URL prefix)
	//
	// Possible errors:
	// - ErrProviderError: If the upstream call fails
	UploadImage(ctx context.Context, fileName, base64Contents string) (*entity.RemoteImage, error)

	// CreateOrder submits a print order and returns the provider order id
	//
	// Possible errors:
	// - ErrProviderError: If the upstream call fails
	CreateOrder(ctx context.Context, order entity.PrintOrder) (string, error)

	// CreateProduct creates a hidden catalog product for artwork
	//
	// Possible errors:
	// - ErrProviderError: If the upstream call fails
	CreateProduct(ctx context.Context, request entity.ProductRequest) (*entity.ProductResult, error)

	// ListBlueprints returns catalog blueprints whose title or brand contains search; empty search lists all
	//
	// Possible errors:
	// - ErrProviderError: If the upstream call fails
	ListBlueprints(ctx context.Context, search string) ([]entity.Blueprint, error)

	// ListProviders returns the print providers offering a blueprint
	//
	// Possible errors:
	// - ErrProviderError: If the upstream call fails
	ListProviders(ctx context.Context, blueprintID int64) ([]entity.PrintProvider, error)

	// ListVariants returns the variants of a blueprint at a print provider
	//
	// Possible errors:
	// - ErrProviderError: If the upstream call fails
	ListVariants(ctx context.Context, blueprintID, printProviderID int64) ([]entity.CatalogVariant, error)

	// ListShops returns the shops connected to the account
	//
	// Possible errors:
	// - ErrProviderError: If the upstream call fails
	ListShops(ctx context.Context) ([]entity.Shop, error)
}
