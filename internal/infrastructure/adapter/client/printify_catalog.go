package client

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/ownaimerch/merch-credits/internal/domain/entity"
)

type printifyBlueprint struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Brand       string   `json:"brand"`
	Model       string   `json:"model"`
	Images      []string `json:"images"`
}

type printifyCatalogVariant struct {
	ID      int64             `json:"id"`
	Title   string            `json:"title"`
	Options map[string]string `json:"options"`
}

type printifyShop struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	SalesChannel string `json:"sales_channel"`
}

// ListBlueprints returns catalog blueprints whose title or brand contains search
func (c *PrintifyClient) ListBlueprints(ctx context.Context, search string) ([]entity.Blueprint, error) {
	if err := c.ready("list_blueprints", false); err != nil {
		return nil, err
	}

	search = strings.TrimSpace(search)
	query := url.Values{}
	if search != "" {
		query.Set("search", search)
	}

	var out []printifyBlueprint
	if err := c.http.getJSON(ctx, "list_blueprints", "/catalog/blueprints.json", query, c.headers(), &out); err != nil {
		return nil, err
	}

	blueprints := make([]entity.Blueprint, 0, len(out))
	for _, b := range out {
		blueprint := entity.Blueprint{
			ID:          b.ID,
			Title:       b.Title,
			Description: b.Description,
			Brand:       b.Brand,
			Model:       b.Model,
			Images:      b.Images,
		}
		// the catalog endpoint ignores search, so filter here
		if blueprint.Matches(search) {
			blueprints = append(blueprints, blueprint)
		}
	}
	return blueprints, nil
}

// ListProviders returns the print providers offering a blueprint
func (c *PrintifyClient) ListProviders(ctx context.Context, blueprintID int64) ([]entity.PrintProvider, error) {
	if err := c.ready("list_providers", false); err != nil {
		return nil, err
	}

	var out []entity.PrintProvider
	path := fmt.Sprintf("/catalog/blueprints/%d/print_providers.json", blueprintID)
	if err := c.http.getJSON(ctx, "list_providers", path, nil, c.headers(), &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []entity.PrintProvider{}
	}
	return out, nil
}

// ListVariants returns the variants a print provider offers for a blueprint
func (c *PrintifyClient) ListVariants(ctx context.Context, blueprintID, printProviderID int64) ([]entity.CatalogVariant, error) {
	if err := c.ready("list_variants", false); err != nil {
		return nil, err
	}

	var out struct {
		Variants []printifyCatalogVariant `json:"variants"`
	}
	path := fmt.Sprintf("/catalog/blueprints/%d/print_providers/%d/variants.json", blueprintID, printProviderID)
	if err := c.http.getJSON(ctx, "list_variants", path, nil, c.headers(), &out); err != nil {
		return nil, err
	}

	variants := make([]entity.CatalogVariant, 0, len(out.Variants))
	for _, v := range out.Variants {
		variants = append(variants, entity.CatalogVariant{ID: v.ID, Title: v.Title, Options: v.Options})
	}
	return variants, nil
}

// ListShops returns the shops connected to the API token
func (c *PrintifyClient) ListShops(ctx context.Context) ([]entity.Shop, error) {
	if err := c.ready("list_shops", false); err != nil {
		return nil, err
	}

	var out []printifyShop
	if err := c.http.getJSON(ctx, "list_shops", "/shops.json", nil, c.headers(), &out); err != nil {
		return nil, err
	}

	shops := make([]entity.Shop, 0, len(out))
	for _, s := range out {
		shops = append(shops, entity.Shop{ID: s.ID, Title: s.Title, SalesChannel: s.SalesChannel})
	}
	return shops, nil
}
