package entity

import (
	"fmt"
	"strings"
)

// CreditPack maps a purchasable variant to a credit grant
type CreditPack struct {
	VariantID string
	Code      string
	Credits   int64
}

// PackCatalog is the static credit pack definition keyed by variant id
type PackCatalog struct {
	packs map[string]CreditPack
}

// NewPackCatalog validates pack definitions and indexes them by variant
func NewPackCatalog(packs []CreditPack) (*PackCatalog, error) {
	catalog := &PackCatalog{packs: make(map[string]CreditPack, len(packs))}
	for _, pack := range packs {
		variant := strings.TrimSpace(pack.VariantID)
		if variant == "" {
			return nil, fmt.Errorf("credit pack %q has no variant id", pack.Code)
		}
		if pack.Credits <= 0 {
			return nil, fmt.Errorf("credit pack %q must grant a positive number of credits", pack.Code)
		}
		if _, exists := catalog.packs[variant]; exists {
			return nil, fmt.Errorf("duplicate credit pack variant %s", variant)
		}
		pack.VariantID = variant
		catalog.packs[variant] = pack
	}
	return catalog, nil
}

// Lookup returns the pack for a variant id
func (c *PackCatalog) Lookup(variantID string) (CreditPack, bool) {
	if c == nil {
		return CreditPack{}, false
	}
	pack, ok := c.packs[strings.TrimSpace(variantID)]
	return pack, ok
}

// Len returns the number of configured packs
func (c *PackCatalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.packs)
}
