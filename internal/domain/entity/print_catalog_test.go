package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBlueprintMatches(t *testing.T) {
	blueprint := Blueprint{ID: 6, Title: "Unisex Heavy Cotton Tee", Brand: "Gildan"}

	tests := []struct {
		name   string
		search string
		want   bool
	}{
		{"Empty search matches all", "", true},
		{"Whitespace search matches all", "  ", true},
		{"Title substring", "cotton", true},
		{"Brand ignoring case", "GILDAN", true},
		{"No match", "hoodie", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, blueprint.Matches(tt.search))
		})
	}
}

func TestForwardedOrder(t *testing.T) {
	assert.False(t, ForwardedOrder{ExternalID: "shopify-1"}.Placed())
	assert.True(t, ForwardedOrder{ExternalID: "shopify-1", PrintOrderID: "po-1"}.Placed())
	assert.Equal(t, "shopify-1042", CommerceExternalID("1042"))
}
