package dto

import (
	"encoding/json"
	"testing"

	"github.com/ownaimerch/merch-credits/internal/domain/entity"
	errs "github.com/ownaimerch/merch-credits/internal/domain/error"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const shopifyPayload = `{
  "id": 5001,
  "name": "#1001",
  "email": "",
  "financial_status": "paid",
  "customer": {"id": "gid://shopify/Customer/7001", "email": "buyer@example.com", "first_name": "Ada"},
  "line_items": [
    {"variant_id": 111, "sku": "PACK-50", "quantity": 2, "properties": []},
    {"variant_id": "222", "quantity": 1, "properties": [
      {"name": "ai_id", "value": "gen-1"},
      {"name": "ai_image_url", "value": "https://cdn.example.com/a.png"},
      {"name": "empty", "value": null}
    ]}
  ],
  "shipping_address": {"country": "Poland", "country_code": "PL", "city": "Gdansk"}
}`

func TestShopifyOrderMapping(t *testing.T) {
	var order ShopifyOrder
	require.NoError(t, json.Unmarshal([]byte(shopifyPayload), &order))

	event := order.ToPurchaseEvent()
	assert.Equal(t, "5001", event.OrderID)
	assert.Equal(t, "gid://shopify/Customer/7001", event.CustomerID)
	assert.Equal(t, "buyer@example.com", event.CustomerEmail)
	assert.Equal(t, "paid", event.FinancialStatus)
	require.Len(t, event.LineItems, 2)
	assert.Equal(t, "111", event.LineItems[0].VariantID)
	assert.Equal(t, 2, event.LineItems[0].Quantity)
	assert.Equal(t, "222", event.LineItems[1].VariantID)

	commerce := order.ToCommerceOrder()
	assert.Equal(t, "buyer@example.com", commerce.Email)
	assert.Equal(t, "PL", commerce.Shipping.Country)
	assert.Equal(t, "Ada", commerce.Shipping.FirstName)
	assert.Empty(t, commerce.LineItems[0].Properties)
	assert.Equal(t, map[string]string{
		entity.PropertyArtworkID:  "gen-1",
		entity.PropertyArtworkURL: "https://cdn.example.com/a.png",
	}, commerce.LineItems[1].Properties)
}

func TestFlexibleIDRejectsObjects(t *testing.T) {
	var id FlexibleID
	assert.Error(t, json.Unmarshal([]byte(`{"a":1}`), &id))
	require.NoError(t, json.Unmarshal([]byte(`null`), &id))
	assert.Empty(t, id.String())
}

func TestNewErrorResponse(t *testing.T) {
	response := NewErrorResponse(errs.NewInsufficientBalanceError(1, 0, 2))
	assert.Equal(t, errs.CodeInsufficientBalance, response.Code)
	require.NotNil(t, response.Balance)
	assert.Equal(t, int64(0), *response.Balance)
	assert.Equal(t, int64(2), *response.Required)

	response = NewErrorResponse(errs.ErrStoreUnavailable)
	assert.Equal(t, errs.CodeStoreUnavailable, response.Code)
	assert.Nil(t, response.Balance)
	assert.False(t, response.OK)
}
