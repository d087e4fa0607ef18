package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strings"
)

// ShopifyHMACHeader carries the webhook body signature
const ShopifyHMACHeader = "X-Shopify-Hmac-Sha256"

// SignShopifyWebhook returns the base64 HMAC-SHA256 of the raw body
func SignShopifyWebhook(secret string, body []byte) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(body)
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}

// VerifyShopifyWebhook checks the signature header against the raw body
func VerifyShopifyWebhook(secret string, body []byte, signature string) bool {
	given, err := base64.StdEncoding.DecodeString(strings.TrimSpace(signature))
	if err != nil || len(given) == 0 {
		return false
	}
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(body)
	return hmac.Equal(given, h.Sum(nil))
}
