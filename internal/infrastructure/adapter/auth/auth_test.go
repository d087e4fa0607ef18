package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/ownaimerch/merch-credits/internal/domain/entity"
	errs "github.com/ownaimerch/merch-credits/internal/domain/error"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	verifier := NewTokenVerifier("secret")
	token, err := verifier.Issue(entity.Identity{CustomerID: 7001, Email: "a@example.com"}, time.Hour)
	require.NoError(t, err)

	identity, err := verifier.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, uint64(7001), identity.CustomerID)
	assert.Equal(t, "a@example.com", identity.Email)
}

func TestVerifyNumericAndGIDClaims(t *testing.T) {
	verifier := NewTokenVerifier("secret")

	for name, customerID := range map[string]any{
		"Number":      float64(42),
		"String":      "42",
		"Shopify GID": "gid://shopify/Customer/42",
	} {
		t.Run(name, func(t *testing.T) {
			token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
				"customer_id": customerID,
				"exp":         time.Now().Add(time.Minute).Unix(),
			}).SignedString([]byte("secret"))
			require.NoError(t, err)

			identity, err := verifier.Verify(token)
			require.NoError(t, err)
			assert.Equal(t, uint64(42), identity.CustomerID)
		})
	}
}

func TestVerifyRejects(t *testing.T) {
	verifier := NewTokenVerifier("secret")

	t.Run("Wrong secret", func(t *testing.T) {
		token, err := NewTokenVerifier("other").Issue(entity.Identity{CustomerID: 1}, time.Hour)
		require.NoError(t, err)
		_, err = verifier.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Expired", func(t *testing.T) {
		token, err := verifier.Issue(entity.Identity{CustomerID: 1}, -time.Minute)
		require.NoError(t, err)
		_, err = verifier.Verify(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("Missing customer", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"email": "a@example.com"}).SignedString([]byte("secret"))
		require.NoError(t, err)
		_, err = verifier.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Non numeric customer", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"customer_id": "abc"}).SignedString([]byte("secret"))
		require.NoError(t, err)
		_, err = verifier.Verify(token)
		assert.ErrorIs(t, err, errs.ErrInvalidIdentity)
	})

	t.Run("Garbage", func(t *testing.T) {
		_, err := verifier.Verify("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestNewTokenVerifierWithoutSecret(t *testing.T) {
	assert.Nil(t, NewTokenVerifier(" "))
}

func TestShopifyWebhookSignature(t *testing.T) {
	body := []byte(`{"id":5001}`)
	signature := SignShopifyWebhook("whsec", body)

	assert.True(t, VerifyShopifyWebhook("whsec", body, signature))
	assert.False(t, VerifyShopifyWebhook("whsec", []byte(`{"id":5002}`), signature))
	assert.False(t, VerifyShopifyWebhook("other", body, signature))
	assert.False(t, VerifyShopifyWebhook("whsec", body, ""))
	assert.False(t, VerifyShopifyWebhook("whsec", body, "%%%"))
}
