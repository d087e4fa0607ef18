package entity

import (
	"testing"

	errs "github.com/ownaimerch/merch-credits/internal/domain/error"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerationRequestValidate(t *testing.T) {
	identity := Identity{CustomerID: 42}

	assert.NoError(t, GenerationRequest{Identity: identity, Prompt: "a red fox"}.Validate())
	assert.ErrorIs(t, GenerationRequest{Prompt: "a red fox"}.Validate(), errs.ErrNotAuthenticated)
	assert.ErrorIs(t, GenerationRequest{Identity: identity, Prompt: "  ab  "}.Validate(), errs.ErrPromptTooShort)
	assert.NoError(t, GenerationRequest{Identity: identity, Prompt: "żółw"}.Validate())
}

func TestDecodeImageData(t *testing.T) {
	decoded, err := DecodeImageData("aGVsbG8=")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), decoded)

	decoded, err = DecodeImageData("data:image/png;base64,aGVsbG8=")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), decoded)

	_, err = DecodeImageData("")
	assert.ErrorIs(t, err, errs.ErrInvalidRequest)

	_, err = DecodeImageData("data:image/png;base64")
	assert.ErrorIs(t, err, errs.ErrInvalidRequest)

	_, err = DecodeImageData("not base64!!")
	assert.ErrorIs(t, err, errs.ErrInvalidRequest)
}

func TestGenerationResultDataURL(t *testing.T) {
	result := &GenerationResult{Image: []byte("hello")}
	assert.Equal(t, "data:image/png;base64,aGVsbG8=", result.DataURL())
}

func TestShippingAddressDefaults(t *testing.T) {
	address := ShippingAddress{City: "Krakow"}.WithDefaults()

	assert.Equal(t, "AI", address.FirstName)
	assert.Equal(t, "Customer", address.LastName)
	assert.Equal(t, "US", address.Country)
	assert.Equal(t, "Krakow", address.City)
	assert.Equal(t, StandardPrintArea(), PrintArea{Scale: 0.55, X: 0.5, Y: 0.42})
}
