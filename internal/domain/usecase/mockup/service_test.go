package mockup

import (
	"context"
	"encoding/base64"
	"testing"

	errs "github.com/ownaimerch/merch-credits/internal/domain/error"
	coremocks "github.com/ownaimerch/merch-credits/mocks/port/core"
	providermocks "github.com/ownaimerch/merch-credits/mocks/port/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompose(t *testing.T) {
	artwork := []byte("artwork")
	encoded := "data:image/png;base64," + base64.StdEncoding.EncodeToString(artwork)

	t.Run("Default garment color", func(t *testing.T) {
		compositor := providermocks.NewMockMockupCompositor(t)
		compositor.On("Compose", artwork, DefaultGarmentColor).Return([]byte("preview"), nil).Once()

		preview, err := NewService(compositor, coremocks.NewMockLogger(t)).Compose(context.Background(), encoded, "")

		require.NoError(t, err)
		assert.Equal(t, []byte("preview"), preview)
	})

	t.Run("Explicit color", func(t *testing.T) {
		compositor := providermocks.NewMockMockupCompositor(t)
		compositor.On("Compose", artwork, "#1a1a1a").Return([]byte("preview"), nil).Once()

		_, err := NewService(compositor, coremocks.NewMockLogger(t)).Compose(context.Background(), encoded, " #1a1a1a ")

		require.NoError(t, err)
	})

	t.Run("Invalid payload", func(t *testing.T) {
		compositor := providermocks.NewMockMockupCompositor(t)

		_, err := NewService(compositor, coremocks.NewMockLogger(t)).Compose(context.Background(), "", "white")

		assert.ErrorIs(t, err, errs.ErrInvalidRequest)
	})

	t.Run("Compositor failure", func(t *testing.T) {
		compositor := providermocks.NewMockMockupCompositor(t)
		compositor.On("Compose", artwork, "white").Return(nil, assert.AnError).Once()
		logger := coremocks.NewMockLogger(t).AllowAll()

		_, err := NewService(compositor, logger).Compose(context.Background(), encoded, "white")

		assert.ErrorIs(t, err, assert.AnError)
	})
}
