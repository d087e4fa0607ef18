package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ownaimerch/merch-credits/internal/infrastructure/adapter/logger"
	"github.com/ownaimerch/merch-credits/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllow(t *testing.T) {
	var gotKeys []string
	var gotArgs []any
	responses := [][]any{
		{int64(1), "4"},
		{int64(0), "0.35"},
	}
	call := 0
	bucket := newTokenBucket(func(_ context.Context, keys []string, args ...any) ([]any, error) {
		gotKeys, gotArgs = keys, args
		res := responses[call]
		call++
		return res, nil
	}, 0.2, 5, logger.NewNoopLogger())

	allowed, err := bucket.Allow(context.Background(), "generate:42")
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, []string{"merch-credits:ratelimit:generate:42"}, gotKeys)
	assert.Equal(t, []any{0.2, 5, int64(50000)}, gotArgs)

	allowed, err = bucket.Allow(context.Background(), "generate:42")
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestAllowErrors(t *testing.T) {
	t.Run("Script failure", func(t *testing.T) {
		bucket := newTokenBucket(func(context.Context, []string, ...any) ([]any, error) {
			return nil, errors.New("connection refused")
		}, 1, 1, logger.NewNoopLogger())

		allowed, err := bucket.Allow(context.Background(), "k")
		assert.False(t, allowed)
		assert.ErrorContains(t, err, "connection refused")
	})

	t.Run("Short response", func(t *testing.T) {
		bucket := newTokenBucket(func(context.Context, []string, ...any) ([]any, error) {
			return []any{int64(1)}, nil
		}, 1, 1, logger.NewNoopLogger())

		_, err := bucket.Allow(context.Background(), "k")
		assert.Error(t, err)
	})

	t.Run("Empty key", func(t *testing.T) {
		bucket := newTokenBucket(nil, 1, 1, logger.NewNoopLogger())

		_, err := bucket.Allow(context.Background(), "")
		assert.Error(t, err)
	})
}

func TestNewTokenBucket(t *testing.T) {
	bucket, err := NewTokenBucket(config.RateLimitConfig{}, logger.NewNoopLogger())
	require.NoError(t, err)
	assert.Nil(t, bucket)

	_, err = NewTokenBucket(config.RateLimitConfig{RedisAddr: "localhost:6379"}, logger.NewNoopLogger())
	assert.Error(t, err)

	bucket, err = NewTokenBucket(config.RateLimitConfig{RedisAddr: "localhost:6379", RatePerSecond: 1, Burst: 2}, logger.NewNoopLogger())
	require.NoError(t, err)
	require.NotNil(t, bucket)
	assert.NoError(t, bucket.Close())
}

func TestBucketTTL(t *testing.T) {
	assert.Equal(t, 50*time.Second, bucketTTL(0.2, 5))
	assert.Equal(t, time.Second, bucketTTL(100, 1))
	assert.Equal(t, time.Second, bucketTTL(0, 1))
}
