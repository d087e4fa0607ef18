package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ownaimerch/merch-credits/internal/infrastructure/adapter/logger"
	"github.com/stretchr/testify/assert"
)

func fastRetryConfig(maxRetries int) RetryConfig {
	return RetryConfig{
		MaxRetries:    maxRetries,
		RetryInterval: time.Millisecond,
		MaxInterval:   2 * time.Millisecond,
	}
}

func TestRetryOnTransientError(t *testing.T) {
	log := logger.NewNoopLogger()
	mapper := NewErrorMapper()

	t.Run("Succeeds after transient failures", func(t *testing.T) {
		calls := 0
		err := RetryOnTransientError(context.Background(), fastRetryConfig(3), func() error {
			calls++
			if calls < 3 {
				return errors.New("dial tcp 127.0.0.1:5432: connect: connection refused")
			}
			return nil
		}, mapper, log)

		assert.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("Does not retry permanent errors", func(t *testing.T) {
		calls := 0
		permanent := errors.New("syntax error at or near SELECT")
		err := RetryOnTransientError(context.Background(), fastRetryConfig(5), func() error {
			calls++
			return permanent
		}, mapper, log)

		assert.ErrorIs(t, err, permanent)
		assert.Equal(t, 1, calls)
	})

	t.Run("Gives up after max retries", func(t *testing.T) {
		calls := 0
		err := RetryOnTransientError(context.Background(), fastRetryConfig(2), func() error {
			calls++
			return errors.New("database is locked")
		}, mapper, log)

		assert.Error(t, err)
		assert.Equal(t, 2, calls)
	})

	t.Run("Stops when the context is canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		config := fastRetryConfig(5)
		config.RetryInterval = time.Second
		config.MaxInterval = time.Second

		err := RetryOnTransientError(ctx, config, func() error {
			return errors.New("connection reset by peer")
		}, mapper, log)

		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestCalculateBackoffWithJitter(t *testing.T) {
	config := RetryConfig{RetryInterval: 100 * time.Millisecond, MaxInterval: 300 * time.Millisecond}

	assert.Equal(t, 100*time.Millisecond, calculateBackoffWithJitter(0, config))
	assert.Equal(t, 200*time.Millisecond, calculateBackoffWithJitter(1, config))
	assert.Equal(t, 300*time.Millisecond, calculateBackoffWithJitter(5, config))

	config.JitterFactor = 0.5
	backoff := calculateBackoffWithJitter(0, config)
	assert.GreaterOrEqual(t, backoff, 100*time.Millisecond)
	assert.LessOrEqual(t, backoff, 150*time.Millisecond)
}
