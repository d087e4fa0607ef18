package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	coreport "github.com/ownaimerch/merch-credits/internal/domain/port/core"
	"github.com/ownaimerch/merch-credits/internal/infrastructure/config"
	redis "github.com/redis/go-redis/v9"
)

const keyPrefix = "merch-credits:ratelimit:"

const tokenBucketScript = `
local rate = tonumber(ARGV[1])
local burst = tonumber(ARGV[2])
local ttl = tonumber(ARGV[3])

local nowData = redis.call("TIME")
local now = (nowData[1] * 1000) + math.floor(nowData[2] / 1000)

local data = redis.call("HMGET", KEYS[1], "tokens", "ts")
local tokens = tonumber(data[1])
local ts = tonumber(data[2])

if tokens == nil then
  tokens = burst
  ts = now
else
  local delta = now - ts
  if delta < 0 then
    delta = 0
  end
  tokens = math.min(burst, tokens + (delta / 1000) * rate)
  ts = now
end

local allowed = 0
if tokens >= 1 then
  allowed = 1
  tokens = tokens - 1
end

redis.call("HMSET", KEYS[1], "tokens", tokens, "ts", ts)
redis.call("PEXPIRE", KEYS[1], ttl)

return {allowed, tostring(tokens)}
`

// scriptRunner evaluates the bucket script for one key
type scriptRunner func(ctx context.Context, keys []string, args ...any) ([]any, error)

// TokenBucket is a redis-backed token bucket shared by every API instance
type TokenBucket struct {
	run    scriptRunner
	client *redis.Client
	rate   float64
	burst  int
	ttl    time.Duration
	logger coreport.Logger
}

// NewTokenBucket connects to redis; an empty address disables rate limiting and returns nil
func NewTokenBucket(conf config.RateLimitConfig, logger coreport.Logger) (*TokenBucket, error) {
	addr := strings.TrimSpace(conf.RedisAddr)
	if addr == "" {
		return nil, nil
	}
	if conf.RatePerSecond <= 0 || conf.Burst <= 0 {
		return nil, errors.New("rate limit rate and burst must be positive")
	}

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     strings.TrimSpace(conf.RedisPassword),
		DB:           conf.RedisDB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})
	script := redis.NewScript(tokenBucketScript)

	bucket := newTokenBucket(func(ctx context.Context, keys []string, args ...any) ([]any, error) {
		return script.Run(ctx, client, keys, args...).Slice()
	}, conf.RatePerSecond, conf.Burst, logger)
	bucket.client = client
	return bucket, nil
}

func newTokenBucket(run scriptRunner, rate float64, burst int, logger coreport.Logger) *TokenBucket {
	return &TokenBucket{
		run:    run,
		rate:   rate,
		burst:  burst,
		ttl:    bucketTTL(rate, burst),
		logger: logger,
	}
}

// Allow takes one token for key
func (t *TokenBucket) Allow(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, errors.New("rate limiter key is empty")
	}

	res, err := t.run(ctx, []string{keyPrefix + key}, t.rate, t.burst, t.ttl.Milliseconds())
	if err != nil {
		return false, fmt.Errorf("token bucket script failed: %w", err)
	}
	if len(res) < 2 {
		return false, errors.New("invalid rate limit script response")
	}

	allowed := castToInt(res[0]) == 1
	if !allowed {
		t.logger.Debug("Rate limit reached", map[string]any{
			"key":       key,
			"remaining": castToFloat(res[1]),
		})
	}
	return allowed, nil
}

// Ping checks the redis connection
func (t *TokenBucket) Ping(ctx context.Context) error {
	if t.client == nil {
		return nil
	}
	return t.client.Ping(ctx).Err()
}

// Close releases the redis connection pool
func (t *TokenBucket) Close() error {
	if t.client == nil {
		return nil
	}
	return t.client.Close()
}

// bucketTTL keeps idle buckets long enough to refill twice
func bucketTTL(rate float64, burst int) time.Duration {
	if rate <= 0 || burst <= 0 {
		return time.Second
	}
	seconds := math.Ceil((float64(burst) / rate) * 2)
	if seconds < 1 {
		seconds = 1
	}
	return time.Duration(seconds) * time.Second
}

func castToInt(v any) int64 {
	switch val := v.(type) {
	case int64:
		return val
	case int:
		return int64(val)
	case float64:
		return int64(val)
	case string:
		parsed, _ := strconv.ParseInt(val, 10, 64)
		return parsed
	default:
		return 0
	}
}

func castToFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int64:
		return float64(val)
	case string:
		parsed, _ := strconv.ParseFloat(val, 64)
		return parsed
	default:
		return 0
	}
}
