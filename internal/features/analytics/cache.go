package analytics

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/SketchClarkey/Chryso-form-v2-sub003/internal/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	cacheKeyPrefix  = "analytics:result:"
	defaultCacheTTL = 5 * time.Minute
)

// ResultCache stores computed results keyed by their scoped query.
type ResultCache interface {
	Get(ctx context.Context, key string) (*AnalyticsResult, bool, error)
	Set(ctx context.Context, key string, result *AnalyticsResult) error
}

// NewResultCache returns a Redis cache when REDIS_URL is set and a no-op
// cache otherwise.
func NewResultCache(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) (ResultCache, error) {
	if cfg.RedisURL == "" {
		logger.Info("Analytics result cache disabled")
		return NoopResultCache{}, nil
	}

	ttl := cfg.AnalyticsCacheTTL
	if ttl <= 0 {
		logger.Warn("Analytics cache TTL must be positive, using default",
			zap.Duration("configured", ttl), zap.Duration("ttl", defaultCacheTTL))
		ttl = defaultCacheTTL
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cache, err := NewRedisResultCache(ctx, cfg.RedisURL, ttl)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return cache.Close()
		},
	})
	logger.Info("Analytics result cache enabled", zap.Duration("ttl", ttl))
	return cache, nil
}

type RedisResultCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisResultCache dials Redis. ttl must be positive: Redis keeps a key
// set with a zero expiry forever.
func NewRedisResultCache(ctx context.Context, redisURL string, ttl time.Duration) (*RedisResultCache, error) {
	if ttl <= 0 {
		return nil, fmt.Errorf("cache TTL must be positive, got %s", ttl)
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	opt.PoolSize = 10
	opt.MinIdleConns = 2
	opt.PoolTimeout = 4 * time.Second
	opt.ConnMaxIdleTime = 5 * time.Minute

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return &RedisResultCache{client: client, ttl: ttl}, nil
}

func (c *RedisResultCache) Get(ctx context.Context, key string) (*AnalyticsResult, bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var result AnalyticsResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached result: %w", err)
	}
	return &result, true, nil
}

func (c *RedisResultCache) Set(ctx context.Context, key string, result *AnalyticsResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, c.ttl).Err()
}

func (c *RedisResultCache) Close() error {
	return c.client.Close()
}

type NoopResultCache struct{}

func (NoopResultCache) Get(context.Context, string) (*AnalyticsResult, bool, error) {
	return nil, false, nil
}

func (NoopResultCache) Set(context.Context, string, *AnalyticsResult) error {
	return nil
}

// CacheKey derives a stable key from an already scoped query. Filter values
// are order insensitive.
func CacheKey(q Query) string {
	q.Start = q.Start.UTC()
	q.End = q.End.UTC()
	q.Filters.Worksites = sortedCopy(q.Filters.Worksites)
	q.Filters.Technicians = sortedCopy(q.Filters.Technicians)
	q.Filters.Statuses = sortedCopy(q.Filters.Statuses)
	// Marshalling a struct of strings, times and slices cannot fail.
	data, _ := json.Marshal(q)
	sum := sha256.Sum256(data)
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}

func sortedCopy[T ~string](values []T) []T {
	if values == nil {
		return nil
	}
	out := slices.Clone(values)
	slices.Sort(out)
	return out
}
