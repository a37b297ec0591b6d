package analytics

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheKey(t *testing.T) {
	q := fixtureQuery()
	key := CacheKey(q)
	assert.True(t, strings.HasPrefix(key, "analytics:result:"))
	assert.Equal(t, key, CacheKey(q))

	// The same instants in another zone share a key.
	zone := time.FixedZone("UTC+2", 2*60*60)
	shifted := q
	shifted.Start = q.Start.In(zone)
	shifted.End = q.End.In(zone)
	assert.Equal(t, key, CacheKey(shifted))

	filtered := q
	filtered.Filters.Worksites = []string{"ws-1"}
	assert.NotEqual(t, key, CacheKey(filtered))

	weekly := q
	weekly.Granularity = GranularityWeek
	assert.NotEqual(t, key, CacheKey(weekly))
}

func TestCacheKeyIgnoresFilterOrder(t *testing.T) {
	a := fixtureQuery()
	a.Filters = Filters{
		Worksites:   []string{"ws-2", "ws-1"},
		Technicians: []string{"tech-b", "tech-a"},
		Statuses:    []FormStatus{StatusDraft, StatusCompleted},
	}
	b := fixtureQuery()
	b.Filters = Filters{
		Worksites:   []string{"ws-1", "ws-2"},
		Technicians: []string{"tech-a", "tech-b"},
		Statuses:    []FormStatus{StatusCompleted, StatusDraft},
	}

	assert.Equal(t, CacheKey(a), CacheKey(b))
	assert.Equal(t, []string{"ws-2", "ws-1"}, a.Filters.Worksites, "caller slices are left untouched")
	assert.Equal(t, []FormStatus{StatusDraft, StatusCompleted}, a.Filters.Statuses)
}

func TestNoopResultCache(t *testing.T) {
	var cache ResultCache = NoopResultCache{}
	require.NoError(t, cache.Set(context.Background(), "k", &AnalyticsResult{}))

	_, hit, err := cache.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestRedisResultCache(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}

	ctx := context.Background()
	cache, err := NewRedisResultCache(ctx, url, time.Minute)
	require.NoError(t, err)
	defer cache.Close()

	key := CacheKey(fixtureQuery()) + ":test"
	_, hit, err := cache.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, hit)

	want := Aggregate(fixtureQuery(), fixture())
	require.NoError(t, cache.Set(ctx, key, want))

	got, hit, err := cache.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, hit)
	assert.Equal(t, want.Metrics, got.Metrics)
}

func TestNewRedisResultCacheRejectsBadURL(t *testing.T) {
	_, err := NewRedisResultCache(context.Background(), "not-a-url", time.Minute)
	assert.Error(t, err)
}

func TestNewRedisResultCacheRejectsNonPositiveTTL(t *testing.T) {
	for _, ttl := range []time.Duration{0, -time.Second} {
		_, err := NewRedisResultCache(context.Background(), "redis://127.0.0.1:1/0", ttl)
		require.Error(t, err, ttl)
		assert.Contains(t, err.Error(), "must be positive", ttl)
	}
}
