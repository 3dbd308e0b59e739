package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vrusavuk/fundlyhub-sub006/internal/domain"
)

func testCache(t *testing.T) *GormSearchCache {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "cache_test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&CachedSearchModel{}))

	return NewGormSearchCache(db)
}

func sampleQuery() *domain.SearchQuery {
	q := &domain.SearchQuery{Text: "jane", Scope: domain.ScopeAll, Limit: 20}
	q.Normalize()
	return q
}

func sampleCached() *domain.CachedSearch {
	return &domain.CachedSearch{
		Results: []domain.SearchResult{
			{ID: "u1", Type: domain.ResultTypeUser, Title: "Jane Doe", Link: "/profile/u1", Score: 0.9},
			{ID: "c1", Type: domain.ResultTypeCampaign, Title: "Help Jane", Link: "/fundraiser/help-jane", Score: 0.7},
		},
		Suggestions: []string{},
		ResultCount: 2,
	}
}

func TestCacheRoundTrip(t *testing.T) {
	c := testCache(t)
	ctx := context.Background()
	q := sampleQuery()
	key := q.CacheKey()

	_, err := c.Get(ctx, key)
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, c.Set(ctx, key, q, sampleCached(), time.Hour))

	got, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, sampleCached().Results, got.Results)
	assert.Equal(t, 2, got.ResultCount)
	assert.True(t, got.ExpiresAt.After(time.Now()))
}

func TestCacheExpiry(t *testing.T) {
	c := testCache(t)
	ctx := context.Background()
	q := sampleQuery()
	key := q.CacheKey()

	require.NoError(t, c.Set(ctx, key, q, sampleCached(), -time.Second))

	_, err := c.Get(ctx, key)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestCacheUpsertOverwrites(t *testing.T) {
	c := testCache(t)
	ctx := context.Background()
	q := sampleQuery()
	key := q.CacheKey()

	require.NoError(t, c.Set(ctx, key, q, sampleCached(), time.Hour))
	require.NoError(t, c.IncrementHit(ctx, key))

	fresh := &domain.CachedSearch{
		Results:     []domain.SearchResult{{ID: "o1", Type: domain.ResultTypeOrganization, Title: "Jane Foundation", Link: "/organization/o1", Score: 0.9}},
		ResultCount: 1,
	}
	require.NoError(t, c.Set(ctx, key, q, fresh, time.Hour))

	got, err := c.Get(ctx, key)
	require.NoError(t, err)
	require.Len(t, got.Results, 1)
	assert.Equal(t, "o1", got.Results[0].ID)

	// A rewrite starts the hit counter over.
	var model CachedSearchModel
	require.NoError(t, c.db.First(&model, "cache_key = ?", key).Error)
	assert.Equal(t, int64(0), model.HitCount)
}

func TestCacheIncrementHit(t *testing.T) {
	c := testCache(t)
	ctx := context.Background()
	q := sampleQuery()
	key := q.CacheKey()

	require.NoError(t, c.Set(ctx, key, q, sampleCached(), time.Hour))
	require.NoError(t, c.IncrementHit(ctx, key))
	require.NoError(t, c.IncrementHit(ctx, key))

	var model CachedSearchModel
	require.NoError(t, c.db.First(&model, "cache_key = ?", key).Error)
	assert.Equal(t, int64(2), model.HitCount)

	// Unknown key is a no-op, not an error.
	assert.NoError(t, c.IncrementHit(ctx, "search:unknown:all:{}:20"))
}

func TestCachePurgeExpired(t *testing.T) {
	c := testCache(t)
	ctx := context.Background()

	live := &domain.SearchQuery{Text: "alive", Scope: domain.ScopeAll, Limit: 20}
	dead := &domain.SearchQuery{Text: "dead", Scope: domain.ScopeAll, Limit: 20}

	require.NoError(t, c.Set(ctx, live.CacheKey(), live, sampleCached(), time.Hour))
	require.NoError(t, c.Set(ctx, dead.CacheKey(), dead, sampleCached(), -time.Second))

	purged, err := c.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	_, err = c.Get(ctx, live.CacheKey())
	assert.NoError(t, err)
	_, err = c.Get(ctx, dead.CacheKey())
	assert.ErrorIs(t, err, ErrCacheMiss)
}
