package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vrusavuk/fundlyhub-sub006/internal/domain"
)

// CachedSearchModel is the GORM model for the search cache table.
type CachedSearchModel struct {
	CacheKey    string    `gorm:"column:cache_key;type:varchar(500);primaryKey"`
	QueryText   string    `gorm:"column:query_text;type:varchar(200);index"`
	Scope       string    `gorm:"column:scope;type:varchar(20)"`
	Filters     string    `gorm:"column:filters;type:text"`
	Results     string    `gorm:"column:results;type:text"`
	Suggestions string    `gorm:"column:suggestions;type:text"`
	ResultCount int       `gorm:"column:result_count"`
	HitCount    int64     `gorm:"column:hit_count;default:0"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	ExpiresAt   time.Time `gorm:"column:expires_at;index"`
}

// TableName specifies the table name for CachedSearchModel.
func (CachedSearchModel) TableName() string {
	return "search_cache"
}

// GormSearchCache implements SearchCache over a database table with
// expires_at filtering on read and upsert on write.
type GormSearchCache struct {
	db *gorm.DB
}

// NewGormSearchCache creates a new table-backed search cache.
func NewGormSearchCache(db *gorm.DB) *GormSearchCache {
	return &GormSearchCache{db: db}
}

// Get returns the cached search for key, or ErrCacheMiss if the row is
// absent or expired. Stale rows are left in place for the sweeper.
func (c *GormSearchCache) Get(ctx context.Context, key string) (*domain.CachedSearch, error) {
	var model CachedSearchModel
	err := c.db.WithContext(ctx).
		Where("cache_key = ? AND expires_at > ?", key, time.Now()).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to read search cache: %w", err)
	}

	cached := &domain.CachedSearch{
		ResultCount: model.ResultCount,
		ExpiresAt:   model.ExpiresAt,
	}
	if err := json.Unmarshal([]byte(model.Results), &cached.Results); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached results: %w", err)
	}
	if model.Suggestions != "" {
		if err := json.Unmarshal([]byte(model.Suggestions), &cached.Suggestions); err != nil {
			return nil, fmt.Errorf("failed to unmarshal cached suggestions: %w", err)
		}
	}
	return cached, nil
}

// Set upserts the cached search under key with a fresh expiry.
// A replaced row's hit counter starts over.
func (c *GormSearchCache) Set(ctx context.Context, key string, query *domain.SearchQuery, cached *domain.CachedSearch, ttl time.Duration) error {
	results, err := json.Marshal(cached.Results)
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	suggestions, err := json.Marshal(cached.Suggestions)
	if err != nil {
		return fmt.Errorf("failed to marshal suggestions: %w", err)
	}
	filters, err := json.Marshal(query.Filters)
	if err != nil {
		return fmt.Errorf("failed to marshal filters: %w", err)
	}

	model := CachedSearchModel{
		CacheKey:    key,
		QueryText:   query.Text,
		Scope:       string(query.Scope),
		Filters:     string(filters),
		Results:     string(results),
		Suggestions: string(suggestions),
		ResultCount: cached.ResultCount,
		HitCount:    0,
		ExpiresAt:   time.Now().Add(ttl),
	}

	err = c.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "cache_key"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"query_text", "scope", "filters", "results", "suggestions",
				"result_count", "hit_count", "expires_at",
			}),
		}).
		Create(&model).Error
	if err != nil {
		return fmt.Errorf("failed to write search cache: %w", err)
	}
	return nil
}

// IncrementHit bumps the hit counter for key. Missing rows are a no-op.
func (c *GormSearchCache) IncrementHit(ctx context.Context, key string) error {
	err := c.db.WithContext(ctx).
		Model(&CachedSearchModel{}).
		Where("cache_key = ?", key).
		UpdateColumn("hit_count", gorm.Expr("hit_count + 1")).Error
	if err != nil {
		return fmt.Errorf("failed to increment cache hit count: %w", err)
	}
	return nil
}

// PurgeExpired deletes rows whose expiry has passed and returns the
// number of rows removed.
func (c *GormSearchCache) PurgeExpired(ctx context.Context) (int64, error) {
	result := c.db.WithContext(ctx).
		Where("expires_at <= ?", time.Now()).
		Delete(&CachedSearchModel{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to purge expired cache rows: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// Close is a no-op; the database connection is owned by the caller.
func (c *GormSearchCache) Close() error {
	return nil
}
