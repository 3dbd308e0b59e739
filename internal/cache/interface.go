package cache

import (
	"context"
	"errors"
	"time"

	"github.com/vrusavuk/fundlyhub-sub006/internal/domain"
)

// ErrCacheMiss is returned by Get when the key is absent or expired.
var ErrCacheMiss = errors.New("cache miss")

// SearchCache stores computed search responses keyed by the query's
// cache key. The query path only ever calls Get and (from a detached
// goroutine) Set; IncrementHit belongs to the analytics consumer and
// PurgeExpired to the sweeper.
type SearchCache interface {
	Get(ctx context.Context, key string) (*domain.CachedSearch, error)
	Set(ctx context.Context, key string, query *domain.SearchQuery, cached *domain.CachedSearch, ttl time.Duration) error
	IncrementHit(ctx context.Context, key string) error
	PurgeExpired(ctx context.Context) (int64, error)
	Close() error
}
