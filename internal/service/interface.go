package service

import (
	"context"

	"github.com/vrusavuk/fundlyhub-sub006/internal/domain"
)

// SearchService orchestrates a search request: cache check, projection
// fan-out, merge, pagination, background cache write and analytics
// events.
type SearchService interface {
	Search(ctx context.Context, query *domain.SearchQuery, session domain.Session) (*domain.SearchResponse, error)
	Suggest(ctx context.Context, prefix string, limit int) ([]string, error)
}
