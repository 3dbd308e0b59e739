package repository

import (
	"context"

	"github.com/vrusavuk/fundlyhub-sub006/internal/domain"
)

// SearchRepository reads the three search projections. Each method
// returns up to limit scored results for one entity type; a caller
// skips the methods its scope excludes.
type SearchRepository interface {
	SearchUsers(ctx context.Context, query string, limit int) ([]domain.SearchResult, error)
	SearchCampaigns(ctx context.Context, query string, limit int, filters map[string]string) ([]domain.SearchResult, error)
	SearchOrganizations(ctx context.Context, query string, limit int) ([]domain.SearchResult, error)
}

// SuggestionRepository reads the suggestions projection for the
// suggest endpoint.
type SuggestionRepository interface {
	Lookup(ctx context.Context, prefix string, limit int) ([]string, error)
}

// SuggestionWriter records submitted search terms. It is driven only
// by the analytics consumer; the query path never writes suggestions.
type SuggestionWriter interface {
	RecordTerm(ctx context.Context, term string) error
}
