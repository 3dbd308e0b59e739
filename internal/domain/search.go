package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// ErrQueryTooShort is returned when a search query is shorter than
// MinQueryLength runes after trimming.
var ErrQueryTooShort = errors.New("query must be at least 2 characters")

const (
	// MinQueryLength is the minimum query length accepted by the search
	// and suggest endpoints.
	MinQueryLength = 2

	DefaultLimit = 20
	MaxLimit     = 100

	DefaultSuggestLimit = 10
	MaxSuggestLimit     = 20
)

// ResultType identifies the entity type behind a search result.
type ResultType string

const (
	ResultTypeUser         ResultType = "user"
	ResultTypeCampaign     ResultType = "campaign"
	ResultTypeOrganization ResultType = "organization"
)

// Scope restricts a search request to a subset of entity types.
type Scope string

const (
	ScopeAll           Scope = "all"
	ScopeUsers         Scope = "users"
	ScopeCampaigns     Scope = "campaigns"
	ScopeOrganizations Scope = "orgs"
)

// ParseScope maps a query-string scope value to a Scope, defaulting to
// ScopeAll for empty or unknown values.
func ParseScope(s string) Scope {
	switch Scope(strings.ToLower(strings.TrimSpace(s))) {
	case ScopeUsers:
		return ScopeUsers
	case ScopeCampaigns:
		return ScopeCampaigns
	case ScopeOrganizations:
		return ScopeOrganizations
	default:
		return ScopeAll
	}
}

// Includes reports whether results of type t belong in this scope.
func (s Scope) Includes(t ResultType) bool {
	switch s {
	case ScopeUsers:
		return t == ResultTypeUser
	case ScopeCampaigns:
		return t == ResultTypeCampaign
	case ScopeOrganizations:
		return t == ResultTypeOrganization
	default:
		return true
	}
}

// SearchResult is one entry in a search response. It is constructed
// fresh per query and never stored as an entity of its own.
type SearchResult struct {
	ID       string     `json:"id"`
	Type     ResultType `json:"type"`
	Title    string     `json:"title"`
	Subtitle string     `json:"subtitle,omitempty"`
	Snippet  string     `json:"snippet,omitempty"`
	Link     string     `json:"link"`
	Score    float64    `json:"score"`
	Image    string     `json:"image,omitempty"`
}

// SearchQuery is a normalized search request.
type SearchQuery struct {
	Text    string
	Scope   Scope
	Limit   int
	Offset  int
	Filters map[string]string
}

// Normalize trims and lowercases the query text and clamps limit and
// offset into their valid ranges.
func (q *SearchQuery) Normalize() {
	q.Text = strings.ToLower(strings.TrimSpace(q.Text))
	if q.Scope == "" {
		q.Scope = ScopeAll
	}
	if q.Limit <= 0 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
}

// Validate reports whether the normalized query is long enough to run.
func (q *SearchQuery) Validate() error {
	if utf8.RuneCountInString(q.Text) < MinQueryLength {
		return ErrQueryTooShort
	}
	return nil
}

// CacheKey derives the deterministic cache key for this query:
// search:{text}:{scope}:{json(filters)}:{limit}. Offset is deliberately
// excluded: the cache stores the full pre-pagination candidate list, so
// one row serves every page of the same query.
func (q *SearchQuery) CacheKey() string {
	filters := q.Filters
	if filters == nil {
		filters = map[string]string{}
	}
	// json.Marshal sorts map keys, so the key is deterministic.
	data, _ := json.Marshal(filters)
	return fmt.Sprintf("search:%s:%s:%s:%d", q.Text, q.Scope, data, q.Limit)
}

// SearchResponse is the payload of GET /search.
type SearchResponse struct {
	Results         []SearchResult `json:"results"`
	Total           int            `json:"total"`
	ExecutionTimeMs int64          `json:"executionTimeMs"`
	Cached          bool           `json:"cached"`
	Cursor          string         `json:"cursor,omitempty"`
	Suggestions     []string       `json:"suggestions,omitempty"`
}

// SuggestResponse is the payload of GET /search/suggest.
type SuggestResponse struct {
	Suggestions     []string `json:"suggestions"`
	ExecutionTimeMs int64    `json:"executionTimeMs"`
}

// HealthResponse is the payload of GET /search/health.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// CachedSearch is the cached outcome of one live search: the full
// merged candidate list before pagination, plus bookkeeping fields.
type CachedSearch struct {
	Results     []SearchResult `json:"results"`
	Suggestions []string       `json:"suggestions"`
	ResultCount int            `json:"result_count"`
	ExpiresAt   time.Time      `json:"expires_at"`
}

// Session identifies the caller of one search request. The session ID
// is taken from the X-Session-ID header or generated per request; the
// user ID is present only for authenticated callers.
type Session struct {
	ID     string
	UserID string
}
