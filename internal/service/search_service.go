package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/vrusavuk/fundlyhub-sub006/internal/cache"
	"github.com/vrusavuk/fundlyhub-sub006/internal/domain"
	"github.com/vrusavuk/fundlyhub-sub006/internal/repository"
	"github.com/vrusavuk/fundlyhub-sub006/pkg/eventbus"
	"github.com/vrusavuk/fundlyhub-sub006/pkg/log"
)

const (
	defaultQueryTimeout = 3 * time.Second
	cacheWriteTimeout   = 2 * time.Second
	publishTimeout      = 2 * time.Second
)

// Options tunes the search service.
type Options struct {
	CacheTTL     time.Duration
	QueryTimeout time.Duration
}

type searchServiceImpl struct {
	repo         repository.SearchRepository
	suggestions  repository.SuggestionRepository
	cache        cache.SearchCache
	bus          eventbus.Publisher
	cacheTTL     time.Duration
	queryTimeout time.Duration
	sf           singleflight.Group
}

// searchOutcome is the value shared through singleflight: the full
// merged candidate list and whether it came from the cache.
type searchOutcome struct {
	candidates []domain.SearchResult
	cached     bool
}

// NewSearchService creates a new search service.
func NewSearchService(
	repo repository.SearchRepository,
	suggestions repository.SuggestionRepository,
	searchCache cache.SearchCache,
	bus eventbus.Publisher,
	opts Options,
) SearchService {
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = time.Hour
	}
	if opts.QueryTimeout <= 0 {
		opts.QueryTimeout = defaultQueryTimeout
	}
	return &searchServiceImpl{
		repo:         repo,
		suggestions:  suggestions,
		cache:        searchCache,
		bus:          bus,
		cacheTTL:     opts.CacheTTL,
		queryTimeout: opts.QueryTimeout,
	}
}

// Search runs one search request end to end. The cache holds the full
// pre-pagination candidate list, so pagination is applied after the
// cache check and both paths share one cache row per (text, scope,
// filters, limit).
func (s *searchServiceImpl) Search(ctx context.Context, query *domain.SearchQuery, session domain.Session) (*domain.SearchResponse, error) {
	start := time.Now()

	query.Normalize()
	if err := query.Validate(); err != nil {
		return nil, err
	}

	s.publish(eventbus.ChannelSearchSubmitted, eventbus.EventSearchSubmitted, session.ID, eventbus.SearchSubmittedPayload{
		Query:     query.Text,
		Scope:     string(query.Scope),
		SessionID: session.ID,
		UserID:    session.UserID,
	})

	cacheKey := query.CacheKey()

	outcome, err := s.lookupOrCompute(ctx, cacheKey, query)
	if err != nil {
		return nil, err
	}

	page, total, cursor := paginate(outcome.candidates, query.Offset, query.Limit)

	resp := &domain.SearchResponse{
		Results:         page,
		Total:           total,
		ExecutionTimeMs: time.Since(start).Milliseconds(),
		Cached:          outcome.cached,
		Cursor:          cursor,
	}

	s.publish(eventbus.ChannelSearchAnalytics, eventbus.EventSearchAnalytics, session.ID, eventbus.SearchAnalyticsPayload{
		Query:           query.Text,
		Scope:           string(query.Scope),
		CacheKey:        cacheKey,
		ResultCount:     total,
		ExecutionTimeMs: resp.ExecutionTimeMs,
		Cached:          outcome.cached,
		SessionID:       session.ID,
		UserID:          session.UserID,
	})

	return resp, nil
}

// lookupOrCompute returns the candidate list for the query, from cache
// when possible. Concurrent identical queries are collapsed in-process
// by singleflight; across processes the upsert race stands (last
// writer wins, duplicate computation is wasted work, never wrong
// output).
func (s *searchServiceImpl) lookupOrCompute(ctx context.Context, cacheKey string, query *domain.SearchQuery) (*searchOutcome, error) {
	result, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		l := log.Ctx(ctx)

		cached, err := s.cache.Get(ctx, cacheKey)
		if err == nil {
			return &searchOutcome{candidates: cached.Results, cached: true}, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			// A broken cache degrades to a live search.
			l.Warn().Err(err).Str(log.FieldCacheKey, cacheKey).Msg("cache get error")
		}

		candidates := s.queryProjections(ctx, query)

		s.asyncCacheSet(cacheKey, query, &domain.CachedSearch{
			Results:     candidates,
			Suggestions: []string{},
			ResultCount: len(candidates),
		})

		return &searchOutcome{candidates: candidates, cached: false}, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*searchOutcome), nil
}

// queryProjections fans out to the scoped projection readers, bounded
// by the per-request timeout, and merges their results. A failing
// reader is logged and contributes zero results; it never fails the
// request.
func (s *searchServiceImpl) queryProjections(ctx context.Context, query *domain.SearchQuery) []domain.SearchResult {
	queryCtx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	var users, campaigns, orgs []domain.SearchResult

	g, gCtx := errgroup.WithContext(queryCtx)

	if query.Scope.Includes(domain.ResultTypeUser) {
		g.Go(func() error {
			results, err := s.repo.SearchUsers(gCtx, query.Text, query.Limit)
			if err != nil {
				l := log.Ctx(ctx)
				l.Warn().Err(err).Str(log.FieldQuery, query.Text).Msg("user projection query failed")
				return nil
			}
			users = results
			return nil
		})
	}

	if query.Scope.Includes(domain.ResultTypeCampaign) {
		g.Go(func() error {
			results, err := s.repo.SearchCampaigns(gCtx, query.Text, query.Limit, query.Filters)
			if err != nil {
				l := log.Ctx(ctx)
				l.Warn().Err(err).Str(log.FieldQuery, query.Text).Msg("campaign projection query failed")
				return nil
			}
			campaigns = results
			return nil
		})
	}

	if query.Scope.Includes(domain.ResultTypeOrganization) {
		g.Go(func() error {
			results, err := s.repo.SearchOrganizations(gCtx, query.Text, query.Limit)
			if err != nil {
				l := log.Ctx(ctx)
				l.Warn().Err(err).Str(log.FieldQuery, query.Text).Msg("organization projection query failed")
				return nil
			}
			orgs = results
			return nil
		})
	}

	// Readers swallow their own errors, so Wait only propagates a
	// context cancellation, which also just means fewer results.
	_ = g.Wait()

	return merge(users, campaigns, orgs)
}

// Suggest returns up to limit suggestion terms for the prefix. A
// prefix shorter than the minimum query length yields an empty list,
// not an error; short prefixes are normal while the user is typing.
func (s *searchServiceImpl) Suggest(ctx context.Context, prefix string, limit int) ([]string, error) {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if utf8.RuneCountInString(prefix) < domain.MinQueryLength {
		return []string{}, nil
	}

	if limit <= 0 {
		limit = domain.DefaultSuggestLimit
	}
	if limit > domain.MaxSuggestLimit {
		limit = domain.MaxSuggestLimit
	}

	terms, err := s.suggestions.Lookup(ctx, prefix, limit)
	if err != nil {
		return nil, err
	}
	if terms == nil {
		terms = []string{}
	}
	return terms, nil
}

// asyncCacheSet persists the computed candidate list without blocking
// the response path. Failures are logged and swallowed.
func (s *searchServiceImpl) asyncCacheSet(key string, query *domain.SearchQuery, cached *domain.CachedSearch) {
	q := *query
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), cacheWriteTimeout)
		defer cancel()

		if err := s.cache.Set(ctx, key, &q, cached, s.cacheTTL); err != nil {
			l := log.L()
			l.Warn().Err(err).Str(log.FieldCacheKey, key).Msg("cache set error")
		}
	}()
}

// publish emits an event fire-and-forget; the read path never waits on
// or fails with the bus.
func (s *searchServiceImpl) publish(channel, eventType, sessionID string, payload interface{}) {
	if s.bus == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()

		l := log.L()

		event, err := eventbus.NewEvent(eventType, sessionID, payload)
		if err != nil {
			l.Warn().Err(err).Str("channel", channel).Msg("failed to build event")
			return
		}
		if err := s.bus.Publish(ctx, channel, event); err != nil {
			l.Warn().Err(err).Str("channel", channel).Msg("failed to publish event")
		}
	}()
}
