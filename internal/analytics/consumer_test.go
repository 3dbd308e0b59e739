package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vrusavuk/fundlyhub-sub006/internal/domain"
	"github.com/vrusavuk/fundlyhub-sub006/pkg/eventbus"
)

type mockCache struct {
	mock.Mock
}

func (m *mockCache) Get(ctx context.Context, key string) (*domain.CachedSearch, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CachedSearch), args.Error(1)
}

func (m *mockCache) Set(ctx context.Context, key string, query *domain.SearchQuery, cached *domain.CachedSearch, ttl time.Duration) error {
	args := m.Called(ctx, key, query, cached, ttl)
	return args.Error(0)
}

func (m *mockCache) IncrementHit(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *mockCache) PurgeExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockCache) Close() error { return nil }

type mockSuggestionWriter struct {
	mock.Mock
}

func (m *mockSuggestionWriter) RecordTerm(ctx context.Context, term string) error {
	args := m.Called(ctx, term)
	return args.Error(0)
}

func submittedEvent(t *testing.T, query string) *eventbus.Event {
	t.Helper()
	event, err := eventbus.NewEvent(eventbus.EventSearchSubmitted, "sess-1", eventbus.SearchSubmittedPayload{
		Query:     query,
		Scope:     "all",
		SessionID: "sess-1",
	})
	require.NoError(t, err)
	return event
}

func analyticsEvent(t *testing.T, cacheKey string, cached bool) *eventbus.Event {
	t.Helper()
	event, err := eventbus.NewEvent(eventbus.EventSearchAnalytics, "sess-1", eventbus.SearchAnalyticsPayload{
		Query:       "jane",
		Scope:       "all",
		CacheKey:    cacheKey,
		ResultCount: 4,
		Cached:      cached,
		SessionID:   "sess-1",
	})
	require.NoError(t, err)
	return event
}

func TestHandleSubmittedRecordsTerm(t *testing.T) {
	suggestions := new(mockSuggestionWriter)
	suggestions.On("RecordTerm", mock.Anything, "jane doe").Return(nil)

	c := NewConsumer(eventbus.NewNoopBus(), new(mockCache), suggestions)
	c.HandleSubmitted(context.Background(), submittedEvent(t, "jane doe"))

	suggestions.AssertExpectations(t)
}

func TestHandleSubmittedSkipsShortTerms(t *testing.T) {
	suggestions := new(mockSuggestionWriter)

	c := NewConsumer(eventbus.NewNoopBus(), new(mockCache), suggestions)
	c.HandleSubmitted(context.Background(), submittedEvent(t, "a"))

	suggestions.AssertNotCalled(t, "RecordTerm", mock.Anything, mock.Anything)
}

func TestHandleAnalyticsIncrementsHitForCachedSearch(t *testing.T) {
	searchCache := new(mockCache)
	searchCache.On("IncrementHit", mock.Anything, "search:jane:all:{}:20").Return(nil)

	c := NewConsumer(eventbus.NewNoopBus(), searchCache, new(mockSuggestionWriter))
	c.HandleAnalytics(context.Background(), analyticsEvent(t, "search:jane:all:{}:20", true))

	searchCache.AssertExpectations(t)
}

func TestHandleAnalyticsIgnoresLiveSearch(t *testing.T) {
	searchCache := new(mockCache)

	c := NewConsumer(eventbus.NewNoopBus(), searchCache, new(mockSuggestionWriter))
	c.HandleAnalytics(context.Background(), analyticsEvent(t, "search:jane:all:{}:20", false))

	searchCache.AssertNotCalled(t, "IncrementHit", mock.Anything, mock.Anything)
}

func TestHandleMalformedPayload(t *testing.T) {
	searchCache := new(mockCache)
	suggestions := new(mockSuggestionWriter)

	event := &eventbus.Event{ID: "evt-1", Type: eventbus.EventSearchAnalytics, Payload: []byte("{not json")}

	c := NewConsumer(eventbus.NewNoopBus(), searchCache, suggestions)
	c.HandleAnalytics(context.Background(), event)
	c.HandleSubmitted(context.Background(), event)

	searchCache.AssertNotCalled(t, "IncrementHit", mock.Anything, mock.Anything)
	suggestions.AssertNotCalled(t, "RecordTerm", mock.Anything, mock.Anything)
}

func TestConsumerLifecycle(t *testing.T) {
	c := NewConsumer(eventbus.NewNoopBus(), new(mockCache), new(mockSuggestionWriter))

	require.NoError(t, c.Start(context.Background()))
	c.Stop()

	select {
	case <-c.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("consumer did not stop")
	}
}

func TestSweeperPurges(t *testing.T) {
	searchCache := new(mockCache)
	swept := make(chan struct{}, 4)
	searchCache.On("PurgeExpired", mock.Anything).Return(int64(2), nil).Run(func(mock.Arguments) {
		swept <- struct{}{}
	})

	s := NewSweeper(searchCache, 10*time.Millisecond)
	s.Start(context.Background())

	select {
	case <-swept:
	case <-time.After(2 * time.Second):
		t.Fatal("sweeper never ran")
	}

	s.Stop()
	select {
	case <-s.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("sweeper did not stop")
	}

	assert.True(t, searchCache.AssertCalled(t, "PurgeExpired", mock.Anything))
}
