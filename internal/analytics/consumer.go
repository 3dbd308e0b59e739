// Package analytics maintains the search counters off the query path:
// cache hit counts and suggestion usage counts are updated only here,
// driven by the events the gateway publishes. The read path stays
// write-free and works whether or not this package runs.
package analytics

import (
	"context"
	"unicode/utf8"

	"github.com/vrusavuk/fundlyhub-sub006/internal/cache"
	"github.com/vrusavuk/fundlyhub-sub006/internal/domain"
	"github.com/vrusavuk/fundlyhub-sub006/internal/repository"
	"github.com/vrusavuk/fundlyhub-sub006/pkg/eventbus"
	pkglog "github.com/vrusavuk/fundlyhub-sub006/pkg/log"
)

// Consumer subscribes to the search channels and applies counter
// updates.
type Consumer struct {
	bus         eventbus.Subscriber
	cache       cache.SearchCache
	suggestions repository.SuggestionWriter
	quit        chan struct{}
	doneCh      chan struct{}
}

// NewConsumer creates a new analytics consumer.
func NewConsumer(bus eventbus.Subscriber, searchCache cache.SearchCache, suggestions repository.SuggestionWriter) *Consumer {
	return &Consumer{
		bus:         bus,
		cache:       searchCache,
		suggestions: suggestions,
		quit:        make(chan struct{}),
		doneCh:      make(chan struct{}),
	}
}

// Start subscribes to both search channels and begins consuming in a
// background goroutine.
func (c *Consumer) Start(ctx context.Context) error {
	submitted, err := c.bus.Subscribe(ctx, eventbus.ChannelSearchSubmitted)
	if err != nil {
		return err
	}
	analyticsCh, err := c.bus.Subscribe(ctx, eventbus.ChannelSearchAnalytics)
	if err != nil {
		return err
	}

	go c.run(ctx, submitted, analyticsCh)
	return nil
}

// Stop signals the consumer to stop and returns immediately.
// Call Done() to wait for it to exit.
func (c *Consumer) Stop() {
	close(c.quit)
}

// Done returns a channel that is closed when the consumer has fully stopped.
func (c *Consumer) Done() <-chan struct{} {
	return c.doneCh
}

func (c *Consumer) run(ctx context.Context, submitted, analyticsCh <-chan *eventbus.Event) {
	defer close(c.doneCh)

	for {
		select {
		case <-c.quit:
			return
		case <-ctx.Done():
			return
		case event, ok := <-submitted:
			if !ok {
				return
			}
			c.HandleSubmitted(ctx, event)
		case event, ok := <-analyticsCh:
			if !ok {
				return
			}
			c.HandleAnalytics(ctx, event)
		}
	}
}

// HandleSubmitted records the submitted query term so it can surface
// as a suggestion. Terms below the minimum query length are skipped.
func (c *Consumer) HandleSubmitted(ctx context.Context, event *eventbus.Event) {
	l := pkglog.L()

	var payload eventbus.SearchSubmittedPayload
	if err := event.UnmarshalPayload(&payload); err != nil {
		l.Error().Err(err).Str("event_id", event.ID).Msg("failed to unmarshal search submitted event")
		return
	}

	if utf8.RuneCountInString(payload.Query) < domain.MinQueryLength {
		return
	}

	if err := c.suggestions.RecordTerm(ctx, payload.Query); err != nil {
		l.Error().Err(err).Str(pkglog.FieldQuery, payload.Query).Msg("failed to record suggestion term")
	}
}

// HandleAnalytics bumps the hit counter for searches served from the
// cache. Live searches already reset the counter through the cache
// write.
func (c *Consumer) HandleAnalytics(ctx context.Context, event *eventbus.Event) {
	l := pkglog.L()

	var payload eventbus.SearchAnalyticsPayload
	if err := event.UnmarshalPayload(&payload); err != nil {
		l.Error().Err(err).Str("event_id", event.ID).Msg("failed to unmarshal search analytics event")
		return
	}

	if !payload.Cached || payload.CacheKey == "" {
		return
	}

	if err := c.cache.IncrementHit(ctx, payload.CacheKey); err != nil {
		l.Error().Err(err).Str(pkglog.FieldCacheKey, payload.CacheKey).Msg("failed to increment cache hit count")
	}
}
