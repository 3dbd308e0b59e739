package analytics

import (
	"context"
	"time"

	"github.com/vrusavuk/fundlyhub-sub006/internal/cache"
	pkglog "github.com/vrusavuk/fundlyhub-sub006/pkg/log"
)

const defaultSweepInterval = 10 * time.Minute

// Sweeper periodically removes expired rows from the search cache.
// Expired rows are already invisible to reads, so sweeping is purely
// space reclamation; the redis driver makes this a no-op.
type Sweeper struct {
	cache    cache.SearchCache
	interval time.Duration
	quit     chan struct{}
	doneCh   chan struct{}
}

// NewSweeper creates a new cache sweeper.
func NewSweeper(searchCache cache.SearchCache, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	return &Sweeper{
		cache:    searchCache,
		interval: interval,
		quit:     make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start launches the sweeper in a background goroutine.
func (s *Sweeper) Start(ctx context.Context) {
	go s.run(ctx)
}

// Stop signals the sweeper to stop and returns immediately.
// Call Done() to wait for it to exit.
func (s *Sweeper) Stop() {
	close(s.quit)
}

// Done returns a channel that is closed when the sweeper has fully stopped.
func (s *Sweeper) Done() <-chan struct{} {
	return s.doneCh
}

func (s *Sweeper) run(ctx context.Context) {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.quit:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	l := pkglog.L()

	purged, err := s.cache.PurgeExpired(ctx)
	if err != nil {
		l.Error().Err(err).Msg("sweeper: failed to purge expired cache rows")
		return
	}
	if purged > 0 {
		l.Info().Int64("purged", purged).Msg("sweeper: removed expired cache rows")
	}
}
