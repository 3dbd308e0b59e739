package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/gin-gonic/gin"

	"github.com/vrusavuk/fundlyhub-sub006/internal/analytics"
	"github.com/vrusavuk/fundlyhub-sub006/internal/cache"
	"github.com/vrusavuk/fundlyhub-sub006/internal/config"
	"github.com/vrusavuk/fundlyhub-sub006/internal/handler"
	"github.com/vrusavuk/fundlyhub-sub006/internal/middleware"
	"github.com/vrusavuk/fundlyhub-sub006/internal/repository"
	"github.com/vrusavuk/fundlyhub-sub006/internal/service"
	"github.com/vrusavuk/fundlyhub-sub006/pkg/database"
	"github.com/vrusavuk/fundlyhub-sub006/pkg/eventbus"
	"github.com/vrusavuk/fundlyhub-sub006/pkg/jwt"
	pkglog "github.com/vrusavuk/fundlyhub-sub006/pkg/log"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		l := pkglog.L()
		l.Fatal().Err(err).Msg("failed to load config")
	}

	// 2. Initialize structured logger
	pkglog.Init(pkglog.Config{
		Level:       cfg.Log.Level,
		Pretty:      cfg.Log.Pretty,
		ServiceName: "search-gateway",
	})
	logger := pkglog.L()

	// 3. Connect to the database (projections, cache table, suggestions)
	db, err := database.New(&database.Config{
		Driver:          cfg.Database.Driver,
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		FilePath:        cfg.Database.FilePath,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	logger.Info().Str("driver", cfg.Database.Driver).Msg("database connected")

	// The cache table belongs to this service; the projection tables
	// are owned by the external projection builder and left alone.
	if err := database.AutoMigrate(db, &cache.CachedSearchModel{}); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate search cache table")
	}

	// 4. Choose the projection reader backend
	var searchRepo repository.SearchRepository
	switch cfg.Search.Driver {
	case "elasticsearch":
		esClient, err := elasticsearch.NewClient(elasticsearch.Config{
			Addresses: cfg.Elasticsearch.Addresses,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to create elasticsearch client")
		}
		res, err := esClient.Info()
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to elasticsearch")
		}
		res.Body.Close()
		logger.Info().Strs("addresses", cfg.Elasticsearch.Addresses).Msg("elasticsearch connected")

		searchRepo = repository.NewESSearchRepository(
			esClient,
			cfg.Elasticsearch.IndexUsers,
			cfg.Elasticsearch.IndexCampaigns,
			cfg.Elasticsearch.IndexOrganizations,
		)
	default:
		searchRepo = repository.NewGormSearchRepository(db)
	}

	suggestionRepo := repository.NewGormSuggestionRepository(db)

	// 5. Choose the cache backend
	var searchCache cache.SearchCache
	switch cfg.Cache.Driver {
	case "redis":
		searchCache, err = cache.NewRedisSearchCache(cfg.Cache.Redis)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to redis")
		}
		logger.Info().Str("addr", cfg.Cache.Redis.Address).Msg("redis cache connected")
	default:
		searchCache = cache.NewGormSearchCache(db)
	}
	defer searchCache.Close()

	// 6. Event bus (noop unless configured)
	bus, err := eventbus.New(cfg.EventBus)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create event bus")
	}
	defer bus.Close()
	logger.Info().Str("driver", cfg.EventBus.Driver).Msg("event bus ready")

	// 7. Wire the service
	searchService := service.NewSearchService(searchRepo, suggestionRepo, searchCache, bus, service.Options{
		CacheTTL:     cfg.Cache.TTL,
		QueryTimeout: cfg.Search.QueryTimeout,
	})

	// 8. Background jobs: analytics consumer and cache sweeper
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var consumer *analytics.Consumer
	if cfg.Analytics.Enabled {
		consumer = analytics.NewConsumer(bus, searchCache, suggestionRepo)
		if err := consumer.Start(ctx); err != nil {
			logger.Warn().Err(err).Msg("failed to start analytics consumer, counters disabled")
			consumer = nil
		} else {
			logger.Info().Msg("analytics consumer started")
		}
	}

	sweeper := analytics.NewSweeper(searchCache, cfg.Cache.SweepInterval)
	sweeper.Start(ctx)
	logger.Info().Dur("interval", cfg.Cache.SweepInterval).Msg("cache sweeper started")

	// 9. Optional identity verification
	var verifier *jwt.Verifier
	if cfg.JWT.Secret != "" {
		verifier = jwt.NewVerifier(cfg.JWT.Secret, cfg.JWT.Issuer)
	}

	// 10. Setup Gin router + HTTP server
	httpHandler := handler.NewHandler(searchService)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(pkglog.GinMiddleware(logger))
	r.Use(handler.CORSMiddleware())
	r.Use(middleware.Identity(verifier))
	httpHandler.RegisterRoutes(r)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logger.Info().Str("addr", addr).Msg("search-gateway starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	// 11. Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("shutdown signal received")

	// Stop background jobs first, then drain HTTP.
	cancel()

	sweeper.Stop()
	<-sweeper.Done()

	if consumer != nil {
		consumer.Stop()
		<-consumer.Done()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("HTTP server forced to shutdown")
	}

	logger.Info().Msg("search-gateway stopped")
}
