package shopscout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/shopscout-ai/shopscout/internal/db"
	dbRedis "github.com/shopscout-ai/shopscout/internal/db/redis"
	"github.com/shopscout-ai/shopscout/internal/domain"
	"github.com/shopscout-ai/shopscout/internal/repository/searchcache"
	"github.com/shopscout-ai/shopscout/internal/transport/brave"
	openaiCompletion "github.com/shopscout-ai/shopscout/internal/transport/openai"
	discoveruc "github.com/shopscout-ai/shopscout/internal/usecase/discover"
	extractuc "github.com/shopscout-ai/shopscout/internal/usecase/extract"
	healthuc "github.com/shopscout-ai/shopscout/internal/usecase/health"
	priceuc "github.com/shopscout-ai/shopscout/internal/usecase/price"
	queryuc "github.com/shopscout-ai/shopscout/internal/usecase/query"
	rankuc "github.com/shopscout-ai/shopscout/internal/usecase/rank"
	searchuc "github.com/shopscout-ai/shopscout/internal/usecase/search"
)

const defaultReadinessTimeout = 10 * time.Second

// Internal interfaces so tests can substitute the wired services.
type discoverUseCase interface {
	Discover(ctx context.Context, req domain.Requirement) ([]domain.RankedProduct, error)
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Client is the shopscout SDK entry point.
type Client struct {
	store       db.Store
	discoverSvc discoverUseCase
	healthSvc   healthUseCase
}

// New creates a shopscout Client and wires the discovery pipeline.
// The provided context is used for the cache readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		llmModel:        "gpt-4o-mini",
		llmTemperature:  0.2,
		llmMaxTokens:    2000,
		searchTimeout:   10 * time.Second,
		searchRPS:       1,
		cacheTTL:        time.Hour,
		queryStrategy:   "llm",
		extractStrategy: "rules",
		rankStrategy:    "rules",
		queryCount:      5,
		resultsPerQuery: 10,
		topN:            5,
		minScore:        0.3,
		batchSize:       5,
		concurrency:     4,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}

	var store db.Store
	if len(cfg.cacheAddrs) > 0 {
		redisStore, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.cacheAddrs,
			Username: cfg.cacheUsername,
			Password: cfg.cachePassword,
			DB:       cfg.cacheDB,
		})
		if err != nil {
			return nil, fmt.Errorf("shopscout: cache store: %w", err)
		}
		if err := redisStore.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
			redisStore.Close()
			return nil, fmt.Errorf("shopscout: cache not ready: %w", err)
		}
		store = redisStore
	}

	return wireClient(store, cfg), nil
}

func validate(cfg *clientConfig) error {
	if cfg.llmAPIKey == "" {
		return errors.New("shopscout: completion API key required (use WithOpenAI)")
	}
	if cfg.searchAPIKey == "" {
		return errors.New("shopscout: search API key required (use WithBrave)")
	}
	for _, s := range []string{cfg.queryStrategy, cfg.extractStrategy, cfg.rankStrategy} {
		if s != "rules" && s != "llm" {
			return fmt.Errorf("shopscout: strategy must be \"rules\" or \"llm\", got %q", s)
		}
	}
	return nil
}

func wireClient(store db.Store, cfg *clientConfig) *Client {
	completer := openaiCompletion.NewCompleter(&openaiCompletion.Config{
		APIKey:      cfg.llmAPIKey,
		BaseURL:     cfg.llmBaseURL,
		Model:       cfg.llmModel,
		Temperature: cfg.llmTemperature,
		MaxTokens:   cfg.llmMaxTokens,
		Provider:    "openai",
		Logger:      cfg.logger,
	})

	braveClient := brave.NewClient(&brave.Config{
		APIKey:            cfg.searchAPIKey,
		BaseURL:           cfg.searchBaseURL,
		Timeout:           cfg.searchTimeout,
		RequestsPerSecond: cfg.searchRPS,
		Logger:            cfg.logger,
	})

	var searcher searchuc.Provider = braveClient
	if store != nil {
		searcher = searchcache.New(braveClient, store, cfg.cacheTTL, nil, cfg.logger)
	}

	var queries discoveruc.QueryGenerator
	if cfg.queryStrategy == "llm" {
		queries = queryuc.New(completer, cfg.queryCount, cfg.fallbackSites, cfg.logger)
	} else {
		queries = queryuc.NewRules(cfg.queryCount, cfg.fallbackSites)
	}

	searchSvc := searchuc.New(searcher, cfg.resultsPerQuery, cfg.concurrency, cfg.logger)

	var extractor discoveruc.Extractor
	if cfg.extractStrategy == "llm" {
		extractor = extractuc.NewLLMExtractor(completer, cfg.logger)
	} else {
		extractor = extractuc.NewRuleExtractor()
	}

	ruleRanker := rankuc.NewRuleRanker(cfg.minScore)
	var ranker discoveruc.Ranker = ruleRanker
	if cfg.rankStrategy == "llm" {
		ranker = rankuc.NewLLMRanker(completer, ruleRanker, cfg.batchSize, cfg.logger)
	}

	priceSvc := priceuc.New(completer, cfg.concurrency, cfg.logger)

	discoverSvc := discoveruc.New(
		queries, searchSvc, extractor, ranker, priceSvc,
		cfg.topN, cfg.concurrency, cfg.logger,
	)

	var cachePinger healthuc.CachePinger
	if store != nil {
		cachePinger = store
	}

	return &Client{
		store:       store,
		discoverSvc: discoverSvc,
		healthSvc:   healthuc.New(cachePinger, completer),
	}
}

// Discover runs the full pipeline for a requirement and returns the final
// ranked product set, at most TopN entries. An empty slice is a valid
// outcome: nothing relevant was found.
func (c *Client) Discover(ctx context.Context, req Requirement) ([]Product, error) {
	ranked, err := c.discoverSvc.Discover(ctx, toDomainRequirement(req))
	if err != nil {
		return nil, err
	}
	products := make([]Product, len(ranked))
	for i, rp := range ranked {
		products[i] = fromDomainRanked(rp)
	}
	return products, nil
}

// Close releases the cache connection if one was configured.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}
