package shopscout

import (
	"time"

	"go.uber.org/zap"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	llmAPIKey      string
	llmBaseURL     string
	llmModel       string
	llmTemperature float32
	llmMaxTokens   int

	searchAPIKey  string
	searchBaseURL string
	searchTimeout time.Duration
	searchRPS     float64

	cacheAddrs    []string
	cacheUsername string
	cachePassword string
	cacheDB       int
	cacheTTL      time.Duration

	queryStrategy   string
	extractStrategy string
	rankStrategy    string
	queryCount      int
	resultsPerQuery int
	topN            int
	minScore        float64
	batchSize       int
	concurrency     int
	fallbackSites   []string

	logger *zap.Logger
}

// WithOpenAI sets the completion provider API key.
// Required unless all three strategies are "rules".
func WithOpenAI(apiKey string) Option {
	return optionFunc(func(c *clientConfig) {
		c.llmAPIKey = apiKey
	})
}

// WithLLMBaseURL points the completion provider at an OpenAI-compatible
// endpoint. Empty uses the official API.
func WithLLMBaseURL(baseURL string) Option {
	return optionFunc(func(c *clientConfig) {
		c.llmBaseURL = baseURL
	})
}

// WithLLMModel overrides the completion model. Default: gpt-4o-mini.
func WithLLMModel(model string) Option {
	return optionFunc(func(c *clientConfig) {
		c.llmModel = model
	})
}

// WithBrave sets the Brave Web Search API key. Required.
func WithBrave(apiKey string) Option {
	return optionFunc(func(c *clientConfig) {
		c.searchAPIKey = apiKey
	})
}

// WithSearchBaseURL overrides the search API endpoint.
func WithSearchBaseURL(baseURL string) Option {
	return optionFunc(func(c *clientConfig) {
		c.searchBaseURL = baseURL
	})
}

// WithSearchRPS sets the outbound search request rate. Default: 1.
func WithSearchRPS(rps float64) Option {
	return optionFunc(func(c *clientConfig) {
		c.searchRPS = rps
	})
}

// WithRedisCache enables Redis-backed caching of search responses.
// Without it every discovery run hits the search provider directly.
func WithRedisCache(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheAddrs = []string{addr}
		c.cachePassword = password
	})
}

// WithCacheTTL sets the search cache entry lifetime. Default: 1h.
func WithCacheTTL(ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheTTL = ttl
	})
}

// WithStrategies selects the implementation for each assisted pipeline
// stage. Each value is "rules" or "llm".
// Defaults: query=llm, extract=rules, rank=rules.
func WithStrategies(query, extract, rank string) Option {
	return optionFunc(func(c *clientConfig) {
		c.queryStrategy = query
		c.extractStrategy = extract
		c.rankStrategy = rank
	})
}

// WithTopN sets the final result set size. Default: 5.
func WithTopN(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.topN = n
	})
}

// WithConcurrency bounds parallel extraction and estimation calls.
// Default: 4.
func WithConcurrency(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.concurrency = n
	})
}

// WithFallbackSites sets the marketplace domains used in
// site-restricted queries.
func WithFallbackSites(sites []string) Option {
	return optionFunc(func(c *clientConfig) {
		c.fallbackSites = sites
	})
}

// WithLogger enables structured logging for pipeline operations.
// Pass nil to disable (default).
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}
