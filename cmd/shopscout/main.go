package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/shopscout-ai/shopscout/internal/config"
	"github.com/shopscout-ai/shopscout/internal/db"
	dbRedis "github.com/shopscout-ai/shopscout/internal/db/redis"
	logpkg "github.com/shopscout-ai/shopscout/internal/logger"
	"github.com/shopscout-ai/shopscout/internal/metrics"
	"github.com/shopscout-ai/shopscout/internal/repository/searchcache"
	"github.com/shopscout-ai/shopscout/internal/transport/brave"
	chiTransport "github.com/shopscout-ai/shopscout/internal/transport/chi"
	openaiCompletion "github.com/shopscout-ai/shopscout/internal/transport/openai"
	discoveruc "github.com/shopscout-ai/shopscout/internal/usecase/discover"
	extractuc "github.com/shopscout-ai/shopscout/internal/usecase/extract"
	healthuc "github.com/shopscout-ai/shopscout/internal/usecase/health"
	priceuc "github.com/shopscout-ai/shopscout/internal/usecase/price"
	queryuc "github.com/shopscout-ai/shopscout/internal/usecase/query"
	rankuc "github.com/shopscout-ai/shopscout/internal/usecase/rank"
	searchuc "github.com/shopscout-ai/shopscout/internal/usecase/search"
	"github.com/shopscout-ai/shopscout/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting shopscout API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("llm_model", cfg.LLM.Model),
		zap.Strings("cache_addrs", cfg.Cache.Addrs),
	)

	// Register provider metrics explicitly (no init())
	metrics.RegisterProviderMetrics()

	// Search cache store is optional: empty addrs run the pipeline uncached.
	var store db.Store
	if len(cfg.Cache.Addrs) > 0 {
		redisStore, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Username: cfg.Cache.Username,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer redisStore.Close()

		ctx := context.Background()
		readiness := time.Duration(cfg.Cache.ReadinessTimeout) * time.Second
		if err := redisStore.WaitForReady(ctx, readiness); err != nil {
			logger.Fatal("Cache store not ready", zap.Error(err))
		}
		logger.Info("Connected to cache store")
		store = redisStore
	}

	// Capabilities
	completer := openaiCompletion.NewCompleter(&openaiCompletion.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
		Provider:    "openai",
		Logger:      logger,
	})

	braveClient := brave.NewClient(&brave.Config{
		APIKey:            cfg.Search.APIKey,
		BaseURL:           cfg.Search.BaseURL,
		Timeout:           time.Duration(cfg.Search.TimeoutSec) * time.Second,
		RequestsPerSecond: cfg.Search.RequestsPerSecond,
		Logger:            logger,
	})

	var searcher searchuc.Provider = braveClient
	if store != nil {
		searcher = searchcache.New(
			braveClient, store,
			time.Duration(cfg.Cache.TTLSec)*time.Second,
			metrics.SearchCacheTotal, logger,
		)
	}

	// Pipeline stages per configured strategy
	pipe := cfg.Pipeline

	var queries discoveruc.QueryGenerator
	if pipe.QueryStrategy == "llm" {
		queries = queryuc.New(completer, pipe.QueryCount, pipe.FallbackSites, logger)
	} else {
		queries = queryuc.NewRules(pipe.QueryCount, pipe.FallbackSites)
	}

	searchSvc := searchuc.New(searcher, pipe.ResultsPerQuery, pipe.Concurrency, logger)

	var extractor discoveruc.Extractor
	if pipe.ExtractStrategy == "llm" {
		extractor = extractuc.NewLLMExtractor(completer, logger)
	} else {
		extractor = extractuc.NewRuleExtractor()
	}

	ruleRanker := rankuc.NewRuleRanker(pipe.MinScore)
	var ranker discoveruc.Ranker = ruleRanker
	if pipe.RankStrategy == "llm" {
		ranker = rankuc.NewLLMRanker(completer, ruleRanker, pipe.BatchSize, logger)
	}

	priceSvc := priceuc.New(completer, pipe.Concurrency, logger)

	discoverSvc := discoveruc.New(
		queries, searchSvc, extractor, ranker, priceSvc,
		pipe.TopN, pipe.Concurrency, logger,
	)

	// Health service. Pass nil interface (not typed nil pointer!) when
	// the cache store is not configured.
	var cachePinger healthuc.CachePinger
	if store != nil {
		cachePinger = store
	}
	healthSvc := healthuc.New(cachePinger, completer)

	// Create chi server
	server := chiTransport.NewServer(discoverSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Register(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
