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

	"github.com/qamqor-cloud/sponsorscope/internal/config"
	"github.com/qamqor-cloud/sponsorscope/internal/db/postgres"
	dbRedis "github.com/qamqor-cloud/sponsorscope/internal/db/redis"
	"github.com/qamqor-cloud/sponsorscope/internal/domain/search/criteria"
	logpkg "github.com/qamqor-cloud/sponsorscope/internal/logger"
	"github.com/qamqor-cloud/sponsorscope/internal/metrics"
	companyrepo "github.com/qamqor-cloud/sponsorscope/internal/repository/company"
	considerationrepo "github.com/qamqor-cloud/sponsorscope/internal/repository/consideration"
	"github.com/qamqor-cloud/sponsorscope/internal/repository/searchcache"
	chiTransport "github.com/qamqor-cloud/sponsorscope/internal/transport/chi"
	"github.com/qamqor-cloud/sponsorscope/internal/transport/googlecse"
	companyuc "github.com/qamqor-cloud/sponsorscope/internal/usecase/company"
	considerationuc "github.com/qamqor-cloud/sponsorscope/internal/usecase/consideration"
	healthuc "github.com/qamqor-cloud/sponsorscope/internal/usecase/health"
	researchuc "github.com/qamqor-cloud/sponsorscope/internal/usecase/research"
	searchuc "github.com/qamqor-cloud/sponsorscope/internal/usecase/search"
	"github.com/qamqor-cloud/sponsorscope/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting sponsorscope API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Bool("cache_enabled", cfg.CacheEnabled()),
		zap.Bool("research_enabled", cfg.ResearchEnabled()),
	)

	ctx := context.Background()

	pool, err := postgres.Connect(ctx, postgres.Config{
		URL:      cfg.Database.URL,
		MaxConns: cfg.Database.MaxConns,
	})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer pool.Close()
	logger.Info("Connected to database")

	if cfg.Database.Migrate {
		if err := pool.Migrate(); err != nil {
			logger.Fatal("Failed to apply migrations", zap.Error(err))
		}
		logger.Info("Migrations applied")
	}

	// Register search metrics explicitly (no init())
	metrics.RegisterSearchMetrics()

	// Repositories
	companies := companyrepo.New(pool)
	considerations := considerationrepo.New(pool)

	// Result cache is optional: without Redis the store serves every
	// search directly.
	var store searchuc.Searcher = companies
	var cachePinger healthuc.CachePinger
	if cfg.CacheEnabled() {
		cache, err := dbRedis.New(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			logger.Fatal("Failed to connect to cache", zap.Error(err))
		}
		defer cache.Close()

		ttl := time.Duration(cfg.Cache.TTLSec) * time.Second
		store = searchcache.New(companies, cache, ttl, logger)
		cachePinger = cache
		logger.Info("Search result cache enabled", zap.Duration("ttl", ttl))
	}

	// Use case services
	queryTimeout := time.Duration(cfg.Database.QueryTimeoutSec) * time.Second
	pageLimits := criteria.Limits{
		DefaultPageSize: cfg.Search.DefaultPageSize,
		MaxPageSize:     cfg.Search.MaxPageSize,
	}
	searchSvc := searchuc.New(store, considerations, queryTimeout, pageLimits)
	companySvc := companyuc.New(companies)
	considerationSvc := considerationuc.New(considerations)

	var researchSvc *researchuc.Service
	if cfg.ResearchEnabled() {
		cse, err := googlecse.New(ctx, googlecse.Config{
			APIKey:     cfg.Research.APIKey,
			EngineID:   cfg.Research.EngineID,
			MaxResults: cfg.Research.MaxResults,
		})
		if err != nil {
			logger.Fatal("Failed to create research client", zap.Error(err))
		}
		researchTimeout := time.Duration(cfg.Research.TimeoutSec) * time.Second
		researchSvc = researchuc.New(cse, companies, researchTimeout, logger)
	}

	healthSvc := healthuc.New(pool, cachePinger)

	server := chiTransport.NewServer(
		searchSvc, companySvc, considerationSvc, researchSvc, healthSvc, logger,
	)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.RegisterRoutes(r)

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

			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.WithContext(r.Context(), reqLogger)

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
