// Package searchcache caches ranked search pages in Redis. It wraps
// the record-store searcher, so callers cannot tell a cached page from
// a fresh one, and a cache outage degrades to plain store reads.
package searchcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/qamqor-cloud/sponsorscope/internal/db/redis"
	"github.com/qamqor-cloud/sponsorscope/internal/domain/company"
	"github.com/qamqor-cloud/sponsorscope/internal/domain/search/criteria"
	"github.com/qamqor-cloud/sponsorscope/internal/metrics"
)

// Searcher is the wrapped store operation.
type Searcher interface {
	Search(ctx context.Context, c criteria.Criteria) ([]company.Record, int, error)
}

// KV is the key-value store holding cached pages.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Cache decorates a Searcher with TTL-evicted result caching. Staleness
// is bounded by the TTL alone: record imports run out of process, so
// there is no invalidation signal to listen for.
type Cache struct {
	inner Searcher
	kv    KV
	ttl   time.Duration
	log   *zap.Logger
}

// New wraps inner with a result cache.
func New(inner Searcher, kv KV, ttl time.Duration, log *zap.Logger) *Cache {
	return &Cache{inner: inner, kv: kv, ttl: ttl, log: log}
}

// page is the cached envelope: the ranked records plus the total match
// count, exactly what the searcher returned.
type page struct {
	Records []company.Record `json:"records"`
	Total   int              `json:"total"`
}

// Search returns the cached page when present, otherwise delegates and
// stores the fresh result. Cache failures are logged and absorbed; the
// store answer always wins over a broken cache.
func (c *Cache) Search(ctx context.Context, crit criteria.Criteria) ([]company.Record, int, error) {
	key := cacheKey(crit)

	if data, err := c.kv.Get(ctx, key); err == nil {
		var p page
		if err := json.Unmarshal(data, &p); err == nil {
			metrics.SearchCacheTotal.WithLabelValues("hit").Inc()
			return p.Records, p.Total, nil
		}
		c.log.Warn("discarding undecodable cache entry", zap.String("key", key))
	} else if !errors.Is(err, redis.ErrKeyNotFound) {
		c.log.Warn("cache read failed", zap.String("key", key), zap.Error(err))
	}
	metrics.SearchCacheTotal.WithLabelValues("miss").Inc()

	records, total, err := c.inner.Search(ctx, crit)
	if err != nil {
		return nil, 0, err
	}

	if data, err := json.Marshal(page{Records: records, Total: total}); err == nil {
		if err := c.kv.SetWithTTL(ctx, key, data, c.ttl); err != nil {
			c.log.Warn("cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return records, total, nil
}

// cacheKey hashes the canonical criteria string. Hashing keeps keys
// fixed-length and free of user input.
func cacheKey(c criteria.Criteria) string {
	sum := sha256.Sum256([]byte(c.CacheKey()))
	return "search:" + hex.EncodeToString(sum[:])
}
