package indexdata

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultCacheTTL keeps a fetched series for a day; the underlying data has
// monthly granularity so anything up to a month would be correct.
const DefaultCacheTTL = 24 * time.Hour

// Cache stores serialized factor series keyed by series request.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
}

// MemoryCache is an in-process Cache with per-entry expiry.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// NewMemoryCache creates an empty in-process cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]memoryEntry)}
}

// Get returns the cached value for key if present and unexpired.
func (c *MemoryCache) Get(_ context.Context, key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	if !ok {
		return "", false
	}
	if time.Now().After(entry.expiresAt) {
		delete(c.entries, key)
		return "", false
	}
	return entry.value, true
}

// Set stores value under key with the given TTL.
func (c *MemoryCache) Set(_ context.Context, key string, value string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = memoryEntry{value: value, expiresAt: time.Now().Add(ttl)}
	return nil
}

// CachedProvider decorates a Provider with a Cache. Cache failures fall
// through to the underlying provider; only the fetch itself is a hard stop.
type CachedProvider struct {
	provider Provider
	cache    Cache
	ttl      time.Duration
	logger   *zap.Logger
}

// NewCachedProvider wraps provider with cache.
func NewCachedProvider(logger *zap.Logger, provider Provider, cache Cache, ttl time.Duration) *CachedProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedProvider{provider: provider, cache: cache, ttl: ttl, logger: logger}
}

// MonthlyFactors returns the cached series when present, otherwise fetches
// from the underlying provider and stores the result.
func (p *CachedProvider) MonthlyFactors(ctx context.Context, months int) ([]float64, error) {
	key := fmt.Sprintf("indexdata:monthly-factors:%d", months)

	if serialized, ok := p.cache.Get(ctx, key); ok {
		var factors []float64
		if err := json.Unmarshal([]byte(serialized), &factors); err == nil {
			return factors, nil
		}
		p.logger.Warn("discarding unreadable cached index series",
			zap.String("op", "indexdata.CachedProvider"),
			zap.String("key", key),
		)
	}

	factors, err := p.provider.MonthlyFactors(ctx, months)
	if err != nil {
		return nil, err
	}

	if serialized, err := json.Marshal(factors); err == nil {
		if err := p.cache.Set(ctx, key, string(serialized), p.ttl); err != nil {
			p.logger.Warn("failed to cache index series",
				zap.String("op", "indexdata.CachedProvider"),
				zap.Error(err),
			)
		}
	}
	return factors, nil
}
