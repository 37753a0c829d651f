package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"graphology-api/internal/domain"
	"graphology-api/internal/metrics"
)

// TrendCache guarda la lista de tendencias calculada por usuario. Se invalida al
// registrar un nuevo análisis.
type TrendCache interface {
	Get(ctx context.Context, userID string) (CachedTrends, bool)
	Set(ctx context.Context, userID string, entry CachedTrends) error
	Invalidate(ctx context.Context, userID string) error
}

// CachedTrends guarda las tendencias junto con la fuente de la que salieron.
type CachedTrends struct {
	Source TrendSourceKind     `json:"source"`
	Trends []domain.TraitTrend `json:"trends"`
}

type cacheEntry struct {
	value     CachedTrends
	expiresAt time.Time
}

type memoryTrendCache struct {
	mu    sync.Mutex
	ttl   time.Duration
	now   func() time.Time
	items map[string]cacheEntry
}

func NewMemoryTrendCache(ttl time.Duration) TrendCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &memoryTrendCache{
		ttl:   ttl,
		now:   func() time.Time { return time.Now().UTC() },
		items: make(map[string]cacheEntry),
	}
}

func (c *memoryTrendCache) Get(_ context.Context, userID string) (CachedTrends, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	item, ok := c.items[userID]
	if !ok {
		metrics.CacheMisses.WithLabelValues("trends").Inc()
		return CachedTrends{}, false
	}
	if c.now().After(item.expiresAt) {
		delete(c.items, userID)
		metrics.CacheMisses.WithLabelValues("trends").Inc()
		return CachedTrends{}, false
	}
	metrics.CacheHits.WithLabelValues("trends").Inc()
	return item.value, true
}

func (c *memoryTrendCache) Set(_ context.Context, userID string, entry CachedTrends) error {
	if strings.TrimSpace(userID) == "" {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[userID] = cacheEntry{value: entry, expiresAt: c.now().Add(c.ttl)}
	return nil
}

func (c *memoryTrendCache) Invalidate(_ context.Context, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, userID)
	return nil
}

type redisKV interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type redisTrendCache struct {
	client redisKV
	ttl    time.Duration
	prefix string
}

func NewRedisTrendCache(client *redis.Client, ttl time.Duration) TrendCache {
	if client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &redisTrendCache{
		client: client,
		ttl:    ttl,
		prefix: "insights:trends:",
	}
}

// Get trata cualquier error de Redis o de decodificación como miss.
func (c *redisTrendCache) Get(ctx context.Context, userID string) (CachedTrends, bool) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return CachedTrends{}, false
	}
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()

	raw, err := c.client.Get(ctx, c.prefix+userID).Bytes()
	if err != nil {
		metrics.CacheMisses.WithLabelValues("trends").Inc()
		return CachedTrends{}, false
	}
	var entry CachedTrends
	if err := json.Unmarshal(raw, &entry); err != nil || entry.Source == "" {
		metrics.CacheMisses.WithLabelValues("trends").Inc()
		return CachedTrends{}, false
	}
	metrics.CacheHits.WithLabelValues("trends").Inc()
	return entry, true
}

func (c *redisTrendCache) Set(ctx context.Context, userID string, entry CachedTrends) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil
	}
	payload, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	return c.client.Set(ctx, c.prefix+userID, payload, c.ttl).Err()
}

func (c *redisTrendCache) Invalidate(ctx context.Context, userID string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	err := c.client.Del(ctx, c.prefix+userID).Err()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	return err
}
