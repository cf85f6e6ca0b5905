package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/sales-assist-go/internal/config"
	"github.com/sales-assist-go/internal/models"
	"github.com/sirupsen/logrus"
)

// Service defines result-cache operations. The cache is an optimization to
// absorb repeated identical requests; it is never a correctness dependency.
type Service interface {
	Get(key string) ([]byte, bool)
	Set(key string, body []byte)
	Clear()
}

// Cache implements Service on an in-process TTL store.
type Cache struct {
	enabled bool
	cache   *gocache.Cache
	logger  *logrus.Logger
	maxSize int
}

// NewCache creates a new cache service
func NewCache(cfg *config.CacheConfig, logger *logrus.Logger) Service {
	if !cfg.Enabled {
		return &Cache{enabled: false}
	}

	return &Cache{
		enabled: true,
		cache:   gocache.New(cfg.TTL, cfg.TTL*2),
		logger:  logger,
		maxSize: cfg.MaxSize,
	}
}

// Get retrieves a cached response body
func (c *Cache) Get(key string) ([]byte, bool) {
	if !c.enabled {
		return nil, false
	}

	if val, found := c.cache.Get(key); found {
		entry := val.(*models.CacheEntry)
		c.logger.WithFields(logrus.Fields{
			"key": key,
			"age": time.Since(entry.CreatedAt),
		}).Debug("Cache hit")
		return entry.Body, true
	}

	return nil, false
}

// Set stores a response body
func (c *Cache) Set(key string, body []byte) {
	if !c.enabled {
		return
	}

	if c.cache.ItemCount() >= c.maxSize {
		c.logger.Warn("Cache size limit reached, dropping expired entries")
		c.cache.DeleteExpired()
		// A full window of live entries frees nothing, so evict by age
		// until the new entry fits.
		for c.cache.ItemCount() >= c.maxSize {
			if !c.evictOldest() {
				break
			}
		}
	}

	c.cache.SetDefault(key, &models.CacheEntry{
		Body:      body,
		CreatedAt: time.Now(),
	})
	c.logger.WithField("key", key).Debug("Response cached")
}

// evictOldest drops the entry with the earliest creation time and reports
// whether anything was removed.
func (c *Cache) evictOldest() bool {
	var oldestKey string
	var oldest time.Time
	for key, item := range c.cache.Items() {
		entry, ok := item.Object.(*models.CacheEntry)
		if !ok {
			continue
		}
		if oldestKey == "" || entry.CreatedAt.Before(oldest) {
			oldestKey = key
			oldest = entry.CreatedAt
		}
	}
	if oldestKey == "" {
		return false
	}
	c.cache.Delete(oldestKey)
	c.logger.WithField("key", oldestKey).Debug("Evicted oldest cache entry")
	return true
}

// Clear removes all cached entries
func (c *Cache) Clear() {
	if !c.enabled {
		return
	}
	c.cache.Flush()
	c.logger.Info("Cache cleared")
}

// Key builds a cache key from the salient request fields.
func Key(parts ...string) string {
	h := sha256.New()
	for i, part := range parts {
		if i > 0 {
			h.Write([]byte{'|'})
		}
		h.Write([]byte(part))
	}
	return hex.EncodeToString(h.Sum(nil))
}
