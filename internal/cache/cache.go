package cache

import (
	"time"

	"github.com/2beens/tcxvis/internal/telemetry/metrics"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

const megabyte = 1024 * 1024

type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
}

var _ Cache = (*ResponseCache)(nil)

// ResponseCache holds marshalled API responses for a fixed TTL.
type ResponseCache struct {
	cache          *freecache.Cache
	ttl            time.Duration
	metricsManager *metrics.Manager
}

func NewResponseCache(sizeMegabyte int, ttl time.Duration, metricsManager *metrics.Manager) *ResponseCache {
	return &ResponseCache{
		cache:          freecache.NewCache(sizeMegabyte * megabyte),
		ttl:            ttl,
		metricsManager: metricsManager,
	}
}

func (c *ResponseCache) Get(key string) ([]byte, bool) {
	value, err := c.cache.Get([]byte(key))
	if err != nil {
		c.count("miss")
		return nil, false
	}
	c.count("hit")
	return value, true
}

func (c *ResponseCache) Set(key string, value []byte) {
	if err := c.cache.Set([]byte(key), value, int(c.ttl.Seconds())); err != nil {
		log.Errorf("failed to set cache value for [%s]: %s", key, err)
		return
	}
	log.Tracef("cache set for [%s], ttl %s", key, c.ttl)
}

func (c *ResponseCache) count(result string) {
	if c.metricsManager == nil {
		return
	}
	c.metricsManager.CounterCache.WithLabelValues(result).Inc()
}
