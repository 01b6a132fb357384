package cache

import "time"

// LayeredCache combines an in-memory L1 with a Redis L2. Reads try L1
// first and promote L2 hits; writes go through to both layers.
type LayeredCache struct {
	l1 *MemoryCache
	l2 *RedisCache
}

// NewLayeredCache creates a two-layer cache on top of an existing Redis
// client.
func NewLayeredCache(l2 *RedisCache, opts ...LayeredOption) *LayeredCache {
	cfg := &LayeredConfig{
		MemoryMaxSize: 1000,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return &LayeredCache{
		l1: NewMemoryCache(WithMemoryMaxSize(cfg.MemoryMaxSize)),
		l2: l2,
	}
}

func (lc *LayeredCache) GetBytes(key string) ([]byte, bool, error) {
	if b, ok, err := lc.l1.GetBytes(key); err == nil && ok {
		return b, true, nil
	}

	b, ok, err := lc.l2.GetBytes(key)
	if err != nil || !ok {
		return nil, false, err
	}

	// promote into L1 with a short TTL; L2 remains authoritative
	_ = lc.l1.SetBytes(key, b, 30*time.Second)
	return b, true, nil
}

func (lc *LayeredCache) SetBytes(key string, value []byte, ttl time.Duration) error {
	_ = lc.l1.SetBytes(key, value, ttl)
	return lc.l2.SetBytes(key, value, ttl)
}

func (lc *LayeredCache) Delete(keys ...string) error {
	_ = lc.l1.Delete(keys...)
	return lc.l2.Delete(keys...)
}

// Close releases both layers.
func (lc *LayeredCache) Close() error {
	_ = lc.l1.Close()
	return lc.l2.Close()
}
