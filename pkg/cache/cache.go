package cache

import (
	"errors"
	"time"
)

// ErrCacheMiss is returned when a key doesn't exist in cache.
var ErrCacheMiss = errors.New("cache: key not found")

// BytesCache stores raw bytes with a per-entry TTL. Analytics responses
// (timelines, drift reports) are cached as their serialized form, so the
// cache never needs to know about domain types.
type BytesCache interface {
	GetBytes(key string) (b []byte, ok bool, err error)
	SetBytes(key string, value []byte, ttl time.Duration) error
	Delete(keys ...string) error
}
