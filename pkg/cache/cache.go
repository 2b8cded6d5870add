package cache

import (
	"context"
	"errors"
	"time"

	"github.com/bctnry/arbor/pkg/tcache"
)

// a byte-valued kv store with expiry, shared by all requests.
type ArborCache interface {
	// a miss is (nil, false, nil), not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

var ErrUnsupportedCacheType = errors.New("Unsupported cache type")

type MemoryCache struct {
	c *tcache.TCache
}

func NewMemoryCache(defaultTimeout time.Duration) *MemoryCache {
	return &MemoryCache{ c: tcache.NewTCache(defaultTimeout) }
}

func (mc *MemoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, ok := mc.c.Get(key)
	return v, ok, nil
}

func (mc *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	mc.c.Register(key, value, ttl)
	return nil
}

func (mc *MemoryCache) Delete(ctx context.Context, key string) error {
	mc.c.Delete(key)
	return nil
}

// caches nothing.
type NoCache struct{}

func (NoCache) Get(ctx context.Context, key string) ([]byte, bool, error) { return nil, false, nil }
func (NoCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error { return nil }
func (NoCache) Delete(ctx context.Context, key string) error { return nil }
