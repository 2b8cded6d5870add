package memcached

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/bctnry/arbor/pkg/arbor"
	"github.com/bradfitz/gomemcache/memcache"
)

type ArborMemcachedCache struct {
	config *arbor.ArborConfig
	connection *memcache.Client
}

func NewArborMemcachedCache(cfg *arbor.ArborConfig) (*ArborMemcachedCache, error) {
	c := memcache.New(cfg.Cache.Host)
	return &ArborMemcachedCache{
		config: cfg,
		connection: c,
	}, nil
}

// memcached keys are limited to 250 bytes with no spaces or control
// characters; file paths can break both rules, so we hash.
func (mc *ArborMemcachedCache) key(k string) string {
	h := sha1.Sum([]byte(k))
	return fmt.Sprintf("%s:%s", mc.config.Cache.KeyPrefix, hex.EncodeToString(h[:]))
}

func (mc *ArborMemcachedCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	i, err := mc.connection.Get(mc.key(key))
	// cache miss is memcached's way of saying the key not found...
	if err == memcache.ErrCacheMiss { return nil, false, nil }
	if err != nil { return nil, false, err }
	return i.Value, true, nil
}

func (mc *ArborMemcachedCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 { ttl = mc.config.CacheTimeout() }
	return mc.connection.Set(&memcache.Item{
		Key: mc.key(key),
		Value: value,
		Expiration: int32(ttl / time.Second),
	})
}

func (mc *ArborMemcachedCache) Delete(ctx context.Context, key string) error {
	err := mc.connection.Delete(mc.key(key))
	if err == memcache.ErrCacheMiss { return nil }
	return err
}
