package backend

import (
	"github.com/bctnry/arbor/pkg/arbor"
	"github.com/bctnry/arbor/pkg/cache"
	"github.com/bctnry/arbor/pkg/cache/memcached"
	"github.com/bctnry/arbor/pkg/cache/redis_like"
)

func InitializeCache(cfg *arbor.ArborConfig) (cache.ArborCache, error) {
	switch cfg.Cache.Type {
	case "none": return cache.NoCache{}, nil
	case "memory": return cache.NewMemoryCache(cfg.CacheTimeout()), nil
	case "redis": fallthrough
	case "keydb": fallthrough
	case "valkey":
		return redis_like.NewArborRedisLikeCache(cfg)
	case "memcached":
		return memcached.NewArborMemcachedCache(cfg)
	}
	return nil, cache.ErrUnsupportedCacheType
}
