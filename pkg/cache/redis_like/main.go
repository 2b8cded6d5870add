package redis_like

import (
	"context"
	"fmt"
	"time"

	"github.com/bctnry/arbor/pkg/arbor"
	"github.com/redis/go-redis/v9"
)

type ArborRedisLikeCache struct {
	config *arbor.ArborConfig
	connection *redis.Client
}

func NewArborRedisLikeCache(cfg *arbor.ArborConfig) (*ArborRedisLikeCache, error) {
	c := redis.NewClient(&redis.Options{
		Addr: cfg.Cache.Host,
		Username: cfg.Cache.UserName,
		Password: cfg.Cache.Password,
		DB: cfg.Cache.DatabaseNumber,
	})
	return &ArborRedisLikeCache{
		config: cfg,
		connection: c,
	}, nil
}

func (rc *ArborRedisLikeCache) key(k string) string {
	return fmt.Sprintf("%s:%s", rc.config.Cache.KeyPrefix, k)
}

func (rc *ArborRedisLikeCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	cmd := rc.connection.Get(ctx, rc.key(key))
	if cmd.Err() == redis.Nil { return nil, false, nil }
	if cmd.Err() != nil { return nil, false, cmd.Err() }
	b, err := cmd.Bytes()
	if err != nil { return nil, false, err }
	return b, true, nil
}

func (rc *ArborRedisLikeCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 { ttl = rc.config.CacheTimeout() }
	return rc.connection.Set(ctx, rc.key(key), value, ttl).Err()
}

func (rc *ArborRedisLikeCache) Delete(ctx context.Context, key string) error {
	return rc.connection.Del(ctx, rc.key(key)).Err()
}

func (rc *ArborRedisLikeCache) Dispose() error {
	return rc.connection.Close()
}
