package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rubbishit/backend/internal/config"
)

const (
	RedisTypeSingle  = "redis"
	RedisTypeCluster = "redisCluster"
	pingTimeout      = time.Millisecond * 1500
)

// NewRedis connects to the redis backing the verification email queue.
func NewRedis(cfg config.Cache) (redis.UniversalClient, error) {
	switch cfg.Type {
	case RedisTypeSingle:
		return ping(newRedis(cfg))
	case RedisTypeCluster:
		return ping(newRedisCluster(cfg))
	default:
		return nil, fmt.Errorf("wrong redis type %q", cfg.Type)
	}
}

func newRedis(cfg config.Cache) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:            cfg.Redis.Address,
		Password:        cfg.Redis.Password,
		DB:              0,
		PoolSize:        cfg.Redis.PoolSize,
		ConnMaxIdleTime: 170 * time.Second,
		DialTimeout:     time.Second * 1,
		ReadTimeout:     time.Second * 1,
		WriteTimeout:    time.Second * 1,
	})
}

func newRedisCluster(cfg config.Cache) *redis.ClusterClient {
	return redis.NewClusterClient(&redis.ClusterOptions{
		Addrs:           cfg.RedisCluster.Addresses,
		Password:        cfg.RedisCluster.Password,
		RouteRandomly:   false, // send read operations only to master nodes
		ReadOnly:        false,
		PoolSize:        cfg.RedisCluster.PoolSize,
		ConnMaxLifetime: 15 * time.Minute,
		DialTimeout:     time.Second * 1,
		ReadTimeout:     time.Second * 1,
		WriteTimeout:    time.Second * 1,
	})
}

func ping(client redis.UniversalClient) (redis.UniversalClient, error) {
	pingCtx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return client, fmt.Errorf("redis ping failed: %w", err)
	}

	return client, nil
}
