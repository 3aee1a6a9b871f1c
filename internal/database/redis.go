package database

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/academico-latam/academico-api/internal/config"
)

const defaultRedisDialTimeout = 5 * time.Second

// ConnectRedis opens the cache client backing the director dashboard. The
// configured dial timeout also bounds reads, writes and the initial ping so a
// dead cache cannot stall startup; callers fall back to uncached dashboards
// when the connection fails.
func ConnectRedis(cfg config.Config) (*redis.Client, error) {
	if cfg.RedisURL == "" {
		return nil, fmt.Errorf("redis url must not be empty")
	}

	options, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	dialTimeout := cfg.RedisDialTimeout
	if dialTimeout <= 0 {
		dialTimeout = defaultRedisDialTimeout
	}
	options.DialTimeout = dialTimeout
	options.ReadTimeout = dialTimeout
	options.WriteTimeout = dialTimeout

	client := redis.NewClient(options)

	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("unable to connect to redis: %w", err)
	}

	return client, nil
}
