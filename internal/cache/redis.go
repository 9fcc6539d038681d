package cache

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"vyapaar-backend/pkg/logger"
)

const (
	productKeyPrefix = "product:name:"
	productKeyTTL    = 10 * time.Minute
)

type RedisProductCache struct {
	client *redis.Client
	log    zerolog.Logger
}

// NewRedis connects to redis and pings it. On failure the caller should
// fall back to the noop cache (graceful degradation).
func NewRedis(addr, password string) (*RedisProductCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	return &RedisProductCache{
		client: client,
		log:    logger.WithComponent("product-cache"),
	}, nil
}

func productKey(name string) string {
	return productKeyPrefix + strings.ToLower(strings.TrimSpace(name))
}

func (c *RedisProductCache) GetProductID(ctx context.Context, name string) (uuid.UUID, bool) {
	val, err := c.client.Get(ctx, productKey(name)).Result()
	if err != nil {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func (c *RedisProductCache) SetProductID(ctx context.Context, name string, id uuid.UUID) {
	if err := c.client.Set(ctx, productKey(name), id.String(), productKeyTTL).Err(); err != nil {
		c.log.Warn().Err(err).Str("name", name).Msg("failed to cache product id")
	}
}

func (c *RedisProductCache) Invalidate(ctx context.Context, name string) {
	if err := c.client.Del(ctx, productKey(name)).Err(); err != nil {
		c.log.Warn().Err(err).Str("name", name).Msg("failed to invalidate product cache entry")
	}
}
