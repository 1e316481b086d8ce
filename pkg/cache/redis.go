package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/example/jewelrystore/pkg/config"
	"github.com/example/jewelrystore/pkg/models"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	listTTL    = 60 * time.Second
	versionKey = "products:version"
)

// ProductCache is a read-through cache for product listings. A nil
// *ProductCache is valid and disables caching, so callers never guard.
// Invalidation bumps a version key folded into every list key, which
// avoids scanning for stale entries after a product is created.
type ProductCache struct {
	client *redis.Client
	logger *zap.Logger
}

// New returns nil when no Redis address is configured.
func New(cfg *config.RedisConfig, logger *zap.Logger) *ProductCache {
	if cfg.Addr == "" {
		return nil
	}

	return &ProductCache{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
		logger: logger,
	}
}

func (c *ProductCache) Ping(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.client.Ping(ctx).Err()
}

// GetList returns the cached listing for the given filter, if present.
func (c *ProductCache) GetList(ctx context.Context, category, q string, limit int64) ([]models.Product, bool) {
	if c == nil {
		return nil, false
	}

	key, err := c.listKey(ctx, category, q, limit)
	if err != nil {
		c.logger.Warn("cache key lookup failed", zap.Error(err))
		return nil, false
	}

	data, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	var products []models.Product
	if err := json.Unmarshal([]byte(data), &products); err != nil {
		c.logger.Warn("cache entry corrupt", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return products, true
}

// SetList stores a listing. Failures are logged and swallowed; the cache
// must never fail a request.
func (c *ProductCache) SetList(ctx context.Context, category, q string, limit int64, products []models.Product) {
	if c == nil {
		return
	}

	key, err := c.listKey(ctx, category, q, limit)
	if err != nil {
		c.logger.Warn("cache key lookup failed", zap.Error(err))
		return
	}

	data, err := json.Marshal(products)
	if err != nil {
		c.logger.Warn("cache marshal failed", zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, key, data, listTTL).Err(); err != nil {
		c.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
}

// Invalidate retires every cached listing by bumping the version key.
func (c *ProductCache) Invalidate(ctx context.Context) {
	if c == nil {
		return
	}
	if err := c.client.Incr(ctx, versionKey).Err(); err != nil {
		c.logger.Warn("cache invalidation failed", zap.Error(err))
	}
}

func (c *ProductCache) listKey(ctx context.Context, category, q string, limit int64) (string, error) {
	version, err := c.client.Get(ctx, versionKey).Int64()
	if err != nil && err != redis.Nil {
		return "", err
	}
	return ListKey(version, category, q, limit), nil
}

// ListKey builds the cache key for one product listing at a given
// invalidation version.
func ListKey(version int64, category, q string, limit int64) string {
	return fmt.Sprintf("products:v%d:category=%s:q=%s:limit=%d", version, category, q, limit)
}

func (c *ProductCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
