package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Skotchmaster/online_catalog/internal/transport"
)

// ProductCache keeps product detail views in redis under "product:<id>".
type ProductCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func Connect(ctx context.Context, addr, password string, ttl time.Duration) (*ProductCache, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: password})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis: ping %s: %w", addr, err)
	}
	return New(rdb, ttl), nil
}

func New(rdb *redis.Client, ttl time.Duration) *ProductCache {
	return &ProductCache{rdb: rdb, ttl: ttl}
}

func productKey(id uint) string {
	return "product:" + strconv.FormatUint(uint64(id), 10)
}

// GetProduct returns (nil, nil) on a miss.
func (c *ProductCache) GetProduct(ctx context.Context, id uint) (*transport.ProductView, error) {
	raw, err := c.rdb.Get(ctx, productKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var v transport.ProductView
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("redis: decode %s: %w", productKey(id), err)
	}
	return &v, nil
}

func (c *ProductCache) SetProduct(ctx context.Context, v transport.ProductView) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, productKey(v.ID), data, c.ttl).Err()
}

func (c *ProductCache) ForgetProduct(ctx context.Context, id uint) error {
	return c.rdb.Del(ctx, productKey(id)).Err()
}

func (c *ProductCache) Close() error {
	return c.rdb.Close()
}
