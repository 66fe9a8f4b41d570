package rediscache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client is a redis-backed hero URL cache, for multi-instance deployments
// where the in-process cache would go stale per replica.
type Client struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

func NewClient(addr, password string, db int, ttl time.Duration) *Client {
	return New(redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	}), ttl)
}

func New(rdb *redis.Client, ttl time.Duration) *Client {
	return &Client{
		rdb:    rdb,
		prefix: "hero:",
		ttl:    ttl,
	}
}

func (c *Client) HealthCheck(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *Client) Get(key string) (string, bool) {
	val, err := c.rdb.Get(context.Background(), c.prefix+key).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

func (c *Client) Set(key, value string) {
	c.rdb.Set(context.Background(), c.prefix+key, value, c.ttl)
}

// Reset drops every cached hero URL. Called on catalog writes.
func (c *Client) Reset() {
	ctx := context.Background()

	iter := c.rdb.Scan(ctx, 0, c.prefix+"*", 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if len(keys) > 0 {
		c.rdb.Del(ctx, keys...)
	}
}

func (c *Client) Close() error {
	return c.rdb.Close()
}
