package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type Recorder interface {
	IncrementCacheLookup(hit bool)
}

// Client is a JSON cache on top of Redis. A nil *Client is valid and caches
// nothing, so callers don't need to branch on whether Redis is configured.
type Client struct {
	rdb     *redis.Client
	prefix  string
	metrics Recorder
}

type Option func(*Client)

func WithMetrics(r Recorder) Option {
	return func(c *Client) { c.metrics = r }
}

// WithPrefix namespaces every key, e.g. "tenantry:".
func WithPrefix(p string) Option {
	return func(c *Client) { c.prefix = p }
}

// New connects to Redis. It returns nil when url is empty.
func New(ctx context.Context, url string, poolSize int, opts ...Option) (*Client, error) {
	if url == "" {
		return nil, nil
	}

	ropts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}

	if poolSize > 0 {
		ropts.PoolSize = poolSize
	}

	rdb := redis.NewClient(ropts)

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}

	return NewWithClient(rdb, opts...), nil
}

func NewWithClient(rdb *redis.Client, opts ...Option) *Client {
	c := &Client{rdb: rdb}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Get decodes the cached value for key into dst and reports whether it was found.
func (c *Client) Get(ctx context.Context, key string, dst any) (bool, error) {
	if c == nil {
		return false, nil
	}

	b, err := c.rdb.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		c.record(false)
		return false, nil
	}

	if err != nil {
		return false, fmt.Errorf("getting %s: %w", key, err)
	}

	if err := json.Unmarshal(b, dst); err != nil {
		return false, fmt.Errorf("decoding %s: %w", key, err)
	}

	c.record(true)

	return true, nil
}

func (c *Client) Set(ctx context.Context, key string, v any, ttl time.Duration) error {
	if c == nil {
		return nil
	}

	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}

	if err := c.rdb.Set(ctx, c.prefix+key, b, ttl).Err(); err != nil {
		return fmt.Errorf("setting %s: %w", key, err)
	}

	return nil
}

func (c *Client) Delete(ctx context.Context, keys ...string) error {
	if c == nil || len(keys) == 0 {
		return nil
	}

	prefixed := make([]string, len(keys))
	for i, k := range keys {
		prefixed[i] = c.prefix + k
	}

	if err := c.rdb.Del(ctx, prefixed...).Err(); err != nil {
		return fmt.Errorf("deleting keys: %w", err)
	}

	return nil
}

func (c *Client) Health(ctx context.Context) error {
	if c == nil {
		return nil
	}

	return c.rdb.Ping(ctx).Err()
}

func (c *Client) Close() error {
	if c == nil {
		return nil
	}

	return c.rdb.Close()
}

func (c *Client) record(hit bool) {
	if c.metrics != nil {
		c.metrics.IncrementCacheLookup(hit)
	}
}
