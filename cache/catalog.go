// Package cache keeps read-mostly catalog responses in redis. Without a redis
// URL every call is a miss and writes are dropped.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/junaidrashid-git/yoruwear-api/metrics"
	"github.com/sirupsen/logrus"
)

const keyPrefix = "yoruwear:catalog:"

type Catalog struct {
	client *redis.Client
	ttl    time.Duration
	log    *logrus.Logger
}

// New connects to redisURL. An empty URL returns a disabled cache.
func New(redisURL string, ttl time.Duration, log *logrus.Logger) (*Catalog, error) {
	if redisURL == "" {
		log.Info("REDIS_URL not set, catalog cache disabled")
		return &Catalog{ttl: ttl, log: log}, nil
	}
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return NewWithClient(client, ttl, log), nil
}

func NewWithClient(client *redis.Client, ttl time.Duration, log *logrus.Logger) *Catalog {
	return &Catalog{client: client, ttl: ttl, log: log}
}

func (c *Catalog) Enabled() bool { return c != nil && c.client != nil }

// Get decodes the cached value for key into dst and reports whether it was found.
func (c *Catalog) Get(ctx context.Context, key string, dst interface{}) bool {
	if !c.Enabled() {
		return false
	}
	data, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.WithError(err).WithField("key", key).Warn("catalog cache read failed")
		}
		metrics.RecordCacheLookup(false)
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		c.log.WithError(err).WithField("key", key).Warn("catalog cache entry unreadable")
		metrics.RecordCacheLookup(false)
		return false
	}
	metrics.RecordCacheLookup(true)
	return true
}

// Set stores v under key. Failures are logged; the cache is never authoritative.
func (c *Catalog) Set(ctx context.Context, key string, v interface{}) {
	if !c.Enabled() {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		c.log.WithError(err).WithField("key", key).Warn("catalog cache encode failed")
		return
	}
	if err := c.client.Set(ctx, keyPrefix+key, data, c.ttl).Err(); err != nil {
		c.log.WithError(err).WithField("key", key).Warn("catalog cache write failed")
	}
}

// Invalidate drops every catalog entry.
func (c *Catalog) Invalidate(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}
	iter := c.client.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

func (c *Catalog) Ping(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Ping(ctx).Err()
}

func (c *Catalog) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}
