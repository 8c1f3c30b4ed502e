// Package snapshotcache is a read-through Redis cache in front of the
// upstream feeds. Only feed snapshots are cached; session state never
// touches Redis.
package snapshotcache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mtosity/wirefires-tracker/internal/domain/alerts"
	"github.com/mtosity/wirefires-tracker/internal/domain/wildfires"
	"github.com/mtosity/wirefires-tracker/internal/observability"
)

type Logger interface {
	Info(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)
}

type FeedRepository interface {
	Wildfires(ctx context.Context, b wildfires.Bounds) (wildfires.Snapshot, error)
	Alerts(ctx context.Context, pos *wildfires.Point) ([]alerts.Notice, error)
}

type Option func(*CachedFeeds)

func WithTTL(ttl time.Duration) Option {
	return func(c *CachedFeeds) { c.ttl = ttl }
}

func WithLogger(log Logger) Option {
	return func(c *CachedFeeds) { c.log = log }
}

func WithMetrics(m *observability.Metrics) Option {
	return func(c *CachedFeeds) { c.metrics = m }
}

type CachedFeeds struct {
	next    FeedRepository
	rdb     *redis.Client
	ttl     time.Duration
	log     Logger
	metrics *observability.Metrics
}

func New(rdb *redis.Client, next FeedRepository, opts ...Option) *CachedFeeds {
	c := &CachedFeeds{
		next: next,
		rdb:  rdb,
		ttl:  30 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *CachedFeeds) Wildfires(ctx context.Context, b wildfires.Bounds) (wildfires.Snapshot, error) {
	key := "feeds:wildfires:" + b.CacheKey()

	if buf, err := c.rdb.Get(ctx, key).Bytes(); err == nil {
		var cached wildfires.Snapshot
		if err := json.Unmarshal(buf, &cached); err == nil {
			c.mark("wildfires", "hit")
			return cached, nil
		}
	}
	c.mark("wildfires", "miss")

	snap, err := c.next.Wildfires(ctx, b)
	if err != nil {
		return wildfires.Snapshot{}, err
	}

	c.store(ctx, key, snap)
	return snap, nil
}

func (c *CachedFeeds) Alerts(ctx context.Context, pos *wildfires.Point) ([]alerts.Notice, error) {
	key := "feeds:alerts:global"
	if pos != nil {
		// Same quantization as bounds keys: nearby users share one entry.
		key = fmt.Sprintf("feeds:alerts:%.2f:%.2f", pos.Lat, pos.Lon)
	}

	if buf, err := c.rdb.Get(ctx, key).Bytes(); err == nil {
		var cached []alerts.Notice
		if err := json.Unmarshal(buf, &cached); err == nil {
			c.mark("alerts", "hit")
			return cached, nil
		}
	}
	c.mark("alerts", "miss")

	notices, err := c.next.Alerts(ctx, pos)
	if err != nil {
		return nil, err
	}

	c.store(ctx, key, notices)
	return notices, nil
}

func (c *CachedFeeds) store(ctx context.Context, key string, v any) {
	buf, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, buf, c.ttl).Err(); err != nil && c.log != nil {
		c.log.Error(ctx, "feed cache set failed", "key", key, "error", err)
	}
}

func (c *CachedFeeds) mark(feed, result string) {
	if c.metrics != nil {
		c.metrics.FeedCache.WithLabelValues(feed, result).Inc()
	}
}
