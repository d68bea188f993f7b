package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/scholarlift/escalation-service/internal/domain"
)

// MetricsCache holds computed dashboard KPIs for a short TTL so repeated
// dashboard loads do not re-scan the escalation set.
type MetricsCache interface {
	Get(ctx context.Context, region string) (*domain.SLAMetrics, bool)
	Set(ctx context.Context, region string, metrics *domain.SLAMetrics)
}

type redisMetricsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisMetricsCache builds a Redis-backed cache. A nil client degrades
// to a no-op cache.
func NewRedisMetricsCache(client *redis.Client, ttl time.Duration) MetricsCache {
	return &redisMetricsCache{client: client, ttl: ttl}
}

func metricsCacheKey(region string) string {
	return "sla_metrics:" + region
}

func (c *redisMetricsCache) Get(ctx context.Context, region string) (*domain.SLAMetrics, bool) {
	if c.client == nil || c.ttl <= 0 {
		return nil, false
	}
	raw, err := c.client.Get(ctx, metricsCacheKey(region)).Bytes()
	if err != nil {
		// any failure, including redis.Nil, is a miss; the aggregator recomputes
		return nil, false
	}
	var metrics domain.SLAMetrics
	if err := json.Unmarshal(raw, &metrics); err != nil {
		return nil, false
	}
	return &metrics, true
}

func (c *redisMetricsCache) Set(ctx context.Context, region string, metrics *domain.SLAMetrics) {
	if c.client == nil || c.ttl <= 0 || metrics == nil {
		return
	}
	raw, err := json.Marshal(metrics)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, metricsCacheKey(region), raw, c.ttl).Err()
}
