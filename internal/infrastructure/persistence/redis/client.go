// Package redis 提供 Redis 缓存与配额计数实现
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"ticket-contest-api/internal/config"
)

var tracer = otel.Tracer("redis")

// Client Redis 客户端，承载目录配额计数与限流窗口
type Client struct {
	rdb *redis.Client
}

// NewClient 建立连接并验证连通性
func NewClient(cfg *config.RedisConfig) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// Close 关闭连接
func (c *Client) Close() error {
	return c.rdb.Close()
}

// HealthCheck 就绪探针使用
func (c *Client) HealthCheck(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "redis.HealthCheck")
	defer span.End()

	if err := c.rdb.Ping(ctx).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("redis health check: %w", err)
	}
	return nil
}

// IncrWithTTL 自增计数，首次创建时设置过期。日配额计数使用：
// 键按 UTC 日期滚动，过期兜底防止遗留键无限累积。
func (c *Client) IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	ctx, span := tracer.Start(ctx, "redis.IncrWithTTL",
		trace.WithAttributes(attribute.String("redis.key", key)))
	defer span.End()

	pipe := c.rdb.Pipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		span.RecordError(err)
		return 0, err
	}
	return incr.Val(), nil
}

// GetInt64 读取整数计数，键不存在时返回 0
func (c *Client) GetInt64(ctx context.Context, key string) (int64, error) {
	ctx, span := tracer.Start(ctx, "redis.GetInt64",
		trace.WithAttributes(attribute.String("redis.key", key)))
	defer span.End()

	n, err := c.rdb.Get(ctx, key).Int64()
	switch {
	case err == redis.Nil:
		return 0, nil
	case err != nil:
		span.RecordError(err)
		return 0, err
	}
	return n, nil
}
