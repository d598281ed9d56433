package redis

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
)

// RateLimiter ZSET 滑动窗口限流器。
// 外部目录接口对上游有调用频次约束，成员为毫秒时间戳。
type RateLimiter struct {
	client *Client
}

// NewRateLimiter 创建限流器
func NewRateLimiter(client *Client) *RateLimiter {
	return &RateLimiter{client: client}
}

// Allow 判断窗口内是否还有余量，允许时登记本次调用
func (l *RateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	ctx, span := tracer.Start(ctx, "ratelimit.Allow")
	defer span.End()
	span.SetAttributes(
		attribute.String("ratelimit.key", key),
		attribute.Int("ratelimit.limit", limit),
	)

	now := time.Now().UnixMilli()
	cutoff := strconv.FormatInt(now-window.Milliseconds(), 10)

	pipe := l.client.rdb.Pipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", cutoff)
	card := pipe.ZCard(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		span.RecordError(err)
		return false, err
	}

	if card.Val() >= int64(limit) {
		span.SetAttributes(attribute.Bool("ratelimit.allowed", false))
		return false, nil
	}

	member := strconv.FormatInt(now, 10)
	record := l.client.rdb.Pipeline()
	record.ZAdd(ctx, key, redis.Z{Score: float64(now), Member: member})
	record.Expire(ctx, key, window*2)
	if _, err := record.Exec(ctx); err != nil {
		span.RecordError(err)
	}

	span.SetAttributes(attribute.Bool("ratelimit.allowed", true))
	return true, nil
}

// BuildCatalogWindowKey 目录限流键
func BuildCatalogWindowKey(scope string) string {
	return "ratelimit:catalog:" + scope
}
