// Package quota 提供外部目录日配额相关能力
package quota

import (
	"context"
	"fmt"
	"time"

	"ticket-contest-api/internal/infrastructure/persistence/redis"
	"ticket-contest-api/pkg/metrics"
)

// CatalogQuotaExceededError 表示外部目录当日调用配额已耗尽
type CatalogQuotaExceededError struct {
	Max  int64
	Used int64
}

func (e CatalogQuotaExceededError) Error() string {
	return fmt.Sprintf("catalog quota exceeded: used=%d max=%d", e.Used, e.Max)
}

// CatalogQuotaChecker 外部目录日配额检查器。
// 计数按 UTC 自然日滚动，落在 Redis 中以便多副本共享。
type CatalogQuotaChecker struct {
	cache      *redis.Client
	dailyQuota int64
	now        func() time.Time
}

func NewCatalogQuotaChecker(cache *redis.Client, dailyQuota int) *CatalogQuotaChecker {
	return &CatalogQuotaChecker{
		cache:      cache,
		dailyQuota: int64(dailyQuota),
		now:        time.Now,
	}
}

// Reserve 预占一次调用额度。超限返回 CatalogQuotaExceededError。
// Redis 不可用时按"放行"处理：配额是保护上游的软约束，不应放大故障。
func (c *CatalogQuotaChecker) Reserve(ctx context.Context) (used int64, max int64, err error) {
	if c == nil || c.dailyQuota <= 0 {
		return 0, 0, nil
	}

	key := c.dailyKey()
	used, incErr := c.cache.IncrWithTTL(ctx, key, 48*time.Hour)
	if incErr != nil {
		return 0, c.dailyQuota, nil
	}

	if used > c.dailyQuota {
		metrics.CatalogQuotaRejections.Inc()
		return used, c.dailyQuota, CatalogQuotaExceededError{
			Max:  c.dailyQuota,
			Used: used,
		}
	}
	return used, c.dailyQuota, nil
}

// Remaining 返回当日剩余额度（便于健康面板展示）
func (c *CatalogQuotaChecker) Remaining(ctx context.Context) (int64, error) {
	if c == nil || c.dailyQuota <= 0 {
		return 0, nil
	}
	used, err := c.cache.GetInt64(ctx, c.dailyKey())
	if err != nil {
		return 0, err
	}
	remaining := c.dailyQuota - used
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

func (c *CatalogQuotaChecker) dailyKey() string {
	return "quota:catalog:" + c.now().UTC().Format("2006-01-02")
}
