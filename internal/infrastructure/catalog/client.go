// Package catalog 提供外部判例目录客户端。
// 上游是共享的第三方接口，调用受最小间隔、滑动窗口与日配额三层约束。
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"ticket-contest-api/internal/application/quota"
	"ticket-contest-api/internal/config"
	redisinfra "ticket-contest-api/internal/infrastructure/persistence/redis"
	"ticket-contest-api/pkg/errors"
	"ticket-contest-api/pkg/logger"
)

var tracer = otel.Tracer("catalog")

// Case 外部目录返回的判例条目
type Case struct {
	Citation  string `json:"citation"`
	Court     string `json:"court"`
	DecidedAt string `json:"decided_at"`
	Outcome   string `json:"outcome"`
	Summary   string `json:"summary"`
}

type searchResponse struct {
	Cases []*Case `json:"cases"`
	Total int     `json:"total"`
}

// Client 外部目录客户端
type Client struct {
	cfg        *config.CatalogConfig
	httpClient *http.Client
	limiter    *redisinfra.RateLimiter
	quota      *quota.CatalogQuotaChecker

	mu       sync.Mutex
	lastCall time.Time
}

// NewClient 创建外部目录客户端
func NewClient(cfg *config.CatalogConfig, limiter *redisinfra.RateLimiter, quotaChecker *quota.CatalogQuotaChecker) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    limiter,
		quota:      quotaChecker,
	}
}

// Enabled 目录检索是否启用
func (c *Client) Enabled() bool {
	return c != nil && c.cfg != nil && c.cfg.Enabled && c.cfg.Endpoint != ""
}

// Search 按关键词查询外部目录。
// 限流或配额拒绝返回 ErrQuotaExceeded 族错误，调用方按空结果降级。
func (c *Client) Search(ctx context.Context, query, jurisdiction string, limit int) ([]*Case, error) {
	if !c.Enabled() {
		return []*Case{}, nil
	}

	ctx, span := tracer.Start(ctx, "catalog.Search")
	span.SetAttributes(
		attribute.String("jurisdiction", jurisdiction),
		attribute.Int("limit", limit),
	)
	defer span.End()

	// 日配额先行：拒绝后连窗口计数都不消耗
	if c.quota != nil {
		if _, _, err := c.quota.Reserve(ctx); err != nil {
			span.RecordError(err)
			return nil, errors.ErrQuotaExceeded.WithDetail(err.Error())
		}
	}

	// 滑动窗口限流
	if c.limiter != nil && c.cfg.WindowLimit > 0 {
		key := redisinfra.BuildCatalogWindowKey("search")
		allowed, err := c.limiter.Allow(ctx, key, c.cfg.WindowLimit, c.cfg.Window)
		if err != nil {
			logger.Warn(ctx, "catalog rate limiter unavailable, proceeding", "error", err.Error())
		} else if !allowed {
			return nil, errors.ErrQuotaExceeded.WithDetail("catalog window limit reached")
		}
	}

	if err := c.waitMinInterval(ctx); err != nil {
		span.RecordError(err)
		return nil, err
	}

	resp, err := c.doSearchWithRetry(ctx, query, jurisdiction, limit)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("result_count", len(resp.Cases)))
	return resp.Cases, nil
}

// waitMinInterval 串行化调用并保证与上次调用的最小间隔。
// 调用方 deadline 先到时立即放弃，不占用本次调用时间片
func (c *Client) waitMinInterval(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cfg.MinInterval > 0 {
		if wait := c.cfg.MinInterval - time.Since(c.lastCall); wait > 0 {
			timer := time.NewTimer(wait)
			defer timer.Stop()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-timer.C:
			}
		}
	}
	c.lastCall = time.Now()
	return nil
}

// doSearchWithRetry 带上限的指数退避重试。
// 仅 5xx 与网络错误重试；4xx 视为永久失败。
func (c *Client) doSearchWithRetry(ctx context.Context, query, jurisdiction string, limit int) (*searchResponse, error) {
	maxRetries := c.cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	backoff := c.cfg.BackoffBase
	if backoff <= 0 {
		backoff = 500 * time.Millisecond
	}
	maxBackoff := c.cfg.BackoffCap
	if maxBackoff <= 0 {
		maxBackoff = 8 * time.Second
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
			if backoff > maxBackoff {
				backoff = maxBackoff
			}
		}

		resp, retryable, err := c.doSearch(ctx, query, jurisdiction, limit)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if !retryable {
			break
		}
		logger.Warn(ctx, "catalog search attempt failed",
			"attempt", attempt+1,
			"error", err.Error(),
		)
	}
	return nil, errors.ErrCatalogError.WithDetail(lastErr.Error())
}

func (c *Client) doSearch(ctx context.Context, query, jurisdiction string, limit int) (*searchResponse, bool, error) {
	u, err := url.Parse(c.cfg.Endpoint)
	if err != nil {
		return nil, false, fmt.Errorf("invalid catalog endpoint: %w", err)
	}
	q := u.Query()
	q.Set("q", query)
	q.Set("jurisdiction", jurisdiction)
	q.Set("limit", fmt.Sprintf("%d", limit))
	u.RawQuery = q.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create catalog request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if c.cfg.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, true, fmt.Errorf("catalog request failed: %w", err)
	}
	defer httpResp.Body.Close()

	switch {
	case httpResp.StatusCode == http.StatusTooManyRequests:
		return nil, true, fmt.Errorf("catalog throttled: status=%d", httpResp.StatusCode)
	case httpResp.StatusCode >= 500:
		return nil, true, fmt.Errorf("catalog server error: status=%d", httpResp.StatusCode)
	case httpResp.StatusCode < 200 || httpResp.StatusCode >= 300:
		return nil, false, fmt.Errorf("catalog request rejected: status=%d", httpResp.StatusCode)
	}

	var resp searchResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, false, fmt.Errorf("failed to decode catalog response: %w", err)
	}
	if resp.Cases == nil {
		resp.Cases = []*Case{}
	}

	// 上游偶发超量返回，这里按配置截断
	if c.cfg.MaxCandidate > 0 && len(resp.Cases) > c.cfg.MaxCandidate {
		resp.Cases = resp.Cases[:c.cfg.MaxCandidate]
	}
	return &resp, false, nil
}
