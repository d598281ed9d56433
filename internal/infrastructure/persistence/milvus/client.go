// Package milvus 提供 Milvus 向量数据库访问层实现
package milvus

import (
	"context"
	"fmt"

	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"go.opentelemetry.io/otel"

	"ticket-contest-api/internal/config"
)

var tracer = otel.Tracer("milvus")

// Client Milvus 客户端，判例向量集合按辖区分区存储
type Client struct {
	milvus client.Client
	cfg    *config.MilvusConfig
}

// NewClient 建立连接，凭据可缺省
func NewClient(ctx context.Context, cfg *config.MilvusConfig) (*Client, error) {
	conn, err := client.NewClient(ctx, client.Config{
		Address:  fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Username: cfg.User,
		Password: cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("connect milvus: %w", err)
	}
	return &Client{milvus: conn, cfg: cfg}, nil
}

// Close 关闭连接
func (c *Client) Close() error {
	return c.milvus.Close()
}

// HealthCheck 就绪探针使用，语义检索为可降级依赖
func (c *Client) HealthCheck(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "milvus.HealthCheck")
	defer span.End()

	if _, err := c.milvus.HasCollection(ctx, "health_check"); err != nil {
		span.RecordError(err)
		return fmt.Errorf("milvus health check: %w", err)
	}
	return nil
}

// CollectionName 拼接集合名前缀，便于多环境共用实例
func (c *Client) CollectionName(name string) string {
	if c.cfg.CollectionPrefix == "" {
		return name
	}
	return c.cfg.CollectionPrefix + "_" + name
}

// HasCollection 检查集合是否存在
func (c *Client) HasCollection(ctx context.Context, name string) (bool, error) {
	ctx, span := tracer.Start(ctx, "milvus.HasCollection")
	defer span.End()

	return c.milvus.HasCollection(ctx, c.CollectionName(name))
}

// LoadCollection 加载集合到内存
func (c *Client) LoadCollection(ctx context.Context, name string) error {
	ctx, span := tracer.Start(ctx, "milvus.LoadCollection")
	defer span.End()

	return c.milvus.LoadCollection(ctx, c.CollectionName(name), false)
}
