package retrieval

import (
	"context"

	"ticket-contest-api/internal/infrastructure/catalog"
	"ticket-contest-api/internal/infrastructure/persistence/milvus"
)

// VectorSearcher 定义应用层对"向量检索"的最小依赖（port）。
// 由基础设施层提供具体实现（例如 Milvus）。
type VectorSearcher interface {
	EnsureCaseChunksCollection(ctx context.Context) error
	SearchChunks(ctx context.Context, params *milvus.SearchParams) ([]*milvus.SearchResult, error)
}

// VectorWriter 向量写入 port（索引构建路径使用）
type VectorWriter interface {
	EnsureCaseChunksCollection(ctx context.Context) error
	DeleteChunksByCitation(ctx context.Context, jurisdiction, citation string) error
	InsertChunks(ctx context.Context, jurisdiction string, chunks []*milvus.CaseChunk) error
}

// CatalogSearcher 外部目录检索 port
type CatalogSearcher interface {
	Enabled() bool
	Search(ctx context.Context, query, jurisdiction string, limit int) ([]*catalog.Case, error)
}
