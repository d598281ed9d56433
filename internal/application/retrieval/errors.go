package retrieval

import "errors"

var (
	// ErrSemanticDisabled 表示语义检索能力未配置（Milvus 或 Embedder 不可用）。
	ErrSemanticDisabled = errors.New("semantic retrieval is disabled")

	// ErrCatalogDisabled 表示外部目录检索未启用。
	ErrCatalogDisabled = errors.New("catalog retrieval is disabled")
)
