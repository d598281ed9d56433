// Package repository 定义领域仓储接口
package repository

import (
	"context"

	"ticket-contest-api/internal/domain/entity"
)

// CaseSearchRow 全文检索返回行
type CaseSearchRow struct {
	ID       string
	Citation string
	Court    string
	Decided  string
	Summary  string
	Outcome  string
	Rank     float64 // 索引原生排序分
}

// CaseSearchRepository 判例全文检索仓储（port）
type CaseSearchRepository interface {
	// Search 按辖区范围执行排序后的关键词检索；jurisdiction 为空表示不限定
	Search(ctx context.Context, query, jurisdiction string, limit int) ([]*CaseSearchRow, error)
}

// CitationGraphRepository 引用关系图仓储（port）。
// 纯附加元数据：实现不可用时上层按空结果处理。
type CitationGraphRepository interface {
	// LinksFor 批量查询给定判例的引用关系，键为归一化 citation
	LinksFor(ctx context.Context, citations []string) (map[string][]entity.CitationLink, error)
}
