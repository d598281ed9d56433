// Package milvus 提供 Milvus 向量数据库访问层实现
package milvus

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/milvus-io/milvus-sdk-go/v2/entity"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"ticket-contest-api/pkg/metrics"
)

// Repository 向量检索仓储
type Repository struct {
	client *Client
}

// NewRepository 创建向量检索仓储
func NewRepository(client *Client) *Repository {
	return &Repository{client: client}
}

// SearchParams 检索参数
type SearchParams struct {
	Jurisdiction string
	QueryVector  []float32
	TopK         int
}

// SearchResult 检索结果
type SearchResult struct {
	ID          string
	Score       float32 // COSINE 距离，上层负责转换为相似度
	Citation    string
	Court       string
	Outcome     string
	DecidedAt   int64
	TextContent string
}

// CreateCollection 创建集合
func (r *Repository) CreateCollection(ctx context.Context, schema *entity.Schema) error {
	if r == nil || r.client == nil || r.client.milvus == nil {
		return fmt.Errorf("milvus client not configured")
	}
	ctx, span := tracer.Start(ctx, "milvus.CreateCollection",
		trace.WithAttributes(attribute.String("collection", schema.CollectionName)))
	defer span.End()

	collName := r.client.CollectionName(schema.CollectionName)
	schema.CollectionName = collName

	err := r.client.milvus.CreateCollection(ctx, schema, entity.DefaultShardNumber)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create collection: %w", err)
	}

	return nil
}

// CreateIndex 创建 HNSW 索引
func (r *Repository) CreateIndex(ctx context.Context, collection string) error {
	if r == nil || r.client == nil || r.client.milvus == nil {
		return fmt.Errorf("milvus client not configured")
	}
	ctx, span := tracer.Start(ctx, "milvus.CreateIndex",
		trace.WithAttributes(attribute.String("collection", collection)))
	defer span.End()

	collName := r.client.CollectionName(collection)

	idx, err := entity.NewIndexHNSW(
		entity.COSINE,
		r.client.cfg.HNSWM,
		r.client.cfg.HNSWEfConstruction,
	)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create index: %w", err)
	}

	err = r.client.milvus.CreateIndex(ctx, collName, "vector", idx, false)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create index: %w", err)
	}

	return nil
}

// CreatePartition 创建辖区分区
func (r *Repository) CreatePartition(ctx context.Context, collection, jurisdiction string) error {
	if r == nil || r.client == nil || r.client.milvus == nil {
		return fmt.Errorf("milvus client not configured")
	}
	ctx, span := tracer.Start(ctx, "milvus.CreatePartition",
		trace.WithAttributes(
			attribute.String("collection", collection),
			attribute.String("partition", PartitionName(jurisdiction)),
		))
	defer span.End()

	collName := r.client.CollectionName(collection)
	return r.client.milvus.CreatePartition(ctx, collName, PartitionName(jurisdiction))
}

// SearchChunks 检索判例分块。辖区分区尚不存在时直接返回空结果。
func (r *Repository) SearchChunks(ctx context.Context, params *SearchParams) ([]*SearchResult, error) {
	if r == nil || r.client == nil || r.client.milvus == nil {
		return nil, fmt.Errorf("milvus client not configured")
	}
	ctx, span := tracer.Start(ctx, "milvus.SearchChunks",
		trace.WithAttributes(
			attribute.String("jurisdiction", params.Jurisdiction),
			attribute.Int("top_k", params.TopK),
		))
	defer span.End()

	start := time.Now()
	collName := r.client.CollectionName(CollectionCaseChunks)
	partitionName := PartitionName(params.Jurisdiction)

	if has, err := r.client.milvus.HasPartition(ctx, collName, partitionName); err != nil {
		span.RecordError(err)
		metrics.MilvusSearchTotal.WithLabelValues(CollectionCaseChunks, "error").Inc()
		return nil, fmt.Errorf("failed to check partition: %w", err)
	} else if !has {
		metrics.MilvusSearchTotal.WithLabelValues(CollectionCaseChunks, "empty_partition").Inc()
		return []*SearchResult{}, nil
	}

	filter := fmt.Sprintf(`jurisdiction == "%s"`, params.Jurisdiction)

	sp, err := entity.NewIndexHNSWSearchParam(128)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to create search param: %w", err)
	}

	results, err := r.client.milvus.Search(ctx,
		collName,
		[]string{partitionName},
		filter,
		[]string{"id", "citation", "court", "outcome", "decided_at", "text_content"},
		[]entity.Vector{entity.FloatVector(params.QueryVector)},
		"vector",
		entity.COSINE,
		params.TopK,
		sp,
	)
	if err != nil {
		span.RecordError(err)
		metrics.MilvusSearchTotal.WithLabelValues(CollectionCaseChunks, "error").Inc()
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	var searchResults []*SearchResult
	for _, result := range results {
		for i := 0; i < result.ResultCount; i++ {
			searchResults = append(searchResults, &SearchResult{
				Score:       result.Scores[i],
				ID:          varcharAt(result.Fields.GetColumn("id"), i),
				Citation:    varcharAt(result.Fields.GetColumn("citation"), i),
				Court:       varcharAt(result.Fields.GetColumn("court"), i),
				Outcome:     varcharAt(result.Fields.GetColumn("outcome"), i),
				DecidedAt:   int64At(result.Fields.GetColumn("decided_at"), i),
				TextContent: varcharAt(result.Fields.GetColumn("text_content"), i),
			})
		}
	}

	span.SetAttributes(attribute.Int("result_count", len(searchResults)))
	metrics.MilvusSearchDuration.WithLabelValues(CollectionCaseChunks).Observe(time.Since(start).Seconds())
	metrics.MilvusSearchTotal.WithLabelValues(CollectionCaseChunks, "success").Inc()
	return searchResults, nil
}

func varcharAt(col entity.Column, i int) string {
	if c, ok := col.(*entity.ColumnVarChar); ok && i < len(c.Data()) {
		return c.Data()[i]
	}
	return ""
}

func int64At(col entity.Column, i int) int64 {
	if c, ok := col.(*entity.ColumnInt64); ok && i < len(c.Data()) {
		return c.Data()[i]
	}
	return 0
}

// InsertChunks 插入判例分块
func (r *Repository) InsertChunks(ctx context.Context, jurisdiction string, chunks []*CaseChunk) error {
	if r == nil || r.client == nil || r.client.milvus == nil {
		return fmt.Errorf("milvus client not configured")
	}
	ctx, span := tracer.Start(ctx, "milvus.InsertChunks",
		trace.WithAttributes(
			attribute.String("jurisdiction", jurisdiction),
			attribute.Int("count", len(chunks)),
		))
	defer span.End()

	if len(chunks) == 0 {
		return nil
	}

	collName := r.client.CollectionName(CollectionCaseChunks)
	partitionName := PartitionName(jurisdiction)

	// 确保分区存在
	has, _ := r.client.milvus.HasPartition(ctx, collName, partitionName)
	if !has {
		if err := r.CreatePartition(ctx, CollectionCaseChunks, jurisdiction); err != nil {
			return err
		}
	}

	ids := make([]string, len(chunks))
	vectors := make([][]float32, len(chunks))
	citations := make([]string, len(chunks))
	jurisdictions := make([]string, len(chunks))
	courts := make([]string, len(chunks))
	outcomes := make([]string, len(chunks))
	decidedAts := make([]int64, len(chunks))
	textContents := make([]string, len(chunks))

	for i, chunk := range chunks {
		ids[i] = chunk.ID
		vectors[i] = chunk.Vector
		citations[i] = chunk.Citation
		jurisdictions[i] = jurisdiction
		courts[i] = chunk.Court
		outcomes[i] = chunk.Outcome
		decidedAts[i] = chunk.DecidedAt
		textContents[i] = chunk.TextContent
	}

	idCol := entity.NewColumnVarChar("id", ids)
	vectorCol := entity.NewColumnFloatVector("vector", VectorDimension, vectors)
	citationCol := entity.NewColumnVarChar("citation", citations)
	jurisdictionCol := entity.NewColumnVarChar("jurisdiction", jurisdictions)
	courtCol := entity.NewColumnVarChar("court", courts)
	outcomeCol := entity.NewColumnVarChar("outcome", outcomes)
	decidedCol := entity.NewColumnInt64("decided_at", decidedAts)
	textCol := entity.NewColumnVarChar("text_content", textContents)

	_, err := r.client.milvus.Insert(ctx, collName, partitionName,
		idCol, vectorCol, citationCol, jurisdictionCol, courtCol, outcomeCol, decidedCol, textCol)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to insert chunks: %w", err)
	}

	return nil
}

// DeleteChunksByCitation 删除某判例的全部分块（重建索引前调用）
func (r *Repository) DeleteChunksByCitation(ctx context.Context, jurisdiction, citation string) error {
	if r == nil || r.client == nil || r.client.milvus == nil {
		return fmt.Errorf("milvus client not configured")
	}
	citation = strings.TrimSpace(citation)
	if citation == "" {
		return nil
	}

	ctx, span := tracer.Start(ctx, "milvus.DeleteChunksByCitation",
		trace.WithAttributes(attribute.String("citation", citation)))
	defer span.End()

	collName := r.client.CollectionName(CollectionCaseChunks)
	partitionName := PartitionName(jurisdiction)

	if has, err := r.client.milvus.HasPartition(ctx, collName, partitionName); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to check partition: %w", err)
	} else if !has {
		return nil
	}

	filter := fmt.Sprintf(`citation == "%s"`, citation)
	if err := r.client.milvus.Delete(ctx, collName, partitionName, filter); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete chunks: %w", err)
	}
	return nil
}

// EnsureCaseChunksCollection 确保 case_chunks 集合与索引可用（不存在则创建）。
// 约束：不会做 drop/rebuild 等破坏性操作。
func (r *Repository) EnsureCaseChunksCollection(ctx context.Context) error {
	if r == nil || r.client == nil || r.client.milvus == nil {
		return fmt.Errorf("milvus client not configured")
	}

	exists, err := r.client.HasCollection(ctx, CollectionCaseChunks)
	if err != nil {
		return err
	}
	if !exists {
		if err := r.CreateCollection(ctx, CaseChunksSchema()); err != nil {
			return err
		}
		// 新建集合时创建索引；若失败，允许后续由运维介入。
		_ = r.CreateIndex(ctx, CollectionCaseChunks)
	}

	return r.client.LoadCollection(ctx, CollectionCaseChunks)
}
