package retrieval

import (
	"context"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/embedding"

	"ticket-contest-api/internal/application/queryplan"
	"ticket-contest-api/internal/domain/entity"
	"ticket-contest-api/internal/infrastructure/persistence/milvus"
)

// SemanticRetriever 语义检索器：拼接文本 → 向量 → 最近邻
type SemanticRetriever struct {
	embedder embedding.Embedder
	vector   VectorSearcher
	topK     int
}

// NewSemanticRetriever 创建语义检索器
func NewSemanticRetriever(embedder embedding.Embedder, vector VectorSearcher, topK int) *SemanticRetriever {
	if topK <= 0 {
		topK = 10
	}
	return &SemanticRetriever{
		embedder: embedder,
		vector:   vector,
		topK:     topK,
	}
}

// Enabled 语义检索是否可用
func (r *SemanticRetriever) Enabled() bool {
	return r != nil && r.embedder != nil && r.vector != nil
}

// Retrieve 执行语义检索。Embedder 或向量库不可用时返回错误，由上层降级。
func (r *SemanticRetriever) Retrieve(ctx context.Context, ticket *entity.Ticket, plan *queryplan.Plan) ([]*entity.CandidateCase, error) {
	if !r.Enabled() {
		return nil, ErrSemanticDisabled
	}
	if err := r.vector.EnsureCaseChunksCollection(ctx); err != nil {
		return nil, err
	}

	vec, err := r.embedQuery(ctx, plan.ComposedText(ticket))
	if err != nil {
		return nil, err
	}

	results, err := r.vector.SearchChunks(ctx, &milvus.SearchParams{
		Jurisdiction: ticket.Jurisdiction,
		QueryVector:  vec,
		TopK:         r.topK,
	})
	if err != nil {
		return nil, err
	}

	out := make([]*entity.CandidateCase, 0, len(results))
	for _, res := range results {
		if res == nil || strings.TrimSpace(res.Citation) == "" {
			continue
		}
		out = append(out, &entity.CandidateCase{
			Citation:  res.Citation,
			Court:     res.Court,
			DecidedAt: time.Unix(res.DecidedAt, 0).UTC(),
			Outcome:   entity.ParseOutcome(res.Outcome),
			Summary:   res.TextContent,
			Score:     distanceToSimilarity(res.Score),
			Sources:   []entity.CaseSource{entity.SourceSemantic},
		})
	}
	return out, nil
}

func (r *SemanticRetriever) embedQuery(ctx context.Context, query string) ([]float32, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil, ErrSemanticDisabled
	}
	v64, err := r.embedder.EmbedStrings(ctx, []string{q})
	if err != nil {
		return nil, err
	}
	if len(v64) == 0 {
		return nil, ErrSemanticDisabled
	}
	vec := v64[0]
	out := make([]float32, 0, len(vec))
	for _, x := range vec {
		out = append(out, float32(x))
	}
	return out, nil
}

// distanceToSimilarity 将 COSINE 距离单调转换为 0-100 相似度（distance = 1 - cos）
func distanceToSimilarity(distance float32) float64 {
	sim := (1 - float64(distance)) * 100
	if sim < 0 {
		return 0
	}
	if sim > 100 {
		return 100
	}
	return sim
}
