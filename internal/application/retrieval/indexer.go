package retrieval

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/embedding"
	"github.com/google/uuid"

	"ticket-contest-api/internal/domain/entity"
	"ticket-contest-api/internal/infrastructure/persistence/milvus"
)

const (
	defaultChunkSizeRunes    = 800
	defaultChunkOverlapRunes = 80
	defaultEmbeddingBatch    = 32
)

// DecisionDocument 待索引的判例文书
type DecisionDocument struct {
	Citation     string
	Jurisdiction string
	Court        string
	DecidedAt    time.Time
	Outcome      string
	Summary      string
	FullText     string
	Keywords     []string
}

// CaseWriter 判例主表写入 port（由 postgres 实现）
type CaseWriter interface {
	UpsertCase(ctx context.Context, doc *DecisionDocument) error
}

// Indexer 判例索引构建器：写主表 + 分块嵌入写向量库。
// 语料快照由外部离线流程驱动，本服务只提供写入路径。
type Indexer struct {
	embedder embedding.Embedder
	vector   VectorWriter
	cases    CaseWriter

	embeddingBatchSize int
	chunkSizeRunes     int
	chunkOverlapRunes  int
}

// NewIndexer 创建索引构建器
func NewIndexer(embedder embedding.Embedder, vector VectorWriter, cases CaseWriter, embeddingBatchSize int) *Indexer {
	bs := embeddingBatchSize
	if bs <= 0 {
		bs = defaultEmbeddingBatch
	}
	return &Indexer{
		embedder:           embedder,
		vector:             vector,
		cases:              cases,
		embeddingBatchSize: bs,
		chunkSizeRunes:     defaultChunkSizeRunes,
		chunkOverlapRunes:  defaultChunkOverlapRunes,
	}
}

// Enabled 向量索引路径是否可用
func (i *Indexer) Enabled() bool {
	return i != nil && i.embedder != nil && i.vector != nil
}

// IndexDecision 索引一份判例文书。
// 主表写入在前；向量写入失败不回滚主表（全文检索仍可命中该判例）。
func (i *Indexer) IndexDecision(ctx context.Context, doc *DecisionDocument) error {
	if doc == nil {
		return fmt.Errorf("decision document is nil")
	}
	if strings.TrimSpace(doc.Citation) == "" {
		return fmt.Errorf("citation is required")
	}
	if strings.TrimSpace(doc.Jurisdiction) == "" {
		return fmt.Errorf("jurisdiction is required")
	}

	if i.cases != nil {
		if err := i.cases.UpsertCase(ctx, doc); err != nil {
			return err
		}
	}

	if !i.Enabled() {
		return ErrSemanticDisabled
	}
	if err := i.vector.EnsureCaseChunksCollection(ctx); err != nil {
		return err
	}

	// 重建前先清掉旧分块，避免残留
	if err := i.vector.DeleteChunksByCitation(ctx, doc.Jurisdiction, doc.Citation); err != nil {
		return err
	}

	text := strings.TrimSpace(doc.FullText)
	if text == "" {
		text = strings.TrimSpace(doc.Summary)
	}
	if text == "" {
		return nil
	}

	textChunks := splitByRunes(text, i.chunkSizeRunes, i.chunkOverlapRunes)
	if len(textChunks) == 0 {
		return nil
	}

	embedInputs := make([]string, 0, len(textChunks))
	chunks := make([]*milvus.CaseChunk, 0, len(textChunks))
	for _, chunk := range textChunks {
		embedInputs = append(embedInputs, chunk)
		chunks = append(chunks, &milvus.CaseChunk{
			ID:           uuid.NewString(),
			Citation:     doc.Citation,
			Jurisdiction: doc.Jurisdiction,
			Court:        doc.Court,
			Outcome:      string(entity.ParseOutcome(doc.Outcome)),
			DecidedAt:    doc.DecidedAt.Unix(),
			TextContent:  chunk,
		})
	}

	vectors, err := i.embedBatch(ctx, embedInputs)
	if err != nil {
		return err
	}
	for idx := range chunks {
		chunks[idx].Vector = vectors[idx]
	}
	return i.vector.InsertChunks(ctx, doc.Jurisdiction, chunks)
}

func (i *Indexer) embedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if i == nil || i.embedder == nil {
		return nil, ErrSemanticDisabled
	}
	if len(texts) == 0 {
		return nil, nil
	}

	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += i.embeddingBatchSize {
		end := start + i.embeddingBatchSize
		if end > len(texts) {
			end = len(texts)
		}
		v64, err := i.embedder.EmbedStrings(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		for _, vec := range v64 {
			f32 := make([]float32, 0, len(vec))
			for _, x := range vec {
				f32 = append(f32, float32(x))
			}
			out = append(out, f32)
		}
	}
	return out, nil
}
