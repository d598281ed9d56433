// Package milvus 提供 Milvus 向量数据库访问层实现
package milvus

import (
	"strings"

	"github.com/milvus-io/milvus-sdk-go/v2/entity"
)

const (
	// CollectionCaseChunks 判例文本分块集合
	CollectionCaseChunks = "case_chunks"

	// VectorDimension 向量维度
	VectorDimension = 1024
)

// CaseChunksSchema 判例分块 Collection Schema
func CaseChunksSchema() *entity.Schema {
	return &entity.Schema{
		CollectionName: CollectionCaseChunks,
		Description:    "Case decision text chunks for semantic precedent search",
		Fields: []*entity.Field{
			{
				Name:       "id",
				DataType:   entity.FieldTypeVarChar,
				PrimaryKey: true,
				AutoID:     false,
				TypeParams: map[string]string{
					"max_length": "64",
				},
			},
			{
				Name:     "vector",
				DataType: entity.FieldTypeFloatVector,
				TypeParams: map[string]string{
					"dim": "1024",
				},
			},
			{
				Name:     "citation",
				DataType: entity.FieldTypeVarChar,
				TypeParams: map[string]string{
					"max_length": "256",
				},
			},
			{
				Name:     "jurisdiction",
				DataType: entity.FieldTypeVarChar,
				TypeParams: map[string]string{
					"max_length": "64",
				},
			},
			{
				Name:     "court",
				DataType: entity.FieldTypeVarChar,
				TypeParams: map[string]string{
					"max_length": "128",
				},
			},
			{
				Name:     "outcome",
				DataType: entity.FieldTypeVarChar,
				TypeParams: map[string]string{
					"max_length": "32",
				},
			},
			{
				Name:     "decided_at",
				DataType: entity.FieldTypeInt64,
			},
			{
				Name:     "text_content",
				DataType: entity.FieldTypeVarChar,
				TypeParams: map[string]string{
					"max_length": "65535",
				},
			},
		},
	}
}

// CaseChunk 判例分块数据结构
type CaseChunk struct {
	ID           string    `json:"id"`
	Vector       []float32 `json:"vector"`
	Citation     string    `json:"citation"`
	Jurisdiction string    `json:"jurisdiction"`
	Court        string    `json:"court"`
	Outcome      string    `json:"outcome"`
	DecidedAt    int64     `json:"decided_at"`
	TextContent  string    `json:"text_content"`
}

// PartitionName 生成辖区分区名称
func PartitionName(jurisdiction string) string {
	j := strings.ToLower(strings.TrimSpace(jurisdiction))
	j = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}
		return '_'
	}, j)
	return "juris_" + j
}
