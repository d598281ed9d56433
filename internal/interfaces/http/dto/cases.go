package dto

import (
	"time"

	"ticket-contest-api/internal/application/retrieval"
)

// IndexCaseRequest 判例索引请求
type IndexCaseRequest struct {
	Citation     string   `json:"citation" binding:"required"`
	Jurisdiction string   `json:"jurisdiction" binding:"required"`
	Court        string   `json:"court"`
	DecidedAt    string   `json:"decided_at"` // 2006-01-02，可选
	Outcome      string   `json:"outcome"`
	Summary      string   `json:"summary"`
	FullText     string   `json:"full_text"`
	Keywords     []string `json:"keywords"`
}

// ToDecisionDocument 转换为待索引文书
func (r *IndexCaseRequest) ToDecisionDocument() *retrieval.DecisionDocument {
	var decidedAt time.Time
	if r.DecidedAt != "" {
		decidedAt, _ = time.Parse("2006-01-02", r.DecidedAt)
	}
	return &retrieval.DecisionDocument{
		Citation:     r.Citation,
		Jurisdiction: r.Jurisdiction,
		Court:        r.Court,
		DecidedAt:    decidedAt,
		Outcome:      r.Outcome,
		Summary:      r.Summary,
		FullText:     r.FullText,
		Keywords:     r.Keywords,
	}
}

// IndexCaseResponse 判例索引响应
type IndexCaseResponse struct {
	Citation string `json:"citation"`
	Indexed  bool   `json:"indexed"`
	Vector   bool   `json:"vector_indexed"`
}
