package retrieval

import (
	"ticket-contest-api/internal/domain/entity"
)

// Input 检索输入
type Input struct {
	Ticket *entity.Ticket
	TopN   int
}

// Output 检索输出：多样化后的判例列表 + 结果统计
type Output struct {
	Cases []*entity.CandidateCase
	Stats entity.OutcomeStats

	// SourceCounts 各来源贡献的候选数（融合前）
	SourceCounts map[entity.CaseSource]int
	// Degraded 本次降级的来源及原因，仅用于日志与响应提示
	Degraded map[entity.CaseSource]string
}
