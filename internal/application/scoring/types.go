package scoring

import (
	"ticket-contest-api/internal/domain/entity"
)

// PreScoreResult 预评分输出：确定性分值 + 全部已命中向量的审计明细
type PreScoreResult struct {
	PreScore     float64
	Applied      []entity.AppliedVector
	Category     entity.ViolationCategory
	SeverityFlag bool
}

// Advisory 外部评估意见的双态结果类型：
// 可用（含分值与理由）或明确不可用，组合器不再做字符串/空值分支。
type Advisory struct {
	available bool
	score     float64
	rationale string
}

// AdvisoryAvailable 构造可用的评估结果
func AdvisoryAvailable(score float64, rationale string) Advisory {
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return Advisory{available: true, score: score, rationale: rationale}
}

// AdvisoryUnavailable 构造"不可用"结果
func AdvisoryUnavailable() Advisory {
	return Advisory{}
}

// Score 返回评估分值；第二返回值为 false 表示不可用
func (a Advisory) Score() (float64, bool) {
	return a.score, a.available
}

// Rationale 返回评估理由（不可用时为空）
func (a Advisory) Rationale() string {
	return a.rationale
}
