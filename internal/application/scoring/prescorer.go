// Package scoring 实现确定性预评分与最终分值组合。
// 所有表在进程启动时构建一次，请求期间只读；相同输入必得相同输出。
package scoring

import (
	"fmt"
	"strings"

	"ticket-contest-api/internal/application/queryplan"
	"ticket-contest-api/internal/domain/entity"
)

const (
	// 基准分 = rateWeight×(经验胜诉率×100) + baselineWeight×baselineScore
	rateWeight     = 0.7
	baselineWeight = 0.3
	baselineScore  = 50.0

	// aggravatedPenalty 法定加重情节罚分（仅在无超速档位罚分时生效）
	aggravatedPenalty = -15.0

	// 判例佐证加分条件与上限
	precedentMinRate   = 0.5
	precedentMinSample = 5
	precedentBonusCap  = 10.0
)

// severityTier 超速幅度罚分档位。从高到低排列，只取最高命中档。
type severityTier struct {
	minOver int
	penalty float64
}

var severityTiers = []severityTier{
	{100, -30},
	{50, -20},
	{30, -12},
	{20, -6},
}

// PreScorer 统计预评分器。无网络调用，纯内存计算。
type PreScorer struct {
	rates   map[entity.ViolationCategory]entity.EmpiricalRateEntry
	vectors []entity.DefenseVector
}

// NewPreScorer 创建预评分器。表为 nil 时使用默认表。
func NewPreScorer(rates map[entity.ViolationCategory]entity.EmpiricalRateEntry, vectors []entity.DefenseVector) *PreScorer {
	if rates == nil {
		rates = DefaultRateTable()
	}
	if vectors == nil {
		vectors = DefaultVectorTable()
	}
	return &PreScorer{rates: rates, vectors: vectors}
}

// Score 计算预评分。stats 可为 nil（检索尚未完成或零命中）。
func (s *PreScorer) Score(ticket *entity.Ticket, stats *entity.OutcomeStats) PreScoreResult {
	result := PreScoreResult{Category: entity.CategoryGeneric}
	if ticket == nil {
		result.PreScore = baselineScore
		return result
	}

	text := ticket.SearchText()
	tags := queryplan.DetectTags(text)
	result.Category = queryplan.Classify(text)

	// 1. 基准分：经验胜诉率与固定基线的加权混合
	rate := s.rateFor(result.Category)
	score := rateWeight*(rate*100) + baselineWeight*baselineScore

	// 2. 超速档位罚分：只取最高命中档，不叠加
	if penalty, tier := severityPenalty(ticket.SpeedOver()); tier > 0 {
		score += penalty
		result.SeverityFlag = true
		result.Applied = append(result.Applied, entity.AppliedVector{
			Name:      fmt.Sprintf("severity_over_%d", tier),
			Delta:     penalty,
			Rationale: fmt.Sprintf("超速 %d，命中 ≥%d 档位罚分", ticket.SpeedOver(), tier),
		})
	} else if hasAggravatedText(text) {
		// 法定加重情节覆盖：仅在档位罚分未触发时生效
		score += aggravatedPenalty
		result.SeverityFlag = true
		result.Applied = append(result.Applied, entity.AppliedVector{
			Name:      "severity_aggravated_text",
			Delta:     aggravatedPenalty,
			Rationale: "违章描述含法定加重情节关键词",
		})
	}

	// 3. 抗辩向量：逐条独立求值，命中全部累加（含负分修正）
	for _, vec := range s.vectors {
		if !vectorTriggered(&vec, text, tags) {
			continue
		}
		score += vec.Delta
		result.Applied = append(result.Applied, entity.AppliedVector{
			Name:      vec.Name,
			Delta:     vec.Delta,
			Rationale: vec.Rationale,
		})
	}

	// 4. 判例佐证加分：胜诉率过半且样本非平凡时按比例加分，封顶
	if stats != nil && stats.Total >= precedentMinSample && stats.FavorableRate >= precedentMinRate {
		bonus := (stats.FavorableRate - precedentMinRate) * 40
		if bonus > precedentBonusCap {
			bonus = precedentBonusCap
		}
		score += bonus
		result.Applied = append(result.Applied, entity.AppliedVector{
			Name:      "precedent_support",
			Delta:     bonus,
			Rationale: fmt.Sprintf("检索判例胜诉率 %.0f%%（样本 %d）", stats.FavorableRate*100, stats.Total),
		})
	}

	result.PreScore = clamp(score)
	return result
}

func (s *PreScorer) rateFor(category entity.ViolationCategory) float64 {
	if entry, ok := s.rates[category]; ok {
		return entry.FavorableRate
	}
	if entry, ok := s.rates[entity.CategoryGeneric]; ok {
		return entry.FavorableRate
	}
	return 0.4
}

// severityPenalty 返回最高命中档的罚分及档位阈值；无命中返回 (0, 0)
func severityPenalty(speedOver int) (float64, int) {
	if speedOver <= 0 {
		return 0, 0
	}
	for _, tier := range severityTiers {
		if speedOver >= tier.minOver {
			return tier.penalty, tier.minOver
		}
	}
	return 0, 0
}

func hasAggravatedText(text string) bool {
	for _, kw := range aggravatedKeywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// vectorTriggered 向量触发判定：
// Excludes 任一命中 → 不触发；
// AllKeywords 非空 → 全部共现（且 Tags 非空时至少一个标签命中）才触发；
// 否则 Keywords 或 Tags 任一命中即触发。
func vectorTriggered(vec *entity.DefenseVector, text string, tags []string) bool {
	for _, ex := range vec.Excludes {
		if strings.Contains(text, ex) {
			return false
		}
	}

	if len(vec.AllKeywords) > 0 {
		for _, kw := range vec.AllKeywords {
			if !strings.Contains(text, kw) {
				return false
			}
		}
		if len(vec.Tags) > 0 && !anyTagMatch(vec.Tags, tags) {
			return false
		}
		return true
	}

	for _, kw := range vec.Keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return anyTagMatch(vec.Tags, tags)
}

func anyTagMatch(want, have []string) bool {
	for _, w := range want {
		for _, h := range have {
			if w == h {
				return true
			}
		}
	}
	return false
}

func clamp(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
