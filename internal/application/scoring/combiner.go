package scoring

import (
	"math"

	"ticket-contest-api/internal/config"
	"ticket-contest-api/internal/domain/entity"
	"ticket-contest-api/pkg/metrics"
)

// Combiner 最终分值组合器：经验基率 + 预评分 + 外部评估意见的固定加权和
type Combiner struct {
	rates map[entity.ViolationCategory]entity.EmpiricalRateEntry

	baseRateWeight float64
	preScoreWeight float64
	advisoryWeight float64
}

// NewCombiner 创建组合器。权重非法（和不为 1）时回退默认 0.3/0.5/0.2。
func NewCombiner(rates map[entity.ViolationCategory]entity.EmpiricalRateEntry, cfg *config.ScoringConfig) *Combiner {
	if rates == nil {
		rates = DefaultRateTable()
	}
	bw, pw, aw := 0.3, 0.5, 0.2
	if cfg != nil {
		sum := cfg.BaseRateWeight + cfg.PreScoreWeight + cfg.AdvisoryWeight
		if math.Abs(sum-1.0) < 1e-9 && cfg.BaseRateWeight >= 0 && cfg.PreScoreWeight >= 0 && cfg.AdvisoryWeight >= 0 {
			bw, pw, aw = cfg.BaseRateWeight, cfg.PreScoreWeight, cfg.AdvisoryWeight
		}
	}
	return &Combiner{
		rates:          rates,
		baseRateWeight: bw,
		preScoreWeight: pw,
		advisoryWeight: aw,
	}
}

// Combine 合成最终评分明细。
// 评估意见不可用时其权重并入预评分项，而不是按 0 分计入。
func (c *Combiner) Combine(pre PreScoreResult, stats entity.OutcomeStats, adv Advisory) *entity.ScoreBreakdown {
	baseRate := c.baseRateComponent(pre.Category, stats)

	preWeight := c.preScoreWeight
	advScore, advAvailable := adv.Score()
	advComponent := 0.0
	if advAvailable {
		advComponent = advScore
	} else {
		preWeight += c.advisoryWeight
	}

	raw := c.baseRateWeight*baseRate + preWeight*pre.PreScore
	if advAvailable {
		raw += c.advisoryWeight * advComponent
	}

	final := int(math.Round(clamp(raw)))

	breakdown := &entity.ScoreBreakdown{
		BaseRateComponent: baseRate,
		PreScoreComponent: pre.PreScore,
		AdvisoryComponent: advComponent,
		AdvisoryAvailable: advAvailable,
		FinalScore:        final,
		Confidence:        confidenceFor(stats, advAvailable),
		Recommendation:    recommendationFor(final),
		Applied:           pre.Applied,
		Category:          pre.Category,
		SeverityFlag:      pre.SeverityFlag,
	}

	metrics.ContestScore.Observe(float64(final))
	metrics.ScoreRequestsTotal.WithLabelValues(
		string(breakdown.Confidence),
		string(breakdown.Recommendation),
	).Inc()
	return breakdown
}

// baseRateComponent 基率分项：有检索判例时用其胜诉率，否则回退经验表
func (c *Combiner) baseRateComponent(category entity.ViolationCategory, stats entity.OutcomeStats) float64 {
	if stats.Total > 0 {
		return stats.FavorableRate * 100
	}
	if entry, ok := c.rates[category]; ok {
		return entry.FavorableRate * 100
	}
	if entry, ok := c.rates[entity.CategoryGeneric]; ok {
		return entry.FavorableRate * 100
	}
	return 40
}

// confidenceFor 零判例强制最低置信度，与数值分无关
func confidenceFor(stats entity.OutcomeStats, advAvailable bool) entity.ConfidenceTier {
	if stats.Total == 0 {
		return entity.ConfidenceLow
	}
	if !advAvailable {
		return entity.ConfidenceMedium
	}
	return entity.ConfidenceHigh
}

// recommendationFor 按固定有序分段映射建议层级。
// TODO(product): 30-44 与 15-29 两段映射到同一建议，与历史行为一致；
// 待产品确认是有意的粗分档还是遗留缺陷后再合并。
func recommendationFor(score int) entity.Recommendation {
	switch {
	case score >= 75:
		return entity.RecommendContestStrong
	case score >= 60:
		return entity.RecommendContest
	case score >= 45:
		return entity.RecommendConsider
	case score >= 30:
		return entity.RecommendWeighOptions
	case score >= 15:
		return entity.RecommendWeighOptions
	default:
		return entity.RecommendPay
	}
}
