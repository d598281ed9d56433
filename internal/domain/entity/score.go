// Package entity 定义领域实体
package entity

// ConfidenceTier 置信度层级
type ConfidenceTier string

const (
	ConfidenceHigh   ConfidenceTier = "high"
	ConfidenceMedium ConfidenceTier = "medium"
	ConfidenceLow    ConfidenceTier = "low"
)

// Recommendation 申诉建议层级
type Recommendation string

const (
	RecommendContestStrong Recommendation = "contest_strong"
	RecommendContest       Recommendation = "contest"
	RecommendConsider      Recommendation = "consider"
	RecommendWeighOptions  Recommendation = "weigh_options"
	RecommendPay           Recommendation = "pay"
)

// AppliedVector 已命中的抗辩向量及其贡献
type AppliedVector struct {
	Name      string  `json:"name"`
	Delta     float64 `json:"delta"`
	Rationale string  `json:"rationale"`
}

// ScoreBreakdown 评分明细。每次请求构建一次后交给下游报告协作方，
// 本服务不持久化。
type ScoreBreakdown struct {
	BaseRateComponent float64           `json:"base_rate_component"`
	PreScoreComponent float64           `json:"pre_score_component"`
	AdvisoryComponent float64           `json:"advisory_component"`
	AdvisoryAvailable bool              `json:"advisory_available"`
	FinalScore        int               `json:"final_score"`
	Confidence        ConfidenceTier    `json:"confidence"`
	Recommendation    Recommendation    `json:"recommendation"`
	Applied           []AppliedVector   `json:"applied_vectors"`
	Category          ViolationCategory `json:"category"`
	SeverityFlag      bool              `json:"severity_flag"`
}

// DefenseVector 抗辩向量：命中谓词 + 带符号分值增量 + 可读理由。
// 静态配置加载，请求期间只读。
type DefenseVector struct {
	Name        string
	Keywords    []string // 任一关键词命中文本即触发
	AllKeywords []string // 全部关键词共现才触发（误报修正向量使用）
	Tags        []string // 任一上下文标签命中即触发
	Excludes    []string // 任一排除词命中则不触发
	Delta       float64
	Rationale   string
}

// EmpiricalRateEntry 经验胜诉率条目，由离线流程产出，本服务只读
type EmpiricalRateEntry struct {
	Category      ViolationCategory
	FavorableRate float64
	SampleSize    int
}
