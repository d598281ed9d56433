package scoring

import (
	"ticket-contest-api/internal/application/queryplan"
	"ticket-contest-api/internal/domain/entity"
)

// DefaultVectorTable 抗辩向量表。声明式规则，逐条独立求值：
// 多条命中全部累加。负分条目是误报修正，抵消在特定语境下失效的常规向量。
func DefaultVectorTable() []entity.DefenseVector {
	return []entity.DefenseVector{
		// 程序与证据类
		{
			Name:      "calibration_challenge",
			Keywords:  []string{"calibration", "calibrated", "maintenance record"},
			Delta:     8,
			Rationale: "测速设备校准记录可质证",
		},
		{
			Name:      "officer_observation",
			Keywords:  []string{"visual estimate", "pacing", "officer estimated"},
			Delta:     6,
			Rationale: "仅凭目测/跟车估速，证据强度弱",
		},
		{
			Name:      "signage_dispute",
			Keywords:  []string{"sign obscured", "no sign", "missing sign", "faded", "obstructed"},
			Delta:     10,
			Rationale: "标志缺失或不可见是常见有效抗辩",
		},
		{
			Name:      "emergency_justification",
			Keywords:  []string{"emergency", "medical", "hospital"},
			Excludes:  []string{"emergency vehicle"},
			Delta:     7,
			Rationale: "紧急避险情形可主张豁免",
		},
		{
			Name:      "identity_question",
			Keywords:  []string{"not the driver", "lent the car", "registered owner only"},
			Delta:     9,
			Rationale: "驾驶人身份存疑",
		},

		// 标签类：上下文标签触发
		{
			Name:      "photo_enforcement_challenge",
			Tags:      []string{queryplan.TagPhotoEnforcement},
			Delta:     8,
			Rationale: "自动执法设备的程序合规性与图像证据常可挑战",
		},
		{
			Name:      "two_wheeled_identification",
			Tags:      []string{queryplan.TagTwoWheeled},
			Delta:     4,
			Rationale: "两轮车拍照识别准确率低",
		},

		// 误报修正：常规向量在特定共现语境下失效
		{
			Name:        "school_zone_photo_correction",
			AllKeywords: []string{"school"},
			Tags:        []string{queryplan.TagPhotoEnforcement},
			Delta:       -6,
			Rationale:   "学区自动执法的容错更严，抵消拍照挑战加分",
		},
		{
			Name:        "admission_correction",
			AllKeywords: []string{"admitted"},
			Delta:       -8,
			Rationale:   "当场承认违章会显著削弱其他抗辩",
		},
		{
			Name:        "calibration_admission_correction",
			AllKeywords: []string{"calibration", "admitted speeding"},
			Delta:       -5,
			Rationale:   "承认超速时校准质疑基本失效",
		},
	}
}

// aggravatedKeywords 法定加重情节关键词（文本覆盖，仅在无超速档位罚分时生效）
var aggravatedKeywords = []string{"racing", "reckless", "school bus"}
