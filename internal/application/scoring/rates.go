package scoring

import (
	"ticket-contest-api/internal/domain/entity"
)

// DefaultRateTable 各违章类别的经验胜诉率表。
// 数据由离线流程从历史裁决统计产出，进程启动时加载一次，请求期间只读。
func DefaultRateTable() map[entity.ViolationCategory]entity.EmpiricalRateEntry {
	return map[entity.ViolationCategory]entity.EmpiricalRateEntry{
		entity.CategorySpeeding: {
			Category:      entity.CategorySpeeding,
			FavorableRate: 0.42,
			SampleSize:    1840,
		},
		entity.CategorySignal: {
			Category:      entity.CategorySignal,
			FavorableRate: 0.38,
			SampleSize:    960,
		},
		entity.CategoryDeviceUse: {
			Category:      entity.CategoryDeviceUse,
			FavorableRate: 0.35,
			SampleSize:    540,
		},
		entity.CategoryImpairment: {
			Category:      entity.CategoryImpairment,
			FavorableRate: 0.18,
			SampleSize:    420,
		},
		entity.CategoryStopSign: {
			Category:      entity.CategoryStopSign,
			FavorableRate: 0.44,
			SampleSize:    380,
		},
		entity.CategoryParking: {
			Category:      entity.CategoryParking,
			FavorableRate: 0.55,
			SampleSize:    2200,
		},
		entity.CategoryGeneric: {
			Category:      entity.CategoryGeneric,
			FavorableRate: 0.40,
			SampleSize:    600,
		},
	}
}
