package queryplan

import (
	"strings"

	"ticket-contest-api/internal/domain/entity"
)

// categoryRule 违章类别判定规则。按序匹配，先命中者生效。
type categoryRule struct {
	category entity.ViolationCategory
	keywords []string
}

// categoryRules 从最具体到最宽泛排列：
// impairment 的关键词可能与 speeding 同时出现，必须先判
var categoryRules = []categoryRule{
	{entity.CategoryImpairment, []string{"dui", "dwi", "impair", "intoxic", "under the influence", "alcohol", "drug"}},
	{entity.CategoryDeviceUse, []string{"cell phone", "mobile phone", "texting", "handheld", "hand-held", "electronic device"}},
	{entity.CategoryStopSign, []string{"stop sign", "failure to stop", "rolling stop"}},
	{entity.CategorySignal, []string{"red light", "traffic signal", "traffic light", "ran the light", "signal violation"}},
	{entity.CategorySpeeding, []string{"speed", "mph", "km/h", "radar", "lidar", "pace"}},
	{entity.CategoryParking, []string{"parking", "parked", "meter expired", "hydrant", "no standing"}},
}

// tagRule 上下文标签判定规则
type tagRule struct {
	tag      string
	keywords []string
}

var tagRules = []tagRule{
	{TagPhotoEnforcement, []string{"camera", "photo", "automated", "photograph"}},
	{TagSchoolZone, []string{"school"}},
	{TagWorkZone, []string{"work zone", "construction"}},
	{TagTwoWheeled, []string{"motorcycle", "scooter", "moped", "bicycle"}},
	{TagCommercialVehicle, []string{"commercial", "truck", "cdl", "semi", "tractor"}},
}

// 上下文标签
const (
	TagPhotoEnforcement  = "photo-enforcement"
	TagSchoolZone        = "school-zone"
	TagWorkZone          = "work-zone"
	TagTwoWheeled        = "two-wheeled-vehicle"
	TagCommercialVehicle = "commercial-vehicle"
)

// Profile 辖区画像：同一类别在不同辖区使用不同的查询词表
type Profile struct {
	Jurisdiction string
	// CategoryQueries 每个类别的查询词组，按从具体到宽泛排列
	CategoryQueries map[entity.ViolationCategory][]string
	// TagQueries 标签附加查询，排在类别查询之前（更具体）
	TagQueries map[string]string
}

// defaultProfile 未注册辖区的兜底画像
var defaultProfile = &Profile{
	Jurisdiction: "",
	CategoryQueries: map[entity.ViolationCategory][]string{
		entity.CategorySpeeding: {
			"speeding radar calibration evidence",
			"speeding ticket dismissed",
			"speed limit violation",
		},
		entity.CategorySignal: {
			"red light camera contested",
			"traffic signal violation dismissed",
			"signal violation",
		},
		entity.CategoryDeviceUse: {
			"handheld device while driving dismissed",
			"cell phone driving violation",
		},
		entity.CategoryImpairment: {
			"impaired driving breathalyzer accuracy",
			"dui stop probable cause",
		},
		entity.CategoryStopSign: {
			"stop sign obscured visibility",
			"stop sign violation dismissed",
		},
		entity.CategoryParking: {
			"parking citation signage dispute",
			"parking violation dismissed",
		},
		entity.CategoryGeneric: {
			"traffic violation contested",
		},
	},
	TagQueries: map[string]string{
		TagPhotoEnforcement:  "automated enforcement camera accuracy challenge",
		TagSchoolZone:        "school zone enforcement hours dispute",
		TagWorkZone:          "work zone speed limit signage",
		TagTwoWheeled:        "motorcycle traffic stop identification",
		TagCommercialVehicle: "commercial vehicle citation jurisdiction",
	},
}

// ProfileFor 返回辖区画像；未注册的辖区使用兜底画像。
// profiles 只在进程启动时构建，请求期间只读。
func (p *Planner) ProfileFor(jurisdiction string) *Profile {
	key := strings.ToLower(strings.TrimSpace(jurisdiction))
	if prof, ok := p.profiles[key]; ok {
		return prof
	}
	return defaultProfile
}
