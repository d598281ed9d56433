// Package queryplan 将工单映射为检索查询计划。
// 纯函数实现：无副作用，输入缺失时输出空计划而非报错。
package queryplan

import (
	"strings"

	"ticket-contest-api/internal/domain/entity"
)

// Plan 查询计划：按从具体到宽泛排序的查询词组 + 上下文标签
type Plan struct {
	Queries  []string
	Tags     []string
	Category entity.ViolationCategory
}

// Planner 查询规划器
type Planner struct {
	profiles map[string]*Profile
}

// NewPlanner 创建查询规划器。extra 为按辖区注册的附加画像。
func NewPlanner(extra ...*Profile) *Planner {
	profiles := make(map[string]*Profile, len(extra))
	for _, prof := range extra {
		if prof == nil {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(prof.Jurisdiction))
		if key == "" {
			continue
		}
		profiles[key] = prof
	}
	return &Planner{profiles: profiles}
}

// Build 从工单生成查询计划
func (p *Planner) Build(ticket *entity.Ticket) *Plan {
	if ticket == nil {
		return &Plan{Category: entity.CategoryGeneric}
	}

	text := ticket.SearchText()
	category := Classify(text)
	tags := DetectTags(text)
	profile := p.ProfileFor(ticket.Jurisdiction)

	plan := &Plan{
		Category: category,
		Tags:     tags,
	}

	// 标签查询在前：命中标签说明有更具体的争议点
	for _, tag := range tags {
		if q, ok := profile.TagQueries[tag]; ok && q != "" {
			plan.Queries = append(plan.Queries, q)
		}
	}

	plan.Queries = append(plan.Queries, profile.CategoryQueries[category]...)

	// 具体类别始终带一条宽泛兜底查询
	if category != entity.CategoryGeneric {
		plan.Queries = append(plan.Queries, profile.CategoryQueries[entity.CategoryGeneric]...)
	}

	plan.Queries = dedupeQueries(plan.Queries)
	return plan
}

// ComposedText 返回语义检索使用的拼接文本（描述 + 标签）
func (p *Plan) ComposedText(ticket *entity.Ticket) string {
	parts := []string{ticket.Violation}
	if ticket.LocationText != "" {
		parts = append(parts, ticket.LocationText)
	}
	if ticket.DeviceText != "" {
		parts = append(parts, ticket.DeviceText)
	}
	if ticket.ContextText != "" {
		parts = append(parts, ticket.ContextText)
	}
	parts = append(parts, p.Tags...)
	return strings.Join(parts, " ")
}

// Classify 按序关键词规则判定违章类别，无命中时归入 generic
func Classify(text string) entity.ViolationCategory {
	text = strings.ToLower(text)
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(text, kw) {
				return rule.category
			}
		}
	}
	return entity.CategoryGeneric
}

// DetectTags 从文本中识别上下文标签，返回顺序与规则表一致
func DetectTags(text string) []string {
	text = strings.ToLower(text)
	var tags []string
	for _, rule := range tagRules {
		for _, kw := range rule.keywords {
			if strings.Contains(text, kw) {
				tags = append(tags, rule.tag)
				break
			}
		}
	}
	return tags
}

func dedupeQueries(queries []string) []string {
	seen := make(map[string]struct{}, len(queries))
	out := make([]string, 0, len(queries))
	for _, q := range queries {
		q = strings.TrimSpace(q)
		if q == "" {
			continue
		}
		if _, ok := seen[q]; ok {
			continue
		}
		seen[q] = struct{}{}
		out = append(out, q)
	}
	return out
}
