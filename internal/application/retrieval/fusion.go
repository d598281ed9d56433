package retrieval

import (
	"sort"

	"ticket-contest-api/internal/domain/entity"
)

// MultiSourceBoost 每多一个独立来源命中同一判例的加分
const MultiSourceBoost = 15.0

// Fuse 按归一化 citation 合并多路候选：
// 首次出现作为基底；之后每个"新来源"命中加固定分（封顶 100）；
// 同一来源内的重复不加分（单来源自融合幂等）。
// 保留更长的摘要，空字段由后续命中补全。
// 输出按分数降序、citation 升序排序，保证确定性。
func Fuse(lists ...[]*entity.CandidateCase) []*entity.CandidateCase {
	merged := make(map[string]*entity.CandidateCase)
	order := make([]string, 0)

	for _, list := range lists {
		for _, c := range list {
			if c == nil {
				continue
			}
			key := entity.NormalizeCitation(c.Citation)
			if key == "" {
				continue
			}

			existing, ok := merged[key]
			if !ok {
				clone := *c
				clone.Sources = append([]entity.CaseSource(nil), c.Sources...)
				merged[key] = &clone
				order = append(order, key)
				continue
			}

			for _, src := range c.Sources {
				if existing.HasSource(src) {
					continue
				}
				existing.Sources = append(existing.Sources, src)
				existing.Score += MultiSourceBoost
			}
			if existing.Score > 100 {
				existing.Score = 100
			}

			if len(c.Summary) > len(existing.Summary) {
				existing.Summary = c.Summary
			}
			if existing.Court == "" {
				existing.Court = c.Court
			}
			if existing.DecidedAt.IsZero() {
				existing.DecidedAt = c.DecidedAt
			}
			if existing.Outcome == entity.OutcomeOther && c.Outcome != entity.OutcomeOther {
				existing.Outcome = c.Outcome
			}
		}
	}

	out := make([]*entity.CandidateCase, 0, len(order))
	for _, key := range order {
		out = append(out, merged[key])
	}
	sortCandidates(out)
	return out
}

// sortCandidates 分数降序、citation 升序
func sortCandidates(cases []*entity.CandidateCase) {
	sort.SliceStable(cases, func(i, j int) bool {
		if cases[i].Score != cases[j].Score {
			return cases[i].Score > cases[j].Score
		}
		return cases[i].Citation < cases[j].Citation
	})
}
