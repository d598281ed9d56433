package retrieval

import (
	"ticket-contest-api/internal/domain/entity"
)

// 结果类别目标占比 40% / 40% / 20%
const (
	favorableShare   = 0.4
	unfavorableShare = 0.4
	otherShare       = 0.2
)

// Diversify 从融合列表中挑选不超过 n 条，按结果类别近似配比：
// favorable/unfavorable/other ≈ 40/40/20，非空桶至少保底 1 条；
// 某桶不足时，缺口由剩余候选按分数补齐；最终按分数降序输出。
// 输入有序则输出确定。
func Diversify(cases []*entity.CandidateCase, n int) []*entity.CandidateCase {
	if n <= 0 || len(cases) == 0 {
		return []*entity.CandidateCase{}
	}
	if len(cases) <= n {
		out := append([]*entity.CandidateCase(nil), cases...)
		sortCandidates(out)
		return out
	}

	var favorable, unfavorable, other []*entity.CandidateCase
	for _, c := range cases {
		switch c.Outcome {
		case entity.OutcomeFavorable:
			favorable = append(favorable, c)
		case entity.OutcomeUnfavorable:
			unfavorable = append(unfavorable, c)
		default:
			other = append(other, c)
		}
	}

	// 各桶目标独立按占比计算，桶不足时缺口一律交给补齐环节，
	// 不向其他桶转移名额
	favTarget := bucketTarget(n, favorableShare, len(favorable))
	unfavTarget := bucketTarget(n, unfavorableShare, len(unfavorable))
	otherTarget := bucketTarget(n, otherShare, len(other))

	selected := make([]*entity.CandidateCase, 0, n)
	picked := make(map[*entity.CandidateCase]struct{}, n)

	take := func(bucket []*entity.CandidateCase, target int) {
		for i := 0; i < target && i < len(bucket) && len(selected) < n; i++ {
			selected = append(selected, bucket[i])
			picked[bucket[i]] = struct{}{}
		}
	}
	take(favorable, favTarget)
	take(unfavorable, unfavTarget)
	take(other, otherTarget)

	// 缺口按原始分数序补齐，不再区分桶
	for _, c := range cases {
		if len(selected) >= n {
			break
		}
		if _, ok := picked[c]; ok {
			continue
		}
		selected = append(selected, c)
		picked[c] = struct{}{}
	}

	sortCandidates(selected)
	return selected
}

// bucketTarget 计算某桶的目标条数：按占比取整，非空桶保底 1，不超过桶容量
func bucketTarget(n int, share float64, available int) int {
	if available == 0 {
		return 0
	}
	target := int(float64(n) * share)
	if target < 1 {
		target = 1
	}
	if target > available {
		target = available
	}
	return target
}
