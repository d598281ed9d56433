// Package entity 定义领域实体
package entity

import (
	"strings"
	"time"
	"unicode"
)

// OutcomeClass 判例结果类别
type OutcomeClass string

const (
	OutcomeFavorable   OutcomeClass = "favorable"
	OutcomeUnfavorable OutcomeClass = "unfavorable"
	OutcomeOther       OutcomeClass = "other"
)

// ParseOutcome 解析结果类别，未知值归入 other
func ParseOutcome(s string) OutcomeClass {
	switch OutcomeClass(strings.ToLower(strings.TrimSpace(s))) {
	case OutcomeFavorable:
		return OutcomeFavorable
	case OutcomeUnfavorable:
		return OutcomeUnfavorable
	default:
		return OutcomeOther
	}
}

// CaseSource 候选判例来源
type CaseSource string

const (
	SourceFullText CaseSource = "fulltext"
	SourceSemantic CaseSource = "semantic"
	SourceCatalog  CaseSource = "catalog"
)

// CandidateCase 候选判例。每次请求新建；同一 citation 的多个实例
// 在融合阶段被合并，输出列表中 citation 保持唯一。
type CandidateCase struct {
	Citation  string       `json:"citation"`
	Court     string       `json:"court,omitempty"`
	DecidedAt time.Time    `json:"decided_at,omitempty"`
	Outcome   OutcomeClass `json:"outcome"`
	Summary   string       `json:"summary,omitempty"`
	Score     float64      `json:"score"` // 共享 0-100 相关度
	Sources   []CaseSource `json:"sources"`
	Related   []CitationLink `json:"related,omitempty"`
}

// HasSource 判断候选是否已含指定来源
func (c *CandidateCase) HasSource(src CaseSource) bool {
	for _, s := range c.Sources {
		if s == src {
			return true
		}
	}
	return false
}

// CitationLink 判例间的引用关系
type CitationLink struct {
	Citation     string `json:"citation"`
	RelationType string `json:"relation_type"` // cites / cited_by / related
}

// NormalizeCitation 归一化 citation 作为去重键：
// 大写、去标点、压缩空白。
func NormalizeCitation(citation string) string {
	var b strings.Builder
	b.Grow(len(citation))
	prevSpace := false
	for _, r := range strings.ToUpper(strings.TrimSpace(citation)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			prevSpace = false
		case unicode.IsSpace(r):
			if !prevSpace && b.Len() > 0 {
				b.WriteRune(' ')
				prevSpace = true
			}
		default:
			// 标点一律丢弃
		}
	}
	return strings.TrimSpace(b.String())
}

// OutcomeStats 一组判例的结果统计
type OutcomeStats struct {
	Total         int     `json:"total"`
	Favorable     int     `json:"favorable"`
	Unfavorable   int     `json:"unfavorable"`
	FavorableRate float64 `json:"favorable_rate"`
}

// ComputeOutcomeStats 统计候选列表的结果分布
func ComputeOutcomeStats(cases []*CandidateCase) OutcomeStats {
	stats := OutcomeStats{Total: len(cases)}
	for _, c := range cases {
		switch c.Outcome {
		case OutcomeFavorable:
			stats.Favorable++
		case OutcomeUnfavorable:
			stats.Unfavorable++
		}
	}
	if stats.Total > 0 {
		stats.FavorableRate = float64(stats.Favorable) / float64(stats.Total)
	}
	return stats
}
