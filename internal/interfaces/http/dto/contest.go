package dto

import (
	"time"

	"ticket-contest-api/internal/application/contest"
	"ticket-contest-api/internal/domain/entity"
)

// ScoreRequest 申诉评估请求
type ScoreRequest struct {
	Violation     string `json:"violation" binding:"required"`
	Jurisdiction  string `json:"jurisdiction" binding:"required"`
	LocationText  string `json:"location_text"`
	DeviceText    string `json:"device_text"`
	VehicleText   string `json:"vehicle_text"`
	MeasuredSpeed int    `json:"measured_speed"`
	PostedSpeed   int    `json:"posted_speed"`
	ContextText   string `json:"context_text"`
	IssuedAt      string `json:"issued_at"` // RFC3339，可选
}

// ToTicket 转换为领域工单
func (r *ScoreRequest) ToTicket() *entity.Ticket {
	var issuedAt time.Time
	if r.IssuedAt != "" {
		issuedAt, _ = time.Parse(time.RFC3339, r.IssuedAt)
	}
	return &entity.Ticket{
		Violation:     r.Violation,
		Jurisdiction:  r.Jurisdiction,
		LocationText:  r.LocationText,
		DeviceText:    r.DeviceText,
		VehicleText:   r.VehicleText,
		MeasuredSpeed: r.MeasuredSpeed,
		PostedSpeed:   r.PostedSpeed,
		ContextText:   r.ContextText,
		IssuedAt:      issuedAt,
	}
}

// CandidateCaseView 判例条目视图
type CandidateCaseView struct {
	Citation  string                `json:"citation"`
	Court     string                `json:"court,omitempty"`
	DecidedAt string                `json:"decided_at,omitempty"`
	Outcome   string                `json:"outcome"`
	Summary   string                `json:"summary,omitempty"`
	Score     float64               `json:"score"`
	Sources   []string              `json:"sources"`
	Related   []entity.CitationLink `json:"related,omitempty"`
}

// ScoreResponse 申诉评估响应
type ScoreResponse struct {
	FinalScore     int                    `json:"final_score"`
	Confidence     string                 `json:"confidence"`
	Recommendation string                 `json:"recommendation"`
	Category       string                 `json:"category"`
	SeverityFlag   bool                   `json:"severity_flag"`
	Breakdown      *entity.ScoreBreakdown `json:"breakdown"`
	Cases          []CandidateCaseView    `json:"cases"`
	Tags           []string               `json:"tags,omitempty"`
	Degraded       map[string]string      `json:"degraded_sources,omitempty"`
}

// FromContestResult 由应用层结果构建响应
func FromContestResult(result *contest.Result) *ScoreResponse {
	resp := &ScoreResponse{
		FinalScore:     result.Breakdown.FinalScore,
		Confidence:     string(result.Breakdown.Confidence),
		Recommendation: string(result.Breakdown.Recommendation),
		Category:       string(result.Category),
		SeverityFlag:   result.Breakdown.SeverityFlag,
		Breakdown:      result.Breakdown,
		Tags:           result.Tags,
	}

	resp.Cases = make([]CandidateCaseView, 0, len(result.Cases))
	for _, c := range result.Cases {
		view := CandidateCaseView{
			Citation: c.Citation,
			Court:    c.Court,
			Outcome:  string(c.Outcome),
			Summary:  c.Summary,
			Score:    c.Score,
			Related:  c.Related,
		}
		if !c.DecidedAt.IsZero() {
			view.DecidedAt = c.DecidedAt.Format("2006-01-02")
		}
		for _, src := range c.Sources {
			view.Sources = append(view.Sources, string(src))
		}
		resp.Cases = append(resp.Cases, view)
	}

	if len(result.Degraded) > 0 {
		resp.Degraded = make(map[string]string, len(result.Degraded))
		for src, reason := range result.Degraded {
			resp.Degraded[string(src)] = reason
		}
	}
	return resp
}
