// Package advisory 提供基于 LLM 的申诉评估意见客户端。
// 评估意见是可选输入：任何失败都只代表"本次不可用"，不影响主流程。
package advisory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"ticket-contest-api/internal/domain/entity"
	"ticket-contest-api/pkg/logger"
	"ticket-contest-api/pkg/metrics"
)

var tracer = otel.Tracer("advisory")

const systemPrompt = `You are an assistant that estimates how contestable a traffic ticket is.
Given the ticket facts and a set of similar past case outcomes, respond with a single JSON object:
{"score": <0-100 number>, "rationale": "<one short paragraph>", "factors": ["<factor>", ...]}
Respond with JSON only. Do not add markdown fences or commentary.`

// Result LLM 评估结果
type Result struct {
	Score     float64  `json:"score"`
	Rationale string   `json:"rationale"`
	Factors   []string `json:"factors"`
}

// ModelProvider ChatModel 提供方（port）
type ModelProvider interface {
	Default(ctx context.Context) (model.BaseChatModel, error)
}

// Advisor 评估意见客户端
type Advisor struct {
	provider ModelProvider
}

// NewAdvisor 创建评估意见客户端
func NewAdvisor(provider ModelProvider) *Advisor {
	return &Advisor{provider: provider}
}

// Assess 请求一次评估意见。返回 error 表示本次不可用，调用方降级处理。
func (a *Advisor) Assess(ctx context.Context, ticket *entity.Ticket, stats entity.OutcomeStats, cases []*entity.CandidateCase) (*Result, error) {
	if a == nil || a.provider == nil {
		return nil, fmt.Errorf("advisory provider not configured")
	}

	ctx, span := tracer.Start(ctx, "advisory.Assess")
	defer span.End()

	start := time.Now()
	chatModel, err := a.provider.Default(ctx)
	if err != nil {
		span.RecordError(err)
		metrics.AdvisoryCallTotal.WithLabelValues("unavailable").Inc()
		return nil, fmt.Errorf("failed to get chat model: %w", err)
	}

	msgs := []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(buildUserPrompt(ticket, stats, cases)),
	}

	outMsg, err := chatModel.Generate(ctx, msgs)
	if err != nil {
		span.RecordError(err)
		metrics.AdvisoryCallTotal.WithLabelValues("unavailable").Inc()
		return nil, fmt.Errorf("advisory generation failed: %w", err)
	}
	if outMsg == nil || strings.TrimSpace(outMsg.Content) == "" {
		metrics.AdvisoryCallTotal.WithLabelValues("unavailable").Inc()
		return nil, fmt.Errorf("empty advisory response")
	}

	result, err := ParseResult(outMsg.Content)
	if err != nil {
		logger.Warn(ctx, "advisory output not parseable", "error", err.Error())
		metrics.AdvisoryCallTotal.WithLabelValues("unavailable").Inc()
		return nil, err
	}

	span.SetAttributes(
		attribute.Float64("advisory.score", result.Score),
		attribute.Int64("advisory.duration_ms", time.Since(start).Milliseconds()),
	)
	metrics.AdvisoryCallTotal.WithLabelValues("ok").Inc()
	return result, nil
}

func buildUserPrompt(ticket *entity.Ticket, stats entity.OutcomeStats, cases []*entity.CandidateCase) string {
	var b strings.Builder

	b.WriteString("Ticket:\n")
	fmt.Fprintf(&b, "- violation: %s\n", ticket.Violation)
	fmt.Fprintf(&b, "- jurisdiction: %s\n", ticket.Jurisdiction)
	if ticket.MeasuredSpeed > 0 {
		fmt.Fprintf(&b, "- measured_speed: %d, posted_speed: %d\n", ticket.MeasuredSpeed, ticket.PostedSpeed)
	}
	if ticket.LocationText != "" {
		fmt.Fprintf(&b, "- location: %s\n", ticket.LocationText)
	}
	if ticket.DeviceText != "" {
		fmt.Fprintf(&b, "- device: %s\n", ticket.DeviceText)
	}
	if ticket.ContextText != "" {
		fmt.Fprintf(&b, "- context: %s\n", ticket.ContextText)
	}

	fmt.Fprintf(&b, "\nPrecedent outcomes: %d total, %d favorable, %d unfavorable\n",
		stats.Total, stats.Favorable, stats.Unfavorable)

	if len(cases) > 0 {
		b.WriteString("\nTop similar cases:\n")
		limit := len(cases)
		if limit > 5 {
			limit = 5
		}
		for _, c := range cases[:limit] {
			fmt.Fprintf(&b, "- [%s] %s: %s\n", c.Outcome, c.Citation, truncate(c.Summary, 240))
		}
	}

	return b.String()
}

func truncate(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	n := 0
	for i := range s {
		if n == maxRunes {
			return s[:i]
		}
		n++
	}
	return s
}
