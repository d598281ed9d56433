// Package entity 定义领域实体
package entity

import (
	"strings"
	"time"

	"ticket-contest-api/pkg/errors"
)

// ViolationCategory 违章类别
type ViolationCategory string

const (
	CategorySpeeding   ViolationCategory = "speeding"
	CategorySignal     ViolationCategory = "signal"
	CategoryDeviceUse  ViolationCategory = "device_use"
	CategoryImpairment ViolationCategory = "impairment"
	CategoryStopSign   ViolationCategory = "stop_sign"
	CategoryParking    ViolationCategory = "parking"
	CategoryGeneric    ViolationCategory = "generic"
)

// Ticket 交通违章工单（本服务的不可变输入）
type Ticket struct {
	ID           string    `json:"id"`
	Violation    string    `json:"violation"`
	Jurisdiction string    `json:"jurisdiction"`
	LocationText string    `json:"location_text,omitempty"`
	DeviceText   string    `json:"device_text,omitempty"`
	VehicleText  string    `json:"vehicle_text,omitempty"`
	MeasuredSpeed int      `json:"measured_speed,omitempty"` // 0 表示不适用
	PostedSpeed   int      `json:"posted_speed,omitempty"`   // 0 表示不适用
	ContextText   string   `json:"context_text,omitempty"`
	IssuedAt      time.Time `json:"issued_at,omitempty"`
}

// Validate 校验工单输入。这是整条流水线唯一的致命校验：
// 工单不合法直接拒绝，其余故障一律降级处理。
func (t *Ticket) Validate() error {
	if t == nil {
		return errors.ErrInvalidTicket.WithDetail("ticket is nil")
	}
	if strings.TrimSpace(t.Violation) == "" {
		return errors.ErrInvalidTicket.WithDetail("violation text is required")
	}
	if strings.TrimSpace(t.Jurisdiction) == "" {
		return errors.ErrInvalidTicket.WithDetail("jurisdiction is required")
	}
	if t.MeasuredSpeed < 0 || t.PostedSpeed < 0 {
		return errors.ErrInvalidTicket.WithDetail("speed values cannot be negative")
	}
	if t.MeasuredSpeed > 0 && t.PostedSpeed > 0 && t.MeasuredSpeed < t.PostedSpeed {
		return errors.ErrInvalidTicket.WithDetail("measured speed below posted speed")
	}
	return nil
}

// SpeedOver 返回超速幅度；不适用时返回 0
func (t *Ticket) SpeedOver() int {
	if t.MeasuredSpeed <= 0 || t.PostedSpeed <= 0 {
		return 0
	}
	over := t.MeasuredSpeed - t.PostedSpeed
	if over < 0 {
		return 0
	}
	return over
}

// SearchText 返回参与文本匹配的全部字段拼接（小写）
func (t *Ticket) SearchText() string {
	parts := []string{t.Violation, t.LocationText, t.DeviceText, t.VehicleText, t.ContextText}
	return strings.ToLower(strings.Join(parts, " "))
}
