package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTicketValidate(t *testing.T) {
	tests := []struct {
		name    string
		ticket  *Ticket
		wantErr bool
	}{
		{"valid minimal", &Ticket{Violation: "speeding", Jurisdiction: "CA"}, false},
		{"valid with speeds", &Ticket{Violation: "speeding", Jurisdiction: "CA", MeasuredSpeed: 80, PostedSpeed: 65}, false},
		{"nil", nil, true},
		{"blank violation", &Ticket{Violation: "  ", Jurisdiction: "CA"}, true},
		{"blank jurisdiction", &Ticket{Violation: "speeding", Jurisdiction: ""}, true},
		{"negative measured", &Ticket{Violation: "speeding", Jurisdiction: "CA", MeasuredSpeed: -1}, true},
		{"measured below posted", &Ticket{Violation: "speeding", Jurisdiction: "CA", MeasuredSpeed: 50, PostedSpeed: 65}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ticket.Validate()
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestTicketSpeedOver(t *testing.T) {
	assert.Equal(t, 15, (&Ticket{MeasuredSpeed: 55, PostedSpeed: 40}).SpeedOver())
	// 任一速度缺失时不适用
	assert.Zero(t, (&Ticket{MeasuredSpeed: 55}).SpeedOver())
	assert.Zero(t, (&Ticket{PostedSpeed: 40}).SpeedOver())
	assert.Zero(t, (&Ticket{}).SpeedOver())
}

func TestTicketSearchText(t *testing.T) {
	ticket := &Ticket{
		Violation:   "Speeding",
		DeviceText:  "RADAR Unit 7",
		ContextText: "School zone",
	}
	text := ticket.SearchText()
	assert.Contains(t, text, "speeding")
	assert.Contains(t, text, "radar unit 7")
	assert.Contains(t, text, "school zone")
}
