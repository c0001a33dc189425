package buildevents

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventText(t *testing.T) {
	tests := []struct {
		name  string
		event Event
		want  string
	}{
		{
			name:  "warning with location",
			event: &WarningEvent{Code: "BC0101", File: FileInfo{File: "a.proj", Line: 3, Column: 5}, Message: "conflict"},
			want:  "a.proj(3,5): warning BC0101: conflict",
		},
		{
			name:  "error with line",
			event: &ErrorEvent{Code: "BC0201", File: FileInfo{File: "a.proj", Line: 9}, Message: "undefined"},
			want:  "a.proj(9): error BC0201: undefined",
		},
		{
			name:  "message with file",
			event: &MessageEvent{Code: "COND0543", File: FileInfo{File: "a.proj"}, Message: "info"},
			want:  "a.proj: message COND0543: info",
		},
		{
			name:  "warning without code or location",
			event: &WarningEvent{Message: "The check 'X' failed"},
			want:  "warning: The check 'X' failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.event.Text())
		})
	}
}

func TestSessionContext(t *testing.T) {
	ctx := SessionContext("s1")
	assert.Equal(t, "s1", ctx.SessionID)
	assert.Equal(t, InvalidID, ctx.NodeID)
	assert.Equal(t, InvalidID, ctx.EvaluationID)
	assert.Equal(t, InvalidID, ctx.ProjectInstanceID)
}

func TestImportance_String(t *testing.T) {
	assert.Equal(t, "high", ImportanceHigh.String())
	assert.Equal(t, "normal", ImportanceNormal.String())
	assert.Equal(t, "low", ImportanceLow.String())
}
