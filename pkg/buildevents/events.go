package buildevents

import (
	"fmt"
	"strings"
	"time"
)

// Context identifies the node and project an event belongs to.
type Context struct {
	SessionID         string
	NodeID            int
	EvaluationID      int
	ProjectInstanceID int
}

// InvalidID marks a context field that does not apply.
const InvalidID = -1

// SessionContext returns a context that is not attached to any project.
func SessionContext(sessionID string) Context {
	return Context{
		SessionID:         sessionID,
		NodeID:            InvalidID,
		EvaluationID:      InvalidID,
		ProjectInstanceID: InvalidID,
	}
}

// Importance controls the verbosity at which a message is shown.
type Importance int

const (
	ImportanceHigh Importance = iota
	ImportanceNormal
	ImportanceLow
)

func (i Importance) String() string {
	switch i {
	case ImportanceHigh:
		return "high"
	case ImportanceNormal:
		return "normal"
	default:
		return "low"
	}
}

// FileInfo is the file position attached to an event.
type FileInfo struct {
	File   string
	Line   int
	Column int
}

// String renders the position as file(line,col), omitting unknown parts.
func (f FileInfo) String() string {
	switch {
	case f.File == "":
		return ""
	case f.Line <= 0:
		return f.File
	case f.Column <= 0:
		return fmt.Sprintf("%s(%d)", f.File, f.Line)
	default:
		return fmt.Sprintf("%s(%d,%d)", f.File, f.Line, f.Column)
	}
}

// Event is implemented by every build event.
type Event interface {
	EventContext() Context
	Text() string
}

// MessageEvent is an informational build message.
type MessageEvent struct {
	Context    Context
	Importance Importance
	Code       string
	File       FileInfo
	Message    string
	Timestamp  time.Time
}

func (e *MessageEvent) EventContext() Context { return e.Context }

func (e *MessageEvent) Text() string {
	return formatText(e.File, "message", e.Code, e.Message)
}

// WarningEvent is a build warning.
type WarningEvent struct {
	Context   Context
	Code      string
	File      FileInfo
	Message   string
	Timestamp time.Time
}

func (e *WarningEvent) EventContext() Context { return e.Context }

func (e *WarningEvent) Text() string {
	return formatText(e.File, "warning", e.Code, e.Message)
}

// ErrorEvent is a build error.
type ErrorEvent struct {
	Context   Context
	Code      string
	File      FileInfo
	Message   string
	Timestamp time.Time
}

func (e *ErrorEvent) EventContext() Context { return e.Context }

func (e *ErrorEvent) Text() string {
	return formatText(e.File, "error", e.Code, e.Message)
}

func formatText(file FileInfo, category, code, message string) string {
	var b strings.Builder
	if loc := file.String(); loc != "" {
		b.WriteString(loc)
		b.WriteString(": ")
	}
	b.WriteString(category)
	if code != "" {
		b.WriteString(" ")
		b.WriteString(code)
	}
	b.WriteString(": ")
	b.WriteString(message)
	return b.String()
}
