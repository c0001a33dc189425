package buildcheck

import "fmt"

// Rule describes a single diagnostic a check can report.
// Rules are declared once by their check and never mutated afterwards.
type Rule struct {
	// ID is unique across all checks in a session (e.g. "BC0101").
	ID          string
	Title       string
	Description string
	// MessageFormat is a fmt template applied to the result arguments.
	MessageFormat string
	// DefaultConfiguration holds the author defaults; unset fields fall back to
	// the system defaults.
	DefaultConfiguration Configuration
}

// Location points at the element a result refers to.
// The zero value means the result applies to the whole project.
type Location struct {
	File   string
	Line   int
	Column int
}

// IsEmpty reports whether the location carries no file information.
func (l Location) IsEmpty() bool {
	return l.File == ""
}

// String renders the location as file(line,col), omitting unknown parts.
func (l Location) String() string {
	switch {
	case l.File == "":
		return ""
	case l.Line <= 0:
		return l.File
	case l.Column <= 0:
		return fmt.Sprintf("%s(%d)", l.File, l.Line)
	default:
		return fmt.Sprintf("%s(%d,%d)", l.File, l.Line, l.Column)
	}
}

// Result is a finding reported by a check.
type Result struct {
	RuleID   string
	Location Location
	// Message is a fmt template; when Args is empty it is used verbatim.
	Message string
	Args    []any
}

// NewResult creates a result that formats the rule's message template with args.
func NewResult(rule Rule, location Location, args ...any) Result {
	return Result{
		RuleID:   rule.ID,
		Location: location,
		Message:  rule.MessageFormat,
		Args:     args,
	}
}
