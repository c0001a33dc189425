package buildcheck

import (
	"strings"
)

// Severity is the level a diagnostic is surfaced with.
// The zero value means "not set" and defers to the next precedence level.
type Severity int

const (
	SeverityDefault Severity = iota
	SeverityInfo
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "default"
	}
}

// ParseSeverity parses a severity name case-insensitively.
// "Default" parses successfully to SeverityDefault.
func ParseSeverity(s string) (Severity, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "default":
		return SeverityDefault, true
	case "info", "suggestion":
		return SeverityInfo, true
	case "warning":
		return SeverityWarning, true
	case "error":
		return SeverityError, true
	}
	return SeverityDefault, false
}

// EvaluationScope limits which locations a rule reports on.
// The zero value means "not set".
type EvaluationScope int

const (
	ScopeDefault EvaluationScope = iota
	// ScopeProjectFileOnly keeps results located in the analyzed project file.
	ScopeProjectFileOnly
	// ScopeWorkTreeImports also keeps results from imports under the project work tree.
	ScopeWorkTreeImports
	// ScopeAll keeps results from every import.
	ScopeAll
)

func (s EvaluationScope) String() string {
	switch s {
	case ScopeProjectFileOnly:
		return "ProjectFileOnly"
	case ScopeWorkTreeImports:
		return "WorkTreeImports"
	case ScopeAll:
		return "All"
	default:
		return "Default"
	}
}

// ParseEvaluationScope parses a scope name case-insensitively, accepting the
// legacy analyzer spellings as aliases.
func ParseEvaluationScope(s string) (EvaluationScope, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "default":
		return ScopeDefault, true
	case "projectfileonly", "projectonly", "thisprojectonly", "analyzedprojectonly":
		return ScopeProjectFileOnly, true
	case "worktreeimports", "analyzedprojectwithimportsfromcurrentworktree":
		return ScopeWorkTreeImports, true
	case "all", "thisprojectandimports", "analyzedprojectwithallimports":
		return ScopeAll, true
	}
	return ScopeDefault, false
}

// ParseBool accepts only "true" and "false", case-insensitively.
func ParseBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true":
		return true, true
	case "false":
		return false, true
	}
	return false, false
}

// Configuration is a partial rule configuration. Unset fields defer to the next
// precedence level: user override, then author default, then system default.
type Configuration struct {
	IsEnabled       *bool
	Severity        Severity
	EvaluationScope EvaluationScope
}

// Bool returns a pointer to v, for populating Configuration.IsEnabled.
func Bool(v bool) *bool {
	return &v
}

// IsEmpty reports whether no field is set.
func (c Configuration) IsEmpty() bool {
	return c.IsEnabled == nil && c.Severity == SeverityDefault && c.EvaluationScope == ScopeDefault
}

// EffectiveConfiguration is the fully resolved configuration of one rule in one project.
type EffectiveConfiguration struct {
	RuleID          string
	IsEnabled       bool
	Severity        Severity
	EvaluationScope EvaluationScope
	// Custom holds unrecognized keys verbatim.
	Custom map[string]string
}

// SystemDefaults returns the values used when neither an override nor an author
// default sets a field.
func SystemDefaults() EffectiveConfiguration {
	return EffectiveConfiguration{
		IsEnabled:       false,
		Severity:        SeverityInfo,
		EvaluationScope: ScopeProjectFileOnly,
	}
}
