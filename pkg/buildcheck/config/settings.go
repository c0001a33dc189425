package config

import (
	"sort"
	"strings"

	"github.com/platinummonkey/buildcheck/pkg/buildcheck"
)

// DefaultNamespace prefixes rule keys when no namespace is configured.
const DefaultNamespace = "build_check"

const (
	keyIsEnabled       = "isenabled"
	keySeverity        = "severity"
	keyEvaluationScope = "evaluationanalysisscope"
)

// RuleSettings is the user configuration of one rule as parsed from flat keys.
type RuleSettings struct {
	RuleID        string
	Configuration buildcheck.Configuration
	Custom        map[string]string
}

// ParseRuleSettings groups the keys under namespace by rule id. Keys outside the
// namespace, or without a property part, are ignored.
func ParseRuleSettings(namespace string, settings map[string]string) map[string]RuleSettings {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	prefix := strings.ToLower(namespace) + "."

	result := make(map[string]RuleSettings)
	for key, value := range settings {
		if len(key) <= len(prefix) || strings.ToLower(key[:len(prefix)]) != prefix {
			continue
		}

		ruleID, property, ok := strings.Cut(key[len(prefix):], ".")
		if !ok || ruleID == "" || property == "" {
			continue
		}

		rs, exists := result[ruleID]
		if !exists {
			rs = RuleSettings{RuleID: ruleID}
		}
		applySetting(&rs, property, value)
		result[ruleID] = rs
	}
	return result
}

func applySetting(rs *RuleSettings, property, value string) {
	switch strings.ToLower(property) {
	case keyIsEnabled:
		if v, ok := buildcheck.ParseBool(value); ok {
			rs.Configuration.IsEnabled = buildcheck.Bool(v)
		}
	case keySeverity:
		if v, ok := buildcheck.ParseSeverity(value); ok {
			rs.Configuration.Severity = v
		}
	case keyEvaluationScope:
		if v, ok := buildcheck.ParseEvaluationScope(value); ok {
			rs.Configuration.EvaluationScope = v
		}
	default:
		if rs.Custom == nil {
			rs.Custom = make(map[string]string)
		}
		rs.Custom[property] = value
	}
}

// Lookup returns the settings of ruleID. Rule ids match case-insensitively:
// every spelling is merged field by field in sorted order, with the exact
// spelling applied last.
func Lookup(settings map[string]RuleSettings, ruleID string) (RuleSettings, bool) {
	var variants []string
	for id := range settings {
		if id != ruleID && strings.EqualFold(id, ruleID) {
			variants = append(variants, id)
		}
	}
	exact, hasExact := settings[ruleID]
	if len(variants) == 0 {
		return exact, hasExact
	}
	sort.Strings(variants)

	merged := RuleSettings{RuleID: ruleID}
	for _, id := range variants {
		mergeSettings(&merged, settings[id])
	}
	if hasExact {
		mergeSettings(&merged, exact)
	}
	return merged, true
}

func mergeSettings(dst *RuleSettings, src RuleSettings) {
	if src.Configuration.IsEnabled != nil {
		dst.Configuration.IsEnabled = src.Configuration.IsEnabled
	}
	if src.Configuration.Severity != buildcheck.SeverityDefault {
		dst.Configuration.Severity = src.Configuration.Severity
	}
	if src.Configuration.EvaluationScope != buildcheck.ScopeDefault {
		dst.Configuration.EvaluationScope = src.Configuration.EvaluationScope
	}
	for k, v := range src.Custom {
		if dst.Custom == nil {
			dst.Custom = make(map[string]string)
		}
		dst.Custom[k] = v
	}
}

// Overrides extracts the partial configurations from parsed settings.
func Overrides(settings map[string]RuleSettings) map[string]buildcheck.Configuration {
	overrides := make(map[string]buildcheck.Configuration, len(settings))
	for id, rs := range settings {
		overrides[id] = rs.Configuration
	}
	return overrides
}
