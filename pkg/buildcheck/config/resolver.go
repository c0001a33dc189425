package config

import (
	"github.com/platinummonkey/buildcheck/pkg/buildcheck"
)

// Resolve merges user overrides over author defaults, field by field.
// Ids present only in overrides are returned resolved against system defaults so
// that forward-declared settings stay inert but inspectable.
func Resolve(defaults, overrides map[string]buildcheck.Configuration) map[string]buildcheck.EffectiveConfiguration {
	result := make(map[string]buildcheck.EffectiveConfiguration, len(defaults)+len(overrides))
	for id, def := range defaults {
		result[id] = ResolveRule(id, def, overrides[id])
	}
	for id, override := range overrides {
		if _, declared := defaults[id]; declared {
			continue
		}
		result[id] = ResolveRule(id, buildcheck.Configuration{}, override)
	}
	return result
}

// ResolveRule resolves one rule: override, then author default, then system default.
func ResolveRule(ruleID string, authorDefault, override buildcheck.Configuration) buildcheck.EffectiveConfiguration {
	effective := buildcheck.SystemDefaults()
	effective.RuleID = ruleID

	switch {
	case override.IsEnabled != nil:
		effective.IsEnabled = *override.IsEnabled
	case authorDefault.IsEnabled != nil:
		effective.IsEnabled = *authorDefault.IsEnabled
	}

	switch {
	case override.Severity != buildcheck.SeverityDefault:
		effective.Severity = override.Severity
	case authorDefault.Severity != buildcheck.SeverityDefault:
		effective.Severity = authorDefault.Severity
	}

	switch {
	case override.EvaluationScope != buildcheck.ScopeDefault:
		effective.EvaluationScope = override.EvaluationScope
	case authorDefault.EvaluationScope != buildcheck.ScopeDefault:
		effective.EvaluationScope = authorDefault.EvaluationScope
	}

	return effective
}

// RuleDefaults builds the author default map for a set of rules.
func RuleDefaults(rules []buildcheck.Rule) map[string]buildcheck.Configuration {
	defaults := make(map[string]buildcheck.Configuration, len(rules))
	for _, rule := range rules {
		defaults[rule.ID] = rule.DefaultConfiguration
	}
	return defaults
}

// ResolveRules resolves every declared rule against parsed user settings and
// attaches each rule's custom keys.
func ResolveRules(rules []buildcheck.Rule, settings map[string]RuleSettings) []buildcheck.EffectiveConfiguration {
	resolved := Resolve(RuleDefaults(rules), overridesFor(rules, settings))

	result := make([]buildcheck.EffectiveConfiguration, 0, len(rules))
	for _, rule := range rules {
		effective := resolved[rule.ID]
		if rs, ok := Lookup(settings, rule.ID); ok && len(rs.Custom) > 0 {
			effective.Custom = copyMap(rs.Custom)
		}
		result = append(result, effective)
	}
	return result
}

func overridesFor(rules []buildcheck.Rule, settings map[string]RuleSettings) map[string]buildcheck.Configuration {
	overrides := make(map[string]buildcheck.Configuration, len(rules))
	for _, rule := range rules {
		if rs, ok := Lookup(settings, rule.ID); ok {
			overrides[rule.ID] = rs.Configuration
		}
	}
	return overrides
}

func copyMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
