package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platinummonkey/buildcheck/pkg/buildcheck"
)

func TestResolveRule(t *testing.T) {
	tests := []struct {
		name          string
		authorDefault buildcheck.Configuration
		override      buildcheck.Configuration
		want          buildcheck.EffectiveConfiguration
	}{
		{
			name: "system defaults",
			want: buildcheck.EffectiveConfiguration{RuleID: "R", IsEnabled: false, Severity: buildcheck.SeverityInfo, EvaluationScope: buildcheck.ScopeProjectFileOnly},
		},
		{
			name:          "author defaults",
			authorDefault: buildcheck.Configuration{IsEnabled: buildcheck.Bool(true), Severity: buildcheck.SeverityWarning, EvaluationScope: buildcheck.ScopeAll},
			want:          buildcheck.EffectiveConfiguration{RuleID: "R", IsEnabled: true, Severity: buildcheck.SeverityWarning, EvaluationScope: buildcheck.ScopeAll},
		},
		{
			name:          "override wins",
			authorDefault: buildcheck.Configuration{IsEnabled: buildcheck.Bool(true), Severity: buildcheck.SeverityWarning},
			override:      buildcheck.Configuration{IsEnabled: buildcheck.Bool(false), Severity: buildcheck.SeverityError},
			want:          buildcheck.EffectiveConfiguration{RuleID: "R", IsEnabled: false, Severity: buildcheck.SeverityError, EvaluationScope: buildcheck.ScopeProjectFileOnly},
		},
		{
			name:          "fields resolve independently",
			authorDefault: buildcheck.Configuration{Severity: buildcheck.SeverityWarning},
			override:      buildcheck.Configuration{IsEnabled: buildcheck.Bool(true)},
			want:          buildcheck.EffectiveConfiguration{RuleID: "R", IsEnabled: true, Severity: buildcheck.SeverityWarning, EvaluationScope: buildcheck.ScopeProjectFileOnly},
		},
		{
			name:          "explicit false override",
			authorDefault: buildcheck.Configuration{IsEnabled: buildcheck.Bool(true)},
			override:      buildcheck.Configuration{IsEnabled: buildcheck.Bool(false)},
			want:          buildcheck.EffectiveConfiguration{RuleID: "R", IsEnabled: false, Severity: buildcheck.SeverityInfo, EvaluationScope: buildcheck.ScopeProjectFileOnly},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveRule("R", tt.authorDefault, tt.override))
		})
	}
}

func TestResolve(t *testing.T) {
	defaults := map[string]buildcheck.Configuration{
		"BC0101": {IsEnabled: buildcheck.Bool(true), Severity: buildcheck.SeverityWarning},
	}
	overrides := map[string]buildcheck.Configuration{
		"BC0101": {Severity: buildcheck.SeverityError},
		"BLA":    {IsEnabled: buildcheck.Bool(true)},
	}

	got := Resolve(defaults, overrides)
	require.Len(t, got, 2)
	assert.True(t, got["BC0101"].IsEnabled)
	assert.Equal(t, buildcheck.SeverityError, got["BC0101"].Severity)

	// Settings for undeclared rules resolve but belong to no check.
	assert.True(t, got["BLA"].IsEnabled)
	assert.Equal(t, buildcheck.SeverityInfo, got["BLA"].Severity)
}

func TestResolveRules(t *testing.T) {
	rules := []buildcheck.Rule{
		{ID: "COND0543", DefaultConfiguration: buildcheck.Configuration{IsEnabled: buildcheck.Bool(true)}},
		{ID: "BC0101", DefaultConfiguration: buildcheck.Configuration{Severity: buildcheck.SeverityWarning}},
	}
	settings := ParseRuleSettings("", map[string]string{
		"build_check.COND0543.IsEnabled":    "false",
		"build_check.COND0543.CustomSwitch": "QWERTY",
		"build_check.BLA.IsEnabled":         "true",
	})

	got := ResolveRules(rules, settings)
	require.Len(t, got, 2)

	assert.Equal(t, "COND0543", got[0].RuleID)
	assert.False(t, got[0].IsEnabled)
	assert.Equal(t, map[string]string{"CustomSwitch": "QWERTY"}, got[0].Custom)

	assert.Equal(t, "BC0101", got[1].RuleID)
	assert.False(t, got[1].IsEnabled)
	assert.Equal(t, buildcheck.SeverityWarning, got[1].Severity)
	assert.Nil(t, got[1].Custom)

	// Custom values are copied.
	got[0].Custom["CustomSwitch"] = "changed"
	assert.Equal(t, "QWERTY", settings["COND0543"].Custom["CustomSwitch"])
}

func TestResolveRules_RuleIDCase(t *testing.T) {
	rules := []buildcheck.Rule{
		{ID: "BC0101", DefaultConfiguration: buildcheck.Configuration{IsEnabled: buildcheck.Bool(true), Severity: buildcheck.SeverityWarning}},
	}
	settings := ParseRuleSettings("", map[string]string{
		"build_check.bc0101.IsEnabled":    "false",
		"build_check.bc0101.CustomSwitch": "on",
	})

	got := ResolveRules(rules, settings)
	require.Len(t, got, 1)
	assert.Equal(t, "BC0101", got[0].RuleID)
	assert.False(t, got[0].IsEnabled)
	assert.Equal(t, buildcheck.SeverityWarning, got[0].Severity)
	assert.Equal(t, map[string]string{"CustomSwitch": "on"}, got[0].Custom)
}
