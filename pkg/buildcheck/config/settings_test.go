package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platinummonkey/buildcheck/pkg/buildcheck"
)

func TestParseRuleSettings(t *testing.T) {
	settings := map[string]string{
		"build_check.BC0101.IsEnabled":                 "TRUE",
		"build_check.BC0101.severity":                  "warning",
		"BUILD_CHECK.BC0101.EvaluationAnalysisScope":   "AnalyzedProjectWithAllImports",
		"build_check.COND0543.Severity":                "loud",
		"build_check.COND0543.IsEnabled":               "maybe",
		"build_check.COND0543.CustomSwitch":            "QWERTY",
		"build_check.COND0543.EvaluationAnalysisScope": "nowhere",
		"build_check.NoProperty":                       "x",
		"build_check..IsEnabled":                       "true",
		"other.BC0101.IsEnabled":                       "false",
		"indent_style":                                 "space",
	}

	got := ParseRuleSettings("", settings)
	require.Len(t, got, 2)

	bc := got["BC0101"]
	require.NotNil(t, bc.Configuration.IsEnabled)
	assert.True(t, *bc.Configuration.IsEnabled)
	assert.Equal(t, buildcheck.SeverityWarning, bc.Configuration.Severity)
	assert.Equal(t, buildcheck.ScopeAll, bc.Configuration.EvaluationScope)
	assert.Empty(t, bc.Custom)

	cond := got["COND0543"]
	assert.True(t, cond.Configuration.IsEmpty(), "unparsable values are ignored")
	assert.Equal(t, map[string]string{"CustomSwitch": "QWERTY"}, cond.Custom)
}

func TestParseRuleSettings_Namespace(t *testing.T) {
	settings := map[string]string{
		"msbuild_analyzer.BC0101.IsEnabled": "false",
		"build_check.BC0101.IsEnabled":      "true",
	}

	got := ParseRuleSettings("msbuild_analyzer", settings)
	require.Len(t, got, 1)
	require.NotNil(t, got["BC0101"].Configuration.IsEnabled)
	assert.False(t, *got["BC0101"].Configuration.IsEnabled)

	overrides := Overrides(got)
	require.Contains(t, overrides, "BC0101")
	assert.False(t, *overrides["BC0101"].IsEnabled)
}

func TestLookup(t *testing.T) {
	settings := ParseRuleSettings("", map[string]string{
		"build_check.bc0101.IsEnabled": "false",
		"build_check.Bc0101.Severity":  "error",
		"build_check.COND0543.Mode":    "a",
		"build_check.cond0543.Mode":    "b",
	})

	rs, ok := Lookup(settings, "BC0101")
	require.True(t, ok)
	assert.Equal(t, "BC0101", rs.RuleID)
	require.NotNil(t, rs.Configuration.IsEnabled)
	assert.False(t, *rs.Configuration.IsEnabled)
	assert.Equal(t, buildcheck.SeverityError, rs.Configuration.Severity)

	rs, ok = Lookup(settings, "COND0543")
	require.True(t, ok)
	assert.Equal(t, "a", rs.Custom["Mode"], "exact spelling applies last")

	_, ok = Lookup(settings, "BC0102")
	assert.False(t, ok)
}

func TestParseRuleSettings_NumericBoolIgnored(t *testing.T) {
	got := ParseRuleSettings("", map[string]string{"build_check.BC0101.IsEnabled": "1"})
	assert.Nil(t, got["BC0101"].Configuration.IsEnabled)
}
