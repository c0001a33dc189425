package buildcheck

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		in     string
		want   Severity
		wantOK bool
	}{
		{"Error", SeverityError, true},
		{"warning", SeverityWarning, true},
		{" INFO ", SeverityInfo, true},
		{"suggestion", SeverityInfo, true},
		{"Default", SeverityDefault, true},
		{"none", SeverityDefault, false},
		{"", SeverityDefault, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseSeverity(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseEvaluationScope(t *testing.T) {
	tests := []struct {
		in     string
		want   EvaluationScope
		wantOK bool
	}{
		{"ProjectFileOnly", ScopeProjectFileOnly, true},
		{"AnalyzedProjectOnly", ScopeProjectFileOnly, true},
		{"worktreeimports", ScopeWorkTreeImports, true},
		{"AnalyzedProjectWithImportsFromCurrentWorkTree", ScopeWorkTreeImports, true},
		{"All", ScopeAll, true},
		{"ThisProjectAndImports", ScopeAll, true},
		{"somewhere", ScopeDefault, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseEvaluationScope(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseBool(t *testing.T) {
	tests := []struct {
		in     string
		want   bool
		wantOK bool
	}{
		{in: "TRUE", want: true, wantOK: true},
		{in: " false ", want: false, wantOK: true},
		{in: "True", want: true, wantOK: true},
		{in: "yes"},
		{in: "1"},
		{in: "0"},
		{in: "t"},
		{in: "F"},
		{in: ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseBool(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSystemDefaults(t *testing.T) {
	d := SystemDefaults()
	assert.False(t, d.IsEnabled)
	assert.Equal(t, SeverityInfo, d.Severity)
	assert.Equal(t, ScopeProjectFileOnly, d.EvaluationScope)

	assert.True(t, Configuration{}.IsEmpty())
	assert.False(t, Configuration{IsEnabled: Bool(false)}.IsEmpty())
}

func TestStrings(t *testing.T) {
	assert.Equal(t, "warning", SeverityWarning.String())
	assert.Equal(t, "default", SeverityDefault.String())
	assert.Equal(t, "WorkTreeImports", ScopeWorkTreeImports.String())
	assert.Equal(t, "PropertyRead", EventPropertyRead.String())
	assert.Equal(t, "Unknown", NumEventKinds.String())
	assert.Equal(t, "condition", UsageCondition.String())
}
