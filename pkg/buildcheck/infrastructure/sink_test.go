package infrastructure

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platinummonkey/buildcheck/pkg/buildcheck"
	"github.com/platinummonkey/buildcheck/pkg/buildcheck/config"
	"github.com/platinummonkey/buildcheck/pkg/buildevents"
	"github.com/platinummonkey/buildcheck/pkg/observability"
)

func TestInScope(t *testing.T) {
	scope := ProjectScope{ProjectFile: "/repo/src/app/app.proj", WorkTreeRoot: "/repo"}

	tests := []struct {
		name    string
		scope   buildcheck.EvaluationScope
		file    string
		project ProjectScope
		want    bool
	}{
		{name: "project file", scope: buildcheck.ScopeProjectFileOnly, file: "/repo/src/app/app.proj", project: scope, want: true},
		{name: "unclean project path", scope: buildcheck.ScopeProjectFileOnly, file: "/repo/src/app/../app/app.proj", project: scope, want: true},
		{name: "import excluded", scope: buildcheck.ScopeProjectFileOnly, file: "/repo/build/common.props", project: scope, want: false},
		{name: "work tree import", scope: buildcheck.ScopeWorkTreeImports, file: "/repo/build/common.props", project: scope, want: true},
		{name: "outside work tree", scope: buildcheck.ScopeWorkTreeImports, file: "/sdk/Sdk.targets", project: scope, want: false},
		{name: "sibling prefix", scope: buildcheck.ScopeWorkTreeImports, file: "/repository/x.props", project: scope, want: false},
		{name: "default work tree is project dir", scope: buildcheck.ScopeWorkTreeImports, file: "/repo/src/app/Directory.props",
			project: ProjectScope{ProjectFile: "/repo/src/app/app.proj"}, want: true},
		{name: "default work tree excludes parent", scope: buildcheck.ScopeWorkTreeImports, file: "/repo/build/common.props",
			project: ProjectScope{ProjectFile: "/repo/src/app/app.proj"}, want: false},
		{name: "all", scope: buildcheck.ScopeAll, file: "/sdk/Sdk.targets", project: scope, want: true},
		{name: "no project", scope: buildcheck.ScopeProjectFileOnly, file: "/anything", project: ProjectScope{}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, inScope(tt.scope, tt.file, tt.project))
		})
	}
}

func TestFormatMessage(t *testing.T) {
	assert.Equal(t, "100% literal", formatMessage(buildcheck.Result{Message: "100% literal"}))
	assert.Equal(t, "a and b", formatMessage(buildcheck.Result{Message: "%s and %s", Args: []any{"a", "b"}}))

	rule := buildcheck.Rule{ID: "X01", MessageFormat: "Property '%s' is not defined."}
	assert.Equal(t, "Property 'Foo' is not defined.", formatMessage(buildcheck.NewResult(rule, buildcheck.Location{}, "Foo")))
}

func TestManager_Metrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(registry)
	recorder := buildevents.NewRecorder()

	m := NewManager(Options{
		Dispatcher: recorder,
		Metrics:    metrics,
		Config: config.MapProvider{
			"build_check.X02.IsEnabled": "false",
		},
	})

	mustRegister(t, m, onEvaluated("Reporter", []buildcheck.Rule{
		rule("X01", true, buildcheck.SeverityWarning),
		rule("X02", true, buildcheck.SeverityWarning),
	}, nil, reportAll(
		buildcheck.Result{RuleID: "X01", Message: "kept"},
		buildcheck.Result{RuleID: "X02", Message: "disabled"},
		buildcheck.Result{RuleID: "X01", Location: buildcheck.Location{File: "/elsewhere/x.props"}, Message: "out of scope"},
	)))
	w := mustRegister(t, m, onEvaluated("Faulty", []buildcheck.Rule{rule("X03", true, buildcheck.SeverityInfo)}, nil,
		func(*buildcheck.DataContext[buildcheck.EvaluatedPropertiesData]) error {
			panic("broken")
		}))

	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.ChecksActive))

	dispatchEvaluated(t, m, project("/src/a/a.proj"))
	require.True(t, w.IsFaulted())

	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.DiagnosticsTotal.WithLabelValues("X01", "warning")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.DiagnosticsDroppedTotal.WithLabelValues("X02", "disabled")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.DiagnosticsDroppedTotal.WithLabelValues("X01", "scope")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.CheckFaultsTotal.WithLabelValues("Faulty", "execution")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.DispatchesTotal.WithLabelValues("Reporter", "EvaluatedProperties")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.ChecksActive))
	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.ConfigResolutions))

	// Cached configuration is not resolved again.
	dispatchEvaluated(t, m, project("/src/a/a.proj"))
	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.ConfigResolutions))

	_, err := m.RegisterCheck(context.Background(), onEvaluated("Dup", []buildcheck.Rule{rule("X01", true, buildcheck.SeverityInfo)}, nil, nil))
	require.Error(t, err)
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.CheckFaultsTotal.WithLabelValues("Dup", "configuration")))
}
