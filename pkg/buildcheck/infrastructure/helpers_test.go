package infrastructure

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/platinummonkey/buildcheck/pkg/buildcheck"
	"github.com/platinummonkey/buildcheck/pkg/buildcheck/config"
	"github.com/platinummonkey/buildcheck/pkg/buildevents"
)

func rule(id string, enabled bool, severity buildcheck.Severity) buildcheck.Rule {
	return buildcheck.Rule{
		ID:            id,
		Title:         id,
		MessageFormat: "%s",
		DefaultConfiguration: buildcheck.Configuration{
			IsEnabled: buildcheck.Bool(enabled),
			Severity:  severity,
		},
	}
}

// fakeCheck is a check whose behaviour is supplied by the test.
type fakeCheck struct {
	name     string
	rules    []buildcheck.Rule
	initErr  error
	register func(rc buildcheck.RegistrationContext) error

	mu          sync.Mutex
	initialized []buildcheck.ConfigurationContext
}

func (c *fakeCheck) FriendlyName() string              { return c.name }
func (c *fakeCheck) SupportedRules() []buildcheck.Rule { return c.rules }

func (c *fakeCheck) Initialize(ctx buildcheck.ConfigurationContext) error {
	c.mu.Lock()
	c.initialized = append(c.initialized, ctx)
	c.mu.Unlock()
	return c.initErr
}

func (c *fakeCheck) RegisterActions(rc buildcheck.RegistrationContext) error {
	if c.register == nil {
		return nil
	}
	return c.register(rc)
}

// onEvaluated builds a check that runs action for every EvaluatedProperties event
// and counts its invocations.
func onEvaluated(name string, rules []buildcheck.Rule, calls *atomic.Int32, action buildcheck.Action[buildcheck.EvaluatedPropertiesData]) *fakeCheck {
	return &fakeCheck{
		name:  name,
		rules: rules,
		register: func(rc buildcheck.RegistrationContext) error {
			return rc.RegisterEvaluatedPropertiesAction(func(ctx *buildcheck.DataContext[buildcheck.EvaluatedPropertiesData]) error {
				if calls != nil {
					calls.Add(1)
				}
				if action == nil {
					return nil
				}
				return action(ctx)
			})
		},
	}
}

func reportAll(results ...buildcheck.Result) buildcheck.Action[buildcheck.EvaluatedPropertiesData] {
	return func(ctx *buildcheck.DataContext[buildcheck.EvaluatedPropertiesData]) error {
		for _, r := range results {
			if err := ctx.ReportResult(r); err != nil {
				return err
			}
		}
		return nil
	}
}

type fakeTelemetry struct {
	mu       sync.Mutex
	sessions []buildcheck.TracingData
	failed   map[string]error
}

func (f *fakeTelemetry) DispatchTelemetry(data buildcheck.TracingData) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions = append(f.sessions, data)
}

func (f *fakeTelemetry) DispatchFailedAcquisitionTelemetry(name string, cause error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failed == nil {
		f.failed = make(map[string]error)
	}
	f.failed[name] = cause
}

func newTestManager(t *testing.T, settings map[string]string) (*Manager, *buildevents.Recorder) {
	t.Helper()
	recorder := buildevents.NewRecorder()
	m := NewManager(Options{
		Dispatcher: recorder,
		Config:     config.MapProvider(settings),
		SessionID:  "test-session",
	})
	return m, recorder
}

func mustRegister(t *testing.T, m *Manager, check buildcheck.Check) *CheckWrapper {
	t.Helper()
	w, err := m.RegisterCheck(context.Background(), check)
	require.NoError(t, err)
	require.Equal(t, StateActive, w.State())
	return w
}

func project(file string) ProjectScope {
	return ProjectScope{
		ProjectFile: file,
		EventContext: buildevents.Context{
			SessionID:         "test-session",
			NodeID:            1,
			EvaluationID:      1,
			ProjectInstanceID: 1,
		},
	}
}

func dispatchEvaluated(t *testing.T, m *Manager, scope ProjectScope) {
	t.Helper()
	require.NoError(t, m.Dispatch(context.Background(), scope, buildcheck.EvaluatedPropertiesData{
		Properties: map[string]string{"Configuration": "Debug"},
	}))
}
