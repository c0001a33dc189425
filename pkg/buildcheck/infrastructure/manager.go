package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/errgroup"

	"github.com/platinummonkey/buildcheck/pkg/buildcheck"
	"github.com/platinummonkey/buildcheck/pkg/buildcheck/config"
	"github.com/platinummonkey/buildcheck/pkg/buildevents"
	"github.com/platinummonkey/buildcheck/pkg/observability"
)

// ErrCancelled is returned by Manager entry points once the session is cancelled.
var ErrCancelled = errors.New("build check session cancelled")

// Options configures a Manager.
type Options struct {
	// Logger receives framework diagnostics. Nil discards.
	Logger logrus.FieldLogger
	// Dispatcher receives the build events produced by checks. Nil discards.
	Dispatcher buildevents.Dispatcher
	// Config supplies rule settings per project. Nil means no user settings.
	Config config.Provider
	// Namespace prefixes rule keys. Defaults to config.DefaultNamespace.
	Namespace string
	// Telemetry receives the session summary. Nil selects NoopTelemetry.
	Telemetry buildcheck.Telemetry
	// Metrics is optional.
	Metrics *observability.Metrics
	// Tracer wraps every action invocation in a span. Nil disables tracing.
	Tracer trace.Tracer
	// SessionID is generated when empty.
	SessionID string
}

// Manager owns one build check session: the registry, the dispatch table and
// the per-project configuration of every hosted check.
type Manager struct {
	log        logrus.FieldLogger
	dispatcher buildevents.Dispatcher
	provider   config.Provider
	namespace  string
	telemetry  buildcheck.Telemetry
	metrics    *observability.Metrics
	tracer     trace.Tracer
	sessionID  string

	registry *Registry
	central  centralContext
	isolator *Isolator
	session  *buildevents.DispatchingContext

	cancelled atomic.Bool
}

// NewManager creates a session.
func NewManager(opts Options) *Manager {
	if opts.Logger == nil {
		opts.Logger = discardLogger()
	}
	if opts.Dispatcher == nil {
		opts.Dispatcher = buildevents.Discard
	}
	if opts.Namespace == "" {
		opts.Namespace = config.DefaultNamespace
	}
	if opts.Telemetry == nil {
		opts.Telemetry = buildcheck.NoopTelemetry{}
	}
	if opts.Tracer == nil {
		opts.Tracer = noop.NewTracerProvider().Tracer(observability.InstrumentationName)
	}
	if opts.SessionID == "" {
		opts.SessionID = uuid.NewString()
	}

	log := opts.Logger.WithField("session", opts.SessionID)
	return &Manager{
		log:        log,
		dispatcher: opts.Dispatcher,
		provider:   opts.Config,
		namespace:  opts.Namespace,
		telemetry:  opts.Telemetry,
		metrics:    opts.Metrics,
		tracer:     opts.Tracer,
		sessionID:  opts.SessionID,
		registry:   NewRegistry(),
		isolator:   NewIsolator(log, opts.Metrics),
		session:    buildevents.NewDispatchingContext(opts.Dispatcher, buildevents.SessionContext(opts.SessionID)),
	}
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// SessionID returns the id stamped on session-level events.
func (m *Manager) SessionID() string { return m.sessionID }

// RegisterCheck registers, initializes and activates check.
//
// A *buildcheck.ConfigurationError means the check was rejected and never
// hosted. Any other error means the check faulted while initializing or
// registering; it stays in the registry in the Faulted state. In both cases
// one warning has been dispatched and the session continues.
func (m *Manager) RegisterCheck(ctx context.Context, check buildcheck.Check) (*CheckWrapper, error) {
	if err := m.live(ctx); err != nil {
		return nil, err
	}

	w, err := m.registry.Register(check)
	if err != nil {
		m.log.WithError(err).Warn("Check rejected")
		m.metrics.RecordFault(checkName(check), "configuration")
		m.session.DispatchWarning("", buildevents.FileInfo{}, fmt.Sprintf("The check could not be registered: %v", err))
		return nil, err
	}

	log := m.log.WithField("check", w.name)

	if !w.transition(StateUnregistered, StateInitializing) {
		return w, fmt.Errorf("check '%s' is in state %s", w.name, w.State())
	}

	configCtx, err := m.configurationContext(w)
	if err != nil {
		log.WithError(err).Warn("Failed to load rule settings; using defaults")
	}

	outcome := m.isolator.Guard(w, m.session, PhaseInitialization, registrationWrapper(w, "Initialize"), func() error {
		return w.check.Initialize(configCtx)
	})
	if outcome.Faulted {
		return w, outcome.Err
	}

	if !w.transition(StateInitializing, StateRegistering) {
		return w, w.FaultCause()
	}

	rc := &registrationContext{check: w, central: &m.central, isolator: m.isolator, sink: m.session}
	outcome = m.isolator.Guard(w, m.session, PhaseRegistration, registrationWrapper(w, "RegisterActions"), func() error {
		return w.check.RegisterActions(rc)
	})
	if outcome.Faulted {
		return w, outcome.Err
	}

	if !w.transition(StateRegistering, StateActive) {
		return w, w.FaultCause()
	}
	m.metrics.RecordActivated()
	log.WithField("rules", len(w.rules)).Debug("Check activated")
	return w, nil
}

func checkName(check buildcheck.Check) string {
	if check == nil {
		return ""
	}
	return check.FriendlyName()
}

// configurationContext collects the custom keys of w's rules from the settings
// that apply to every project.
func (m *Manager) configurationContext(w *CheckWrapper) (buildcheck.ConfigurationContext, error) {
	var settings map[string]string
	var err error
	if m.provider != nil {
		settings, err = m.provider.Settings("")
	}
	parsed := config.ParseRuleSettings(m.namespace, settings)

	configCtx := buildcheck.ConfigurationContext{}
	for _, rule := range w.rules {
		rs, _ := config.Lookup(parsed, rule.ID)
		configCtx.CustomConfiguration = append(configCtx.CustomConfiguration, buildcheck.CustomConfigurationData{
			RuleID: rule.ID,
			Values: copyValues(rs.Custom),
		})
	}
	return configCtx, err
}

// AcquireChecks constructs every catalog entry and registers it. Entries are
// processed concurrently; a factory failure is reported as failed acquisition
// and does not stop the others.
func (m *Manager) AcquireChecks(ctx context.Context, catalog *Catalog) error {
	if err := m.live(ctx); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, name := range catalog.Names() {
		factory, ok := catalog.Factory(name)
		if !ok {
			continue
		}
		g.Go(func() error {
			var check buildcheck.Check
			err := observability.Safely(func() error {
				var ferr error
				check, ferr = factory()
				return ferr
			})
			if err == nil && check == nil {
				err = errors.New("factory returned no check")
			}
			if err != nil {
				m.log.WithField("check", name).WithError(err).Warn("Failed to acquire check")
				m.telemetry.DispatchFailedAcquisitionTelemetry(name, err)
				m.session.DispatchWarning("", buildevents.FileInfo{}, fmt.Sprintf("Failed to acquire the check '%s': %v", name, err))
				return nil
			}

			_, err = m.RegisterCheck(gctx, check)
			if errors.Is(err, ErrCancelled) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			return nil
		})
	}
	return g.Wait()
}

// Dispatch delivers one evaluation event for the project in scope to every
// active check registered for its kind. Check failures are contained; the
// returned error only reports cancellation or an unknown payload type.
func (m *Manager) Dispatch(ctx context.Context, scope ProjectScope, data buildcheck.EventData) error {
	if err := m.live(ctx); err != nil {
		return err
	}

	switch d := data.(type) {
	case buildcheck.EvaluatedPropertiesData:
		dispatchTo(ctx, m, scope, &m.central.evaluatedProperties, d)
	case buildcheck.ParsedItemsData:
		dispatchTo(ctx, m, scope, &m.central.parsedItems, d)
	case buildcheck.PropertyReadData:
		dispatchTo(ctx, m, scope, &m.central.propertyRead, d)
	case buildcheck.PropertyWriteData:
		dispatchTo(ctx, m, scope, &m.central.propertyWrite, d)
	case buildcheck.ProjectProcessingDoneData:
		dispatchTo(ctx, m, scope, &m.central.projectProcessingDone, d)
	default:
		return fmt.Errorf("unsupported event data %T", data)
	}
	return nil
}

// HasRegistrations reports whether any check subscribed to kind. Hosts use it
// to skip building payloads nobody consumes.
func (m *Manager) HasRegistrations(kind buildcheck.EventKind) bool {
	return m.central.registrationCount(kind) > 0
}

func dispatchTo[T buildcheck.EventData](ctx context.Context, m *Manager, scope ProjectScope, list *actionList[T], data T) {
	kind := data.Kind()
	events := buildevents.NewDispatchingContext(m.dispatcher, scope.EventContext)

	for _, reg := range list.snapshot() {
		if ctx.Err() != nil || m.cancelled.Load() {
			return
		}

		w := reg.check
		if !w.IsActive() {
			continue
		}

		cfg := m.configFor(w, scope, events)
		if !cfg.anyEnabled {
			continue
		}

		action := reg.action
		m.invoke(ctx, w, kind, scope, cfg, events, func(r buildcheck.Reporter) error {
			dc := buildcheck.NewDataContext(scope.ProjectFile, scope.EventContext, data, r)
			dc.Configuration = cfg.custom
			return action(dc)
		})
	}
}

func (m *Manager) invoke(ctx context.Context, w *CheckWrapper, kind buildcheck.EventKind, scope ProjectScope, cfg *projectConfig, events *buildevents.DispatchingContext, call func(buildcheck.Reporter) error) {
	_, span := m.tracer.Start(ctx, "buildcheck.dispatch", trace.WithAttributes(
		attribute.String("buildcheck.check", w.name),
		attribute.String("buildcheck.event_kind", kind.String()),
		attribute.String("buildcheck.project", scope.ProjectFile),
	))
	defer span.End()

	sink := &reportSink{manager: m, check: w, scope: scope, config: cfg, events: events}

	start := time.Now()
	outcome := m.isolator.Guard(w, events, PhaseExecution, executionWrapper(w, kind), func() error {
		return call(sink)
	})
	elapsed := time.Since(start)

	w.recordDispatch(elapsed)
	m.metrics.RecordDispatch(w.name, kind.String(), elapsed)

	if outcome.First {
		span.RecordError(outcome.Err)
		span.SetStatus(codes.Error, "check faulted")
	}
}

// configFor returns the cached configuration of w for the project in scope,
// resolving it on first use.
func (m *Manager) configFor(w *CheckWrapper, scope ProjectScope, events *buildevents.DispatchingContext) *projectConfig {
	w.configMu.RLock()
	cfg, ok := w.configs[scope.ProjectFile]
	w.configMu.RUnlock()
	if ok {
		return cfg
	}

	w.configMu.Lock()
	defer w.configMu.Unlock()
	if cfg, ok := w.configs[scope.ProjectFile]; ok {
		return cfg
	}

	cfg = m.resolveProject(w, scope, events)
	w.configs[scope.ProjectFile] = cfg
	return cfg
}

func (m *Manager) resolveProject(w *CheckWrapper, scope ProjectScope, events *buildevents.DispatchingContext) *projectConfig {
	log := m.log.WithFields(logrus.Fields{"check": w.name, "project": scope.ProjectFile})

	var settings map[string]string
	if m.provider != nil {
		var err error
		settings, err = m.provider.Settings(scope.ProjectFile)
		if err != nil {
			log.WithError(err).Warn("Failed to load rule settings; using defaults")
			settings = nil
		}
	}

	resolved := config.ResolveRules(w.rules, config.ParseRuleSettings(m.namespace, settings))
	m.metrics.RecordConfigResolution()

	cfg := &projectConfig{rules: make(map[string]buildcheck.EffectiveConfiguration, len(resolved))}
	conflict := false
	for i, effective := range resolved {
		if i == 0 {
			cfg.scope = effective.EvaluationScope
		} else if effective.EvaluationScope != cfg.scope && !conflict {
			conflict = true
			log.WithField("rule", effective.RuleID).Warn("Conflicting evaluation scopes within check")
			events.DispatchWarning("", buildevents.FileInfo{File: scope.ProjectFile}, fmt.Sprintf(
				"The check '%s' has rules with different evaluation scopes in project '%s': rule '%s' is configured with '%s'; '%s' from rule '%s' applies to all rules of the check.",
				w.name, scope.ProjectFile, effective.RuleID, effective.EvaluationScope, cfg.scope, resolved[0].RuleID))
		}
		if effective.IsEnabled {
			cfg.anyEnabled = true
		}
		cfg.rules[effective.RuleID] = effective
		cfg.custom.CustomConfiguration = append(cfg.custom.CustomConfiguration, buildcheck.CustomConfigurationData{
			RuleID: effective.RuleID,
			Values: copyValues(effective.Custom),
		})
	}
	return cfg
}

func copyValues(values map[string]string) map[string]string {
	out := make(map[string]string, len(values))
	for k, v := range values {
		out[k] = v
	}
	return out
}

// Rules returns every rule of every registered check.
func (m *Manager) Rules() []buildcheck.Rule {
	return m.registry.Rules()
}

// Checks returns the state of every registered check.
func (m *Manager) Checks() []CheckInfo {
	checks := m.registry.Checks()
	infos := make([]CheckInfo, 0, len(checks))
	for _, w := range checks {
		infos = append(infos, w.info())
	}
	return infos
}

// Cancel stops the session from issuing new dispatches. In-flight actions run
// to completion.
func (m *Manager) Cancel() {
	if m.cancelled.CompareAndSwap(false, true) {
		m.log.Debug("Session cancelled")
	}
}

// Finish ends the session and returns its tracing data, which is also handed
// to the telemetry sink. No dispatch is issued after Finish.
func (m *Manager) Finish(ctx context.Context) buildcheck.TracingData {
	m.Cancel()

	_, span := m.tracer.Start(ctx, "buildcheck.finish")
	defer span.End()

	data := buildcheck.TracingData{SessionID: m.sessionID}
	for _, w := range m.registry.Checks() {
		data.Checks = append(data.Checks, w.tracingData())
	}
	span.SetAttributes(attribute.Int("buildcheck.checks", len(data.Checks)))

	m.telemetry.DispatchTelemetry(data)
	return data
}

func (m *Manager) live(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.cancelled.Load() {
		return ErrCancelled
	}
	return nil
}
