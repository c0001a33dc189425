package buildcheck

import (
	"github.com/platinummonkey/buildcheck/pkg/buildevents"
)

// Check is the capability set every analyzer implements.
//
// Actions may run concurrently for different projects; implementations must guard
// their own state.
type Check interface {
	// FriendlyName identifies the check in diagnostics and logs.
	FriendlyName() string
	// SupportedRules lists every rule the check may report, in declaration order.
	SupportedRules() []Rule
	// Initialize receives the custom configuration of the check's rules from the
	// settings that apply to every project. An error disables the check for the
	// session.
	Initialize(ctx ConfigurationContext) error
	// RegisterActions subscribes the check to event kinds.
	// An error disables the check for the session.
	RegisterActions(ctx RegistrationContext) error
}

// CustomConfigurationData holds the unrecognized configuration keys of one rule.
type CustomConfigurationData struct {
	RuleID string
	Values map[string]string
}

// ConfigurationContext is passed to Check.Initialize and carried, resolved for
// one project, on every DataContext.
type ConfigurationContext struct {
	CustomConfiguration []CustomConfigurationData
}

// Value returns the custom value for key on rule ruleID.
func (c ConfigurationContext) Value(ruleID, key string) (string, bool) {
	for _, data := range c.CustomConfiguration {
		if data.RuleID != ruleID {
			continue
		}
		v, ok := data.Values[key]
		return v, ok
	}
	return "", false
}

// Action is the callback a check registers for one event kind.
type Action[T EventData] func(ctx *DataContext[T]) error

// RegistrationContext lets a check subscribe to event kinds.
// Each method may be called at most once per check; a second call returns an
// error wrapping ErrRegistration and disables the check.
type RegistrationContext interface {
	RegisterEvaluatedPropertiesAction(action Action[EvaluatedPropertiesData]) error
	RegisterParsedItemsAction(action Action[ParsedItemsData]) error
	RegisterPropertyReadAction(action Action[PropertyReadData]) error
	RegisterPropertyWriteAction(action Action[PropertyWriteData]) error
	RegisterProjectProcessingDoneAction(action Action[ProjectProcessingDoneData]) error
}

// Reporter receives results on behalf of a DataContext.
type Reporter interface {
	Report(result Result) error
}

// DataContext is the per-dispatch payload handed to an action.
type DataContext[T EventData] struct {
	ProjectFile  string
	EventContext buildevents.Context
	Data         T
	// Configuration holds the custom keys of the check's rules as resolved for
	// ProjectFile, including file-scoped sections.
	Configuration ConfigurationContext

	reporter Reporter
}

// NewDataContext creates a data context that reports through reporter.
func NewDataContext[T EventData](projectFile string, eventContext buildevents.Context, data T, reporter Reporter) *DataContext[T] {
	return &DataContext[T]{
		ProjectFile:  projectFile,
		EventContext: eventContext,
		Data:         data,
		reporter:     reporter,
	}
}

// ReportResult reports a finding. Reporting a rule the check did not declare
// returns an error wrapping ErrReport and disables the check.
func (c *DataContext[T]) ReportResult(result Result) error {
	if c.reporter == nil {
		return nil
	}
	return c.reporter.Report(result)
}
