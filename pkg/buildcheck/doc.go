// Package buildcheck provides the public API for build analysis checks.
//
// # Overview
//
// A check is a third-party analyzer that subscribes to structured events emitted while
// a project is evaluated. Checks declare their rules up front, register at most one
// action per event kind, and report results through the DataContext they receive.
// The infrastructure turns reported results into build messages, warnings and errors.
//
// # Writing a Check
//
//	type NoDebugCheck struct{}
//
//	var NoDebugRule = buildcheck.Rule{
//		ID:            "X0001",
//		Title:         "NoDebug",
//		Description:   "Configuration must not be Debug",
//		MessageFormat: "Project %s is built in Debug",
//		DefaultConfiguration: buildcheck.Configuration{
//			IsEnabled: buildcheck.Bool(true),
//			Severity:  buildcheck.SeverityWarning,
//		},
//	}
//
//	func (c *NoDebugCheck) FriendlyName() string            { return "NoDebug" }
//	func (c *NoDebugCheck) SupportedRules() []buildcheck.Rule { return []buildcheck.Rule{NoDebugRule} }
//	func (c *NoDebugCheck) Initialize(buildcheck.ConfigurationContext) error { return nil }
//
//	func (c *NoDebugCheck) RegisterActions(rc buildcheck.RegistrationContext) error {
//		return rc.RegisterEvaluatedPropertiesAction(func(dc *buildcheck.DataContext[buildcheck.EvaluatedPropertiesData]) error {
//			if dc.Data.Properties["Configuration"] == "Debug" {
//				return dc.ReportResult(buildcheck.NewResult(NoDebugRule, buildcheck.Location{}, dc.ProjectFile))
//			}
//			return nil
//		})
//	}
//
// # Configuration
//
// Each rule carries a default configuration. Users override it per rule with flat keys
// of the form <namespace>.<ruleId>.<property>; see package buildcheck/config.
//
// # Related Packages
//
//   - pkg/buildcheck/config: configuration parsing and resolution
//   - pkg/buildcheck/infrastructure: registration, dispatch and fault isolation
//   - pkg/buildcheck/checks: built-in checks
package buildcheck
