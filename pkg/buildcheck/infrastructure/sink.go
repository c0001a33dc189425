package infrastructure

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/platinummonkey/buildcheck/pkg/buildcheck"
	"github.com/platinummonkey/buildcheck/pkg/buildevents"
)

// ProjectScope identifies the project an event was produced for.
type ProjectScope struct {
	ProjectFile string
	// WorkTreeRoot bounds ScopeWorkTreeImports; defaults to the project directory.
	WorkTreeRoot string
	EventContext buildevents.Context
}

func (s ProjectScope) workTreeRoot() string {
	if s.WorkTreeRoot != "" {
		return s.WorkTreeRoot
	}
	return filepath.Dir(s.ProjectFile)
}

// projectConfig is the resolved configuration of one check for one project.
type projectConfig struct {
	rules map[string]buildcheck.EffectiveConfiguration
	// anyEnabled is false when every rule of the check is disabled.
	anyEnabled bool
	scope      buildcheck.EvaluationScope
	custom     buildcheck.ConfigurationContext
}

// reportSink turns one check's results into build events for one dispatch.
type reportSink struct {
	manager *Manager
	check   *CheckWrapper
	scope   ProjectScope
	config  *projectConfig
	events  *buildevents.DispatchingContext
}

var _ buildcheck.Reporter = (*reportSink)(nil)

// Report validates, filters and forwards a result.
func (s *reportSink) Report(result buildcheck.Result) error {
	w := s.check
	if w.IsFaulted() {
		return nil
	}

	if _, ok := w.rule(result.RuleID); !ok {
		err := &buildcheck.ReportError{Check: w.name, RuleID: result.RuleID}
		s.manager.isolator.Fault(w, s.events, PhaseReport, err)
		return err
	}

	cfg, ok := s.config.rules[result.RuleID]
	if !ok || !cfg.IsEnabled {
		s.manager.metrics.RecordDropped(result.RuleID, "disabled")
		return nil
	}

	location := result.Location
	if location.IsEmpty() {
		location = buildcheck.Location{File: s.scope.ProjectFile}
	} else if !inScope(s.config.scope, location.File, s.scope) {
		s.manager.metrics.RecordDropped(result.RuleID, "scope")
		return nil
	}

	message := formatMessage(result)
	file := buildevents.FileInfo{File: location.File, Line: location.Line, Column: location.Column}

	switch cfg.Severity {
	case buildcheck.SeverityError:
		s.events.DispatchError(result.RuleID, file, message)
	case buildcheck.SeverityWarning:
		s.events.DispatchWarning(result.RuleID, file, message)
	default:
		s.events.DispatchMessage(buildevents.ImportanceHigh, result.RuleID, file, message)
	}

	w.recordDiagnostic(result.RuleID, cfg.Severity)
	s.manager.metrics.RecordDiagnostic(result.RuleID, cfg.Severity.String())
	return nil
}

func formatMessage(result buildcheck.Result) string {
	if len(result.Args) == 0 {
		return result.Message
	}
	return fmt.Sprintf(result.Message, result.Args...)
}

// inScope reports whether file may carry results for a rule with scope.
func inScope(scope buildcheck.EvaluationScope, file string, project ProjectScope) bool {
	if project.ProjectFile == "" {
		return true
	}

	switch scope {
	case buildcheck.ScopeAll:
		return true
	case buildcheck.ScopeWorkTreeImports:
		rel, err := filepath.Rel(filepath.Clean(project.workTreeRoot()), filepath.Clean(file))
		if err != nil {
			return false
		}
		return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
	default:
		return filepath.Clean(file) == filepath.Clean(project.ProjectFile)
	}
}
