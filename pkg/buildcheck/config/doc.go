// Package config resolves the effective configuration of check rules.
//
// Settings arrive as flat key/value maps with keys shaped
// <namespace>.<ruleId>.<property>. Recognized properties are IsEnabled, Severity and
// EvaluationAnalysisScope (matched case-insensitively); any other property is kept
// verbatim as custom configuration for the check.
//
// Resolution is field-independent: for each of enabled, severity and scope the
// override wins when set, then the rule author's default, then the system default.
// Unparsable override values are ignored and fall through to the next level.
// Settings for rule ids no check declares are retained but have no effect.
package config
