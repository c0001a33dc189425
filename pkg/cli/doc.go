// Package cli provides the buildcheck command-line interface.
//
// # Overview
//
// This package implements the `buildcheck` tool: it evaluates a project set with
// the fixture host, runs the built-in checks over the evaluation events and prints
// the resulting diagnostics.
//
// # Commands
//
// analyze: Evaluate projects and run all checks
//
//	buildcheck analyze \
//		-f projects.yaml \
//		-c buildcheck.yaml \
//		--metrics-file /var/lib/node_exporter/buildcheck.prom
//
// analyze --watch re-runs a fresh session whenever the project set or the rule
// configuration changes:
//
//	buildcheck analyze -f projects.yaml --watch
//
// rules: List the built-in rules with their default configuration
//
//	buildcheck rules
//
// # Exit Status
//
// analyze exits with status 1 when any error diagnostic reached the output, or
// when the project set or configuration could not be loaded. Checks that fail
// are disabled with a warning and do not change the exit status.
//
// # Related Packages
//
//   - pkg/host: Project evaluation
//   - pkg/buildcheck/infrastructure: Check session
//   - pkg/config: Environment configuration
package cli
