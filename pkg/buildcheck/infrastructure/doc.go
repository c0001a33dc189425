// Package infrastructure hosts checks for one build session.
//
// # Lifecycle
//
// Every check moves through
//
//	Unregistered -> Initializing -> Registering -> Active -> Faulted
//
// Faulted is terminal: a check that fails while initializing, registering or
// executing, or that reports a rule it never declared, receives no further events
// for the session. Exactly one warning is emitted per faulted check, no matter how
// many projects hit the failure concurrently.
//
// # Dispatch
//
// The host calls Manager.Dispatch for every typed evaluation event. Actions run in
// registration order. A check whose rules are all disabled for a project is not
// invoked for that project. Results pass through the report sink, which drops
// disabled rules and out-of-scope locations and forwards the rest to the build
// event stream with the configured severity.
package infrastructure
