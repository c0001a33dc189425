// Package buildevents models the host build's generic event stream.
//
// Checks never talk to the host directly. The infrastructure turns their results into
// MessageEvent, WarningEvent and ErrorEvent values and hands them to a Dispatcher that
// the host owns. A DispatchingContext binds a Dispatcher to the Context of the node
// and project currently being processed.
//
// # Dispatchers
//
// Recorder: thread-safe in-memory collector, used by tests and by the CLI to decide
// the build result.
// LogDispatcher: renders events through logrus in the familiar
// "file(line,col): warning CODE: message" shape.
// MultiDispatcher: fans events out to several dispatchers.
package buildevents
