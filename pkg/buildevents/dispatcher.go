package buildevents

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Dispatcher delivers events into the host's event stream.
type Dispatcher interface {
	Dispatch(event Event)
}

// DispatcherFunc adapts a function to a Dispatcher.
type DispatcherFunc func(event Event)

func (f DispatcherFunc) Dispatch(event Event) { f(event) }

// Discard drops every event.
var Discard Dispatcher = DispatcherFunc(func(Event) {})

// MultiDispatcher forwards events to each dispatcher in order.
type MultiDispatcher []Dispatcher

func (m MultiDispatcher) Dispatch(event Event) {
	for _, d := range m {
		d.Dispatch(event)
	}
}

// DispatchingContext exposes the generic event primitives for one Context.
type DispatchingContext struct {
	dispatcher Dispatcher
	context    Context
	now        func() time.Time
}

// NewDispatchingContext binds dispatcher to eventContext. A nil dispatcher discards.
func NewDispatchingContext(dispatcher Dispatcher, eventContext Context) *DispatchingContext {
	if dispatcher == nil {
		dispatcher = Discard
	}
	return &DispatchingContext{
		dispatcher: dispatcher,
		context:    eventContext,
		now:        time.Now,
	}
}

// BuildEventContext returns the context events are stamped with.
func (c *DispatchingContext) BuildEventContext() Context {
	return c.context
}

// DispatchBuildEvent forwards a fully built event.
func (c *DispatchingContext) DispatchBuildEvent(event Event) {
	if event == nil {
		return
	}
	c.dispatcher.Dispatch(event)
}

// DispatchComment emits a message without code or location.
func (c *DispatchingContext) DispatchComment(importance Importance, message string) {
	c.dispatcher.Dispatch(&MessageEvent{
		Context:    c.context,
		Importance: importance,
		Message:    message,
		Timestamp:  c.now(),
	})
}

// DispatchMessage emits a message carrying a code and location.
func (c *DispatchingContext) DispatchMessage(importance Importance, code string, file FileInfo, message string) {
	c.dispatcher.Dispatch(&MessageEvent{
		Context:    c.context,
		Importance: importance,
		Code:       code,
		File:       file,
		Message:    message,
		Timestamp:  c.now(),
	})
}

// DispatchWarning emits a warning.
func (c *DispatchingContext) DispatchWarning(code string, file FileInfo, message string) {
	c.dispatcher.Dispatch(&WarningEvent{
		Context:   c.context,
		Code:      code,
		File:      file,
		Message:   message,
		Timestamp: c.now(),
	})
}

// DispatchError emits an error.
func (c *DispatchingContext) DispatchError(code string, file FileInfo, message string) {
	c.dispatcher.Dispatch(&ErrorEvent{
		Context:   c.context,
		Code:      code,
		File:      file,
		Message:   message,
		Timestamp: c.now(),
	})
}

// Recorder collects events in memory. It is safe for concurrent use.
type Recorder struct {
	mu     sync.RWMutex
	events []Event
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Dispatch(event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

// Events returns a copy of all recorded events in arrival order.
func (r *Recorder) Events() []Event {
	r.mu.RLock()
	defer r.mu.RUnlock()

	events := make([]Event, len(r.events))
	copy(events, r.events)
	return events
}

// Messages returns the recorded message events.
func (r *Recorder) Messages() []*MessageEvent {
	return collect[*MessageEvent](r)
}

// Warnings returns the recorded warning events.
func (r *Recorder) Warnings() []*WarningEvent {
	return collect[*WarningEvent](r)
}

// Errors returns the recorded error events.
func (r *Recorder) Errors() []*ErrorEvent {
	return collect[*ErrorEvent](r)
}

// HasErrors reports whether any error event was recorded.
func (r *Recorder) HasErrors() bool {
	return len(r.Errors()) > 0
}

// Reset drops all recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

func collect[E Event](r *Recorder) []E {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []E
	for _, event := range r.events {
		if e, ok := event.(E); ok {
			out = append(out, e)
		}
	}
	return out
}

// LogDispatcher renders events through a logrus logger.
type LogDispatcher struct {
	log logrus.FieldLogger
	// MinImportance hides messages less important than this level.
	MinImportance Importance
}

// NewLogDispatcher creates a dispatcher writing to log.
func NewLogDispatcher(log logrus.FieldLogger) *LogDispatcher {
	if log == nil {
		log = logrus.New()
	}
	return &LogDispatcher{
		log:           log,
		MinImportance: ImportanceNormal,
	}
}

func (d *LogDispatcher) Dispatch(event Event) {
	entry := d.log.WithField("node", event.EventContext().NodeID)

	switch e := event.(type) {
	case *ErrorEvent:
		entry.Error(e.Text())
	case *WarningEvent:
		entry.Warn(e.Text())
	case *MessageEvent:
		if e.Importance > d.MinImportance {
			entry.Debug(e.Text())
			return
		}
		entry.Info(e.Text())
	default:
		entry.Info(event.Text())
	}
}
