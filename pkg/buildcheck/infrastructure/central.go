package infrastructure

import (
	"sync"

	"github.com/platinummonkey/buildcheck/pkg/buildcheck"
)

type registration[T buildcheck.EventData] struct {
	check  *CheckWrapper
	action buildcheck.Action[T]
}

// actionList is the registrations of one event kind, in insertion order.
type actionList[T buildcheck.EventData] struct {
	mu    sync.RWMutex
	items []registration[T]
}

func (l *actionList[T]) add(check *CheckWrapper, action buildcheck.Action[T]) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = append(l.items, registration[T]{check: check, action: action})
}

func (l *actionList[T]) snapshot() []registration[T] {
	l.mu.RLock()
	defer l.mu.RUnlock()

	items := make([]registration[T], len(l.items))
	copy(items, l.items)
	return items
}

func (l *actionList[T]) len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}

// centralContext is the session dispatch table: event kind to registrations.
type centralContext struct {
	evaluatedProperties   actionList[buildcheck.EvaluatedPropertiesData]
	parsedItems           actionList[buildcheck.ParsedItemsData]
	propertyRead          actionList[buildcheck.PropertyReadData]
	propertyWrite         actionList[buildcheck.PropertyWriteData]
	projectProcessingDone actionList[buildcheck.ProjectProcessingDoneData]
}

// registrationCount returns the number of registrations for kind, faulted
// checks included.
func (c *centralContext) registrationCount(kind buildcheck.EventKind) int {
	switch kind {
	case buildcheck.EventEvaluatedProperties:
		return c.evaluatedProperties.len()
	case buildcheck.EventParsedItems:
		return c.parsedItems.len()
	case buildcheck.EventPropertyRead:
		return c.propertyRead.len()
	case buildcheck.EventPropertyWrite:
		return c.propertyWrite.len()
	case buildcheck.EventProjectProcessingDone:
		return c.projectProcessingDone.len()
	default:
		return 0
	}
}
