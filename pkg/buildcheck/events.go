package buildcheck

// EventKind identifies the shape of data an action receives.
type EventKind int

const (
	EventEvaluatedProperties EventKind = iota
	EventParsedItems
	EventPropertyRead
	EventPropertyWrite
	EventProjectProcessingDone

	// NumEventKinds is the number of defined event kinds.
	NumEventKinds
)

var eventKindNames = [...]string{
	EventEvaluatedProperties:   "EvaluatedProperties",
	EventParsedItems:           "ParsedItems",
	EventPropertyRead:          "PropertyRead",
	EventPropertyWrite:         "PropertyWrite",
	EventProjectProcessingDone: "ProjectProcessingDone",
}

func (k EventKind) String() string {
	if k < 0 || k >= NumEventKinds {
		return "Unknown"
	}
	return eventKindNames[k]
}

// EventData is implemented by every event payload.
type EventData interface {
	Kind() EventKind
}

// EvaluatedPropertiesData carries the final property values of an evaluated project.
type EvaluatedPropertiesData struct {
	Properties       map[string]string
	GlobalProperties map[string]string
}

func (EvaluatedPropertiesData) Kind() EventKind { return EventEvaluatedProperties }

// Item is a single parsed item element.
type Item struct {
	Type     string
	Include  string
	Metadata map[string]string
	Location Location
}

// ParsedItemsData carries the item elements of a project as parsed.
type ParsedItemsData struct {
	Items []Item
}

func (ParsedItemsData) Kind() EventKind { return EventParsedItems }

// ItemsOfType returns the items with the given type, in document order.
func (d ParsedItemsData) ItemsOfType(itemType string) []Item {
	var items []Item
	for _, item := range d.Items {
		if item.Type == itemType {
			items = append(items, item)
		}
	}
	return items
}

// PropertyReadUsage says where a property was read.
type PropertyReadUsage int

const (
	UsageEvaluation PropertyReadUsage = iota
	UsageCondition
)

func (u PropertyReadUsage) String() string {
	if u == UsageCondition {
		return "condition"
	}
	return "evaluation"
}

// PropertyReadData is emitted for every property reference the evaluator expands.
type PropertyReadData struct {
	PropertyName    string
	Usage           PropertyReadUsage
	IsUninitialized bool
	Location        Location
}

func (PropertyReadData) Kind() EventKind { return EventPropertyRead }

// PropertyWriteData is emitted for every property assignment.
type PropertyWriteData struct {
	PropertyName string
	IsEmpty      bool
	Location     Location
}

func (PropertyWriteData) Kind() EventKind { return EventPropertyWrite }

// ProjectProcessingDoneData signals that no more events follow for the project.
type ProjectProcessingDoneData struct{}

func (ProjectProcessingDoneData) Kind() EventKind { return EventProjectProcessingDone }
