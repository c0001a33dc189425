package checks

import (
	"sort"
	"strings"
	"sync"

	"github.com/platinummonkey/buildcheck/pkg/buildcheck"
)

var (
	// UndefinedPropertyRule flags reads of properties that were never set.
	UndefinedPropertyRule = buildcheck.Rule{
		ID:            "BC0201",
		Title:         "UsedUninitializedProperty",
		Description:   "A property that is accessed should be declared first",
		MessageFormat: "Property: '%s' was accessed, but it was never initialized.",
		DefaultConfiguration: buildcheck.Configuration{
			IsEnabled: buildcheck.Bool(true),
			Severity:  buildcheck.SeverityWarning,
		},
	}

	// PropertyDeclaredAfterUseRule flags properties first set after they were read.
	PropertyDeclaredAfterUseRule = buildcheck.Rule{
		ID:            "BC0202",
		Title:         "PropertyDeclaredAfterUsed",
		Description:   "A property should be declared before it is first used",
		MessageFormat: "Property: '%s' first declared at %s, but it was used before it was initialized.",
		DefaultConfiguration: buildcheck.Configuration{
			IsEnabled: buildcheck.Bool(true),
			Severity:  buildcheck.SeverityWarning,
		},
	}

	// UnusedPropertyRule flags properties that are set but never read.
	UnusedPropertyRule = buildcheck.Rule{
		ID:            "BC0203",
		Title:         "UnusedPropertyDeclared",
		Description:   "A property that is not used should not be declared",
		MessageFormat: "Property: '%s' was declared, but it was never used.",
		DefaultConfiguration: buildcheck.Configuration{
			IsEnabled: buildcheck.Bool(false),
			Severity:  buildcheck.SeverityInfo,
		},
	}

	// UndefinedPropertyInConditionRule flags conditions comparing undefined properties.
	UndefinedPropertyInConditionRule = buildcheck.Rule{
		ID:            "COND0543",
		Title:         "UndefinedPropertyInCondition",
		Description:   "A property used in a condition should be defined",
		MessageFormat: "Property: '%s' is used in a condition, but it was never initialized.",
		DefaultConfiguration: buildcheck.Configuration{
			IsEnabled: buildcheck.Bool(true),
			Severity:  buildcheck.SeverityInfo,
		},
	}
)

// IgnoredPropertiesKey is the custom configuration key listing property names,
// separated by ';', that PropertyUsage never reports.
const IgnoredPropertiesKey = "IgnoredProperties"

// PropertyUsage tracks property reads and writes per project.
type PropertyUsage struct {
	ignored map[string]struct{}

	mu       sync.Mutex
	projects map[string]*propertyState
}

type propertyState struct {
	// uninitializedReads maps lowercased names to the first read before any write.
	uninitializedReads map[string]buildcheck.Location
	written            map[string]propertyWrite
	read               map[string]struct{}
}

type propertyWrite struct {
	name     string
	location buildcheck.Location
}

// NewPropertyUsage creates the check.
func NewPropertyUsage() *PropertyUsage {
	return &PropertyUsage{
		ignored:  make(map[string]struct{}),
		projects: make(map[string]*propertyState),
	}
}

func (c *PropertyUsage) FriendlyName() string { return "PropertyUsage" }

func (c *PropertyUsage) SupportedRules() []buildcheck.Rule {
	return []buildcheck.Rule{
		UndefinedPropertyRule,
		PropertyDeclaredAfterUseRule,
		UnusedPropertyRule,
		UndefinedPropertyInConditionRule,
	}
}

// Initialize reads IgnoredProperties from any of the check's rules.
func (c *PropertyUsage) Initialize(ctx buildcheck.ConfigurationContext) error {
	for name := range ignoredProperties(ctx) {
		c.ignored[name] = struct{}{}
	}
	return nil
}

// ignoredProperties collects the lowercased IgnoredProperties names of every rule.
func ignoredProperties(ctx buildcheck.ConfigurationContext) map[string]struct{} {
	names := make(map[string]struct{})
	for _, data := range ctx.CustomConfiguration {
		for key, value := range data.Values {
			if !strings.EqualFold(key, IgnoredPropertiesKey) {
				continue
			}
			for _, name := range strings.Split(value, ";") {
				if name = strings.TrimSpace(name); name != "" {
					names[strings.ToLower(name)] = struct{}{}
				}
			}
		}
	}
	return names
}

func (c *PropertyUsage) RegisterActions(rc buildcheck.RegistrationContext) error {
	if err := rc.RegisterPropertyReadAction(c.propertyRead); err != nil {
		return err
	}
	if err := rc.RegisterPropertyWriteAction(c.propertyWrite); err != nil {
		return err
	}
	return rc.RegisterProjectProcessingDoneAction(c.projectDone)
}

// isIgnored checks the session-wide names, then the names configured for the
// project being dispatched.
func (c *PropertyUsage) isIgnored(name string, project buildcheck.ConfigurationContext) bool {
	key := strings.ToLower(name)
	if _, ok := c.ignored[key]; ok {
		return true
	}
	_, ok := ignoredProperties(project)[key]
	return ok
}

func (c *PropertyUsage) state(project string) *propertyState {
	st, ok := c.projects[project]
	if !ok {
		st = &propertyState{
			uninitializedReads: make(map[string]buildcheck.Location),
			written:            make(map[string]propertyWrite),
			read:               make(map[string]struct{}),
		}
		c.projects[project] = st
	}
	return st
}

func (c *PropertyUsage) propertyRead(ctx *buildcheck.DataContext[buildcheck.PropertyReadData]) error {
	data := ctx.Data
	if c.isIgnored(data.PropertyName, ctx.Configuration) {
		return nil
	}
	key := strings.ToLower(data.PropertyName)

	c.mu.Lock()
	st := c.state(ctx.ProjectFile)
	st.read[key] = struct{}{}
	firstUninitialized := false
	if data.IsUninitialized {
		if _, seen := st.uninitializedReads[key]; !seen {
			st.uninitializedReads[key] = data.Location
			firstUninitialized = true
		}
	}
	c.mu.Unlock()

	if !firstUninitialized {
		return nil
	}

	rule := UndefinedPropertyRule
	if data.Usage == buildcheck.UsageCondition {
		rule = UndefinedPropertyInConditionRule
	}
	return ctx.ReportResult(buildcheck.NewResult(rule, data.Location, data.PropertyName))
}

func (c *PropertyUsage) propertyWrite(ctx *buildcheck.DataContext[buildcheck.PropertyWriteData]) error {
	data := ctx.Data
	if c.isIgnored(data.PropertyName, ctx.Configuration) {
		return nil
	}
	key := strings.ToLower(data.PropertyName)

	c.mu.Lock()
	st := c.state(ctx.ProjectFile)
	_, alreadyWritten := st.written[key]
	if !alreadyWritten {
		st.written[key] = propertyWrite{name: data.PropertyName, location: data.Location}
	}
	_, readBefore := st.uninitializedReads[key]
	c.mu.Unlock()

	if alreadyWritten || !readBefore || data.IsEmpty {
		return nil
	}
	return ctx.ReportResult(buildcheck.NewResult(PropertyDeclaredAfterUseRule, data.Location, data.PropertyName, formatLocation(data.Location)))
}

func (c *PropertyUsage) projectDone(ctx *buildcheck.DataContext[buildcheck.ProjectProcessingDoneData]) error {
	c.mu.Lock()
	st, ok := c.projects[ctx.ProjectFile]
	delete(c.projects, ctx.ProjectFile)
	c.mu.Unlock()
	if !ok {
		return nil
	}

	keys := make([]string, 0, len(st.written))
	for key := range st.written {
		if _, used := st.read[key]; !used {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	for _, key := range keys {
		write := st.written[key]
		if err := ctx.ReportResult(buildcheck.NewResult(UnusedPropertyRule, write.location, write.name)); err != nil {
			return err
		}
	}
	return nil
}

func formatLocation(l buildcheck.Location) string {
	if l.IsEmpty() {
		return "unknown location"
	}
	return l.String()
}
