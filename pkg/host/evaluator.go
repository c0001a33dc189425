package host

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/platinummonkey/buildcheck/pkg/buildcheck"
	"github.com/platinummonkey/buildcheck/pkg/buildcheck/infrastructure"
)

var propertyRef = regexp.MustCompile(`\$\(\s*([A-Za-z_][A-Za-z0-9_.\-]*)\s*\)`)

// ConditionError is returned for a condition the host cannot evaluate.
type ConditionError struct {
	Condition string
	Location  buildcheck.Location
	Reason    string
}

func (e *ConditionError) Error() string {
	return fmt.Sprintf("%s: invalid condition %q: %s", e.Location, e.Condition, e.Reason)
}

type propertyValue struct {
	name  string
	value string
}

// evaluation is the state of one project being evaluated.
type evaluation struct {
	session Session
	scope   infrastructure.ProjectScope
	project Project

	// properties is keyed by lowercased name.
	properties map[string]propertyValue
	global     map[string]string
}

func newEvaluation(session Session, scope infrastructure.ProjectScope, project Project) *evaluation {
	ev := &evaluation{
		session:    session,
		scope:      scope,
		project:    project,
		properties: make(map[string]propertyValue),
		global:     make(map[string]string, len(project.GlobalProperties)),
	}
	for name, value := range project.GlobalProperties {
		ev.properties[strings.ToLower(name)] = propertyValue{name: name, value: value}
		ev.global[name] = value
	}
	return ev
}

func (ev *evaluation) run(ctx context.Context) error {
	if err := ev.emit(ctx, buildcheck.ParsedItemsData{Items: ev.parsedItems()}); err != nil {
		return err
	}

	for _, prop := range ev.project.Properties {
		if err := ev.evaluateProperty(ctx, prop); err != nil {
			return err
		}
	}

	for _, item := range ev.project.Items {
		// Item conditions and includes read properties like any other element.
		loc := ev.location(item.File, item.Line)
		ok, err := ev.condition(ctx, item.Condition, loc)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if _, err := ev.expand(ctx, item.Include, buildcheck.UsageEvaluation, loc); err != nil {
			return err
		}
	}

	if err := ev.emit(ctx, buildcheck.EvaluatedPropertiesData{
		Properties:       ev.snapshot(),
		GlobalProperties: ev.global,
	}); err != nil {
		return err
	}

	return ev.emit(ctx, buildcheck.ProjectProcessingDoneData{})
}

func (ev *evaluation) evaluateProperty(ctx context.Context, prop Property) error {
	loc := ev.location(prop.File, prop.Line)

	ok, err := ev.condition(ctx, prop.Condition, loc)
	if err != nil || !ok {
		return err
	}

	value, err := ev.expand(ctx, prop.Value, buildcheck.UsageEvaluation, loc)
	if err != nil {
		return err
	}

	ev.properties[strings.ToLower(prop.Name)] = propertyValue{name: prop.Name, value: value}
	return ev.emit(ctx, buildcheck.PropertyWriteData{
		PropertyName: prop.Name,
		IsEmpty:      value == "",
		Location:     loc,
	})
}

func (ev *evaluation) parsedItems() []buildcheck.Item {
	items := make([]buildcheck.Item, 0, len(ev.project.Items))
	for _, item := range ev.project.Items {
		items = append(items, buildcheck.Item{
			Type:     item.Type,
			Include:  item.Include,
			Metadata: item.Metadata,
			Location: ev.location(item.File, item.Line),
		})
	}
	return items
}

func (ev *evaluation) snapshot() map[string]string {
	props := make(map[string]string, len(ev.properties))
	for _, p := range ev.properties {
		props[p.name] = p.value
	}
	return props
}

func (ev *evaluation) location(file string, line int) buildcheck.Location {
	if file == "" {
		file = ev.project.Path
	}
	return buildcheck.Location{File: file, Line: line}
}

// expand substitutes $(Name) references, reporting each read.
func (ev *evaluation) expand(ctx context.Context, s string, usage buildcheck.PropertyReadUsage, loc buildcheck.Location) (string, error) {
	matches := propertyRef.FindAllStringSubmatchIndex(s, -1)
	if len(matches) == 0 {
		return s, nil
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		b.WriteString(s[last:m[0]])
		name := s[m[2]:m[3]]

		p, defined := ev.properties[strings.ToLower(name)]
		if err := ev.emit(ctx, buildcheck.PropertyReadData{
			PropertyName:    name,
			Usage:           usage,
			IsUninitialized: !defined,
			Location:        loc,
		}); err != nil {
			return "", err
		}

		b.WriteString(p.value)
		last = m[1]
	}
	b.WriteString(s[last:])
	return b.String(), nil
}

// condition evaluates a condition made of 'a' == 'b' and 'a' != 'b'
// comparisons joined by "and" or "or", with "and" binding tighter.
// Comparisons are case-insensitive. An empty condition is true.
func (ev *evaluation) condition(ctx context.Context, cond string, loc buildcheck.Location) (bool, error) {
	if strings.TrimSpace(cond) == "" {
		return true, nil
	}

	expanded, err := ev.expand(ctx, cond, buildcheck.UsageCondition, loc)
	if err != nil {
		return false, err
	}

	result := false
	for _, clause := range splitKeyword(expanded, "or") {
		all := true
		for _, term := range splitKeyword(clause, "and") {
			ok, err := comparison(term)
			if err != nil {
				return false, &ConditionError{Condition: cond, Location: loc, Reason: err.Error()}
			}
			all = all && ok
		}
		result = result || all
	}
	return result, nil
}

// splitKeyword splits s on a standalone keyword outside quotes.
func splitKeyword(s, keyword string) []string {
	var parts []string
	inQuote := false
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\'' {
			inQuote = !inQuote
			continue
		}
		if inQuote || i+len(keyword) > len(s) || !strings.EqualFold(s[i:i+len(keyword)], keyword) {
			continue
		}
		before := i == 0 || s[i-1] == ' ' || s[i-1] == ')'
		after := i+len(keyword) == len(s) || s[i+len(keyword)] == ' ' || s[i+len(keyword)] == '('
		if before && after {
			parts = append(parts, s[start:i])
			start = i + len(keyword)
			i = start - 1
		}
	}
	return append(parts, s[start:])
}

func comparison(term string) (bool, error) {
	term = strings.TrimSpace(term)
	term = strings.TrimSuffix(strings.TrimPrefix(term, "("), ")")
	term = strings.TrimSpace(term)

	switch strings.ToLower(term) {
	case "true", "'true'":
		return true, nil
	case "false", "'false'":
		return false, nil
	}

	op := "=="
	left, right, found := strings.Cut(term, "==")
	if !found {
		op = "!="
		left, right, found = strings.Cut(term, "!=")
	}
	if !found {
		return false, fmt.Errorf("expected a comparison in %q", term)
	}

	l, err := literal(left)
	if err != nil {
		return false, err
	}
	r, err := literal(right)
	if err != nil {
		return false, err
	}

	equal := strings.EqualFold(l, r)
	if op == "==" {
		return equal, nil
	}
	return !equal, nil
}

func literal(s string) (string, error) {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '\'' && s[len(s)-1] == '\'' {
		return s[1 : len(s)-1], nil
	}
	if s != "" && !strings.ContainsAny(s, "' ") {
		return s, nil
	}
	return "", fmt.Errorf("malformed operand %q", s)
}

func (ev *evaluation) emit(ctx context.Context, data buildcheck.EventData) error {
	if !ev.session.HasRegistrations(data.Kind()) {
		return nil
	}
	return ev.session.Dispatch(ctx, ev.scope, data)
}
