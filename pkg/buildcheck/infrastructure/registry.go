package infrastructure

import (
	"sync"

	"github.com/platinummonkey/buildcheck/pkg/buildcheck"
)

// Registry holds the checks of a session and owns rule id uniqueness.
type Registry struct {
	mu     sync.RWMutex
	checks []*CheckWrapper
	owners map[string]*CheckWrapper
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		owners: make(map[string]*CheckWrapper),
	}
}

// Register validates check's rule declarations and adds it to the registry.
// It returns a *buildcheck.ConfigurationError when the check declares no rules,
// an empty or repeated rule id, or a rule id another check already owns.
func (r *Registry) Register(check buildcheck.Check) (*CheckWrapper, error) {
	if check == nil {
		return nil, &buildcheck.ConfigurationError{Message: "cannot register nil check"}
	}

	name := check.FriendlyName()
	if name == "" {
		return nil, &buildcheck.ConfigurationError{Message: "check has no friendly name"}
	}

	rules := check.SupportedRules()
	if len(rules) == 0 {
		return nil, &buildcheck.ConfigurationError{Check: name, Message: "check declares no rules"}
	}
	declared := make([]buildcheck.Rule, len(rules))
	copy(declared, rules)

	seen := make(map[string]struct{}, len(declared))
	for _, rule := range declared {
		if rule.ID == "" {
			return nil, &buildcheck.ConfigurationError{Check: name, Message: "rule has an empty id"}
		}
		if _, dup := seen[rule.ID]; dup {
			return nil, &buildcheck.ConfigurationError{Check: name, RuleID: rule.ID, Message: "rule declared more than once"}
		}
		seen[rule.ID] = struct{}{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, rule := range declared {
		if owner, exists := r.owners[rule.ID]; exists {
			return nil, &buildcheck.ConfigurationError{
				Check:   name,
				RuleID:  rule.ID,
				Message: "rule id is already declared by check '" + owner.name + "'",
			}
		}
	}

	w := newCheckWrapper(check, name, declared)
	for _, rule := range declared {
		r.owners[rule.ID] = w
	}
	r.checks = append(r.checks, w)
	return w, nil
}

// Rules returns every registered rule, ordered by check registration then
// declaration order.
func (r *Registry) Rules() []buildcheck.Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var rules []buildcheck.Rule
	for _, w := range r.checks {
		rules = append(rules, w.rules...)
	}
	return rules
}

// Checks returns the registered checks in registration order.
func (r *Registry) Checks() []*CheckWrapper {
	r.mu.RLock()
	defer r.mu.RUnlock()

	checks := make([]*CheckWrapper, len(r.checks))
	copy(checks, r.checks)
	return checks
}

// Owner returns the check that declared ruleID.
func (r *Registry) Owner(ruleID string) (*CheckWrapper, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	w, ok := r.owners[ruleID]
	return w, ok
}

// Count returns the number of registered checks.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.checks)
}
