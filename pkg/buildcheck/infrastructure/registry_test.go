package infrastructure

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platinummonkey/buildcheck/pkg/buildcheck"
)

func TestRegistry_Register(t *testing.T) {
	tests := []struct {
		name    string
		check   buildcheck.Check
		wantErr string
	}{
		{name: "nil check", check: nil, wantErr: "cannot register nil check"},
		{name: "no name", check: &fakeCheck{rules: []buildcheck.Rule{rule("X01", true, buildcheck.SeverityInfo)}}, wantErr: "no friendly name"},
		{name: "no rules", check: &fakeCheck{name: "Empty"}, wantErr: "declares no rules"},
		{name: "empty rule id", check: &fakeCheck{name: "Blank", rules: []buildcheck.Rule{rule("", true, buildcheck.SeverityInfo)}}, wantErr: "empty id"},
		{name: "repeated rule id", check: &fakeCheck{name: "Twice", rules: []buildcheck.Rule{
			rule("X01", true, buildcheck.SeverityInfo),
			rule("X01", false, buildcheck.SeverityInfo),
		}}, wantErr: "declared more than once"},
		{name: "valid", check: &fakeCheck{name: "Valid", rules: []buildcheck.Rule{rule("X01", true, buildcheck.SeverityInfo)}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry()
			w, err := r.Register(tt.check)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.True(t, errors.Is(err, buildcheck.ErrConfiguration))
				assert.Nil(t, w)
				assert.Zero(t, r.Count())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, StateUnregistered, w.State())
			assert.Equal(t, 1, r.Count())
		})
	}
}

func TestRegistry_RuleOwnership(t *testing.T) {
	r := NewRegistry()

	first, err := r.Register(&fakeCheck{name: "First", rules: []buildcheck.Rule{
		rule("A1", true, buildcheck.SeverityInfo),
		rule("A2", true, buildcheck.SeverityInfo),
	}})
	require.NoError(t, err)

	_, err = r.Register(&fakeCheck{name: "Second", rules: []buildcheck.Rule{
		rule("B1", true, buildcheck.SeverityInfo),
		rule("A2", true, buildcheck.SeverityInfo),
	}})
	var cfgErr *buildcheck.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "Second", cfgErr.Check)
	assert.Equal(t, "A2", cfgErr.RuleID)

	// A rejected check claims none of its rules.
	_, ok := r.Owner("B1")
	assert.False(t, ok)

	owner, ok := r.Owner("A2")
	require.True(t, ok)
	assert.Same(t, first, owner)

	_, err = r.Register(&fakeCheck{name: "Third", rules: []buildcheck.Rule{rule("B1", true, buildcheck.SeverityInfo)}})
	require.NoError(t, err)

	var ids []string
	for _, rule := range r.Rules() {
		ids = append(ids, rule.ID)
	}
	assert.Equal(t, []string{"A1", "A2", "B1"}, ids)
	assert.Len(t, r.Checks(), 2)
}

func TestRegistry_RulesAreCopied(t *testing.T) {
	rules := []buildcheck.Rule{rule("X01", true, buildcheck.SeverityInfo)}
	w, err := NewRegistry().Register(&fakeCheck{name: "Copy", rules: rules})
	require.NoError(t, err)

	rules[0].ID = "CHANGED"
	assert.Equal(t, "X01", w.Rules()[0].ID)

	got := w.Rules()
	got[0].ID = "MUTATED"
	assert.Equal(t, "X01", w.Rules()[0].ID)
}

func TestCheckState_String(t *testing.T) {
	assert.Equal(t, "unregistered", StateUnregistered.String())
	assert.Equal(t, "active", StateActive.String())
	assert.Equal(t, "faulted", StateFaulted.String())
	assert.Equal(t, "unknown", CheckState(99).String())
}

func TestCheckWrapper_Transitions(t *testing.T) {
	w := newCheckWrapper(&fakeCheck{name: "W"}, "W", nil)

	assert.False(t, w.transition(StateInitializing, StateRegistering))
	assert.True(t, w.transition(StateUnregistered, StateInitializing))
	assert.True(t, w.transition(StateInitializing, StateRegistering))
	assert.True(t, w.transition(StateRegistering, StateActive))
	assert.True(t, w.IsActive())

	previous, first := w.markFaulted(errors.New("first"))
	assert.True(t, first)
	assert.Equal(t, StateActive, previous)

	_, first = w.markFaulted(errors.New("second"))
	assert.False(t, first)
	assert.EqualError(t, w.FaultCause(), "first")
	assert.False(t, w.IsActive())
	assert.False(t, w.transition(StateFaulted, StateActive))
}
