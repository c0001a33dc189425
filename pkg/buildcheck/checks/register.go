package checks

import (
	"github.com/platinummonkey/buildcheck/pkg/buildcheck"
	"github.com/platinummonkey/buildcheck/pkg/buildcheck/infrastructure"
)

// Catalog returns a catalog holding every built-in check.
func Catalog() *infrastructure.Catalog {
	return infrastructure.NewCatalog().
		MustAdd("SharedOutputPath", func() (buildcheck.Check, error) { return NewSharedOutputPath(), nil }).
		MustAdd("PropertyUsage", func() (buildcheck.Check, error) { return NewPropertyUsage(), nil }).
		MustAdd("AssemblyReference", func() (buildcheck.Check, error) { return AssemblyReference{}, nil })
}

// Rules returns the rules of every built-in check, in catalog order.
func Rules() []buildcheck.Rule {
	return []buildcheck.Rule{
		SharedOutputPathRule,
		UndefinedPropertyRule,
		PropertyDeclaredAfterUseRule,
		UnusedPropertyRule,
		UndefinedPropertyInConditionRule,
		AssemblyReferenceRule,
	}
}
