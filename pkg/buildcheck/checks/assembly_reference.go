package checks

import (
	"path/filepath"
	"strings"

	"github.com/platinummonkey/buildcheck/pkg/buildcheck"
)

// AssemblyReferenceRule flags Reference items that point at an assembly file.
var AssemblyReferenceRule = buildcheck.Rule{
	ID:            "BC0104",
	Title:         "ProjectReferencePreferred",
	Description:   "A project should not reference a built assembly by path",
	MessageFormat: "Project %s references assembly '%s' by path; use a ProjectReference or PackageReference instead.",
	DefaultConfiguration: buildcheck.Configuration{
		IsEnabled: buildcheck.Bool(false),
		Severity:  buildcheck.SeverityInfo,
	},
}

// AssemblyReference inspects parsed Reference items. It is stateless.
type AssemblyReference struct{}

func (AssemblyReference) FriendlyName() string { return "AssemblyReference" }

func (AssemblyReference) SupportedRules() []buildcheck.Rule {
	return []buildcheck.Rule{AssemblyReferenceRule}
}

func (AssemblyReference) Initialize(buildcheck.ConfigurationContext) error { return nil }

func (c AssemblyReference) RegisterActions(rc buildcheck.RegistrationContext) error {
	return rc.RegisterParsedItemsAction(c.parsedItems)
}

func (AssemblyReference) parsedItems(ctx *buildcheck.DataContext[buildcheck.ParsedItemsData]) error {
	for _, item := range ctx.Data.ItemsOfType("Reference") {
		path := item.Metadata["HintPath"]
		if path == "" {
			path = item.Include
		}
		if !strings.EqualFold(filepath.Ext(path), ".dll") {
			continue
		}
		if err := ctx.ReportResult(buildcheck.NewResult(AssemblyReferenceRule, item.Location, ctx.ProjectFile, path)); err != nil {
			return err
		}
	}
	return nil
}
