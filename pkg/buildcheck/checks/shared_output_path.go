package checks

import (
	"path/filepath"
	"sync"

	"github.com/platinummonkey/buildcheck/pkg/buildcheck"
)

// SharedOutputPathRule flags projects that write to the same output directory.
var SharedOutputPathRule = buildcheck.Rule{
	ID:            "BC0101",
	Title:         "ConflictingOutputPath",
	Description:   "Two projects should not share their OutputPath nor IntermediateOutputPath locations",
	MessageFormat: "Projects %s and %s have conflicting output paths: %s.",
	DefaultConfiguration: buildcheck.Configuration{
		IsEnabled: buildcheck.Bool(true),
		Severity:  buildcheck.SeverityWarning,
	},
}

var outputPathProperties = []string{"OutputPath", "IntermediateOutputPath"}

// SharedOutputPath remembers the output directories of every evaluated
// project in the session and reports the second project claiming one.
type SharedOutputPath struct {
	mu     sync.Mutex
	owners map[string]string
}

// NewSharedOutputPath creates the check.
func NewSharedOutputPath() *SharedOutputPath {
	return &SharedOutputPath{owners: make(map[string]string)}
}

func (c *SharedOutputPath) FriendlyName() string { return "SharedOutputPath" }

func (c *SharedOutputPath) SupportedRules() []buildcheck.Rule {
	return []buildcheck.Rule{SharedOutputPathRule}
}

func (c *SharedOutputPath) Initialize(buildcheck.ConfigurationContext) error { return nil }

func (c *SharedOutputPath) RegisterActions(rc buildcheck.RegistrationContext) error {
	return rc.RegisterEvaluatedPropertiesAction(c.evaluatedProperties)
}

func (c *SharedOutputPath) evaluatedProperties(ctx *buildcheck.DataContext[buildcheck.EvaluatedPropertiesData]) error {
	projectDir := filepath.Dir(ctx.ProjectFile)

	// One project may set both properties to the same directory.
	seen := make(map[string]struct{}, len(outputPathProperties))
	for _, name := range outputPathProperties {
		value := ctx.Data.Properties[name]
		if value == "" {
			continue
		}
		path := normalizePath(projectDir, value)
		if _, dup := seen[path]; dup {
			continue
		}
		seen[path] = struct{}{}

		if other, conflict := c.claim(path, ctx.ProjectFile); conflict {
			result := buildcheck.NewResult(SharedOutputPathRule, buildcheck.Location{File: ctx.ProjectFile}, ctx.ProjectFile, other, path)
			if err := ctx.ReportResult(result); err != nil {
				return err
			}
		}
	}
	return nil
}

// claim records project as the owner of path and returns the previous owner
// when it is a different project.
func (c *SharedOutputPath) claim(path, project string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	owner, ok := c.owners[path]
	if !ok {
		c.owners[path] = project
		return "", false
	}
	return owner, owner != project
}

func normalizePath(base, path string) string {
	path = filepath.FromSlash(path)
	if !filepath.IsAbs(path) {
		path = filepath.Join(base, path)
	}
	return filepath.Clean(path)
}
