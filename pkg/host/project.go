package host

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ProjectSet is the fixture format: the projects of one build.
type ProjectSet struct {
	// Root is the work tree root. Defaults to the directory of the fixture.
	Root     string    `yaml:"root"`
	Projects []Project `yaml:"projects"`
}

// Project is one project file and its elements in document order.
type Project struct {
	Path             string            `yaml:"path"`
	GlobalProperties map[string]string `yaml:"globalProperties"`
	Properties       []Property        `yaml:"properties"`
	Items            []ItemElement     `yaml:"items"`
}

// Property is a property assignment element.
type Property struct {
	Name      string `yaml:"name"`
	Value     string `yaml:"value"`
	Condition string `yaml:"condition"`
	// File is the import declaring the element; empty means the project itself.
	File string `yaml:"file"`
	Line int    `yaml:"line"`
}

// ItemElement is an item element.
type ItemElement struct {
	Type      string            `yaml:"type"`
	Include   string            `yaml:"include"`
	Metadata  map[string]string `yaml:"metadata"`
	Condition string            `yaml:"condition"`
	File      string            `yaml:"file"`
	Line      int               `yaml:"line"`
}

// LoadProjectSet reads a fixture. Relative paths are resolved against the
// fixture's directory.
func LoadProjectSet(path string) (*ProjectSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	set, err := ParseProjectSet(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	base, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, err
	}
	set.resolve(base)
	return set, nil
}

// ParseProjectSet parses fixture content. Paths are returned as written.
func ParseProjectSet(data []byte) (*ProjectSet, error) {
	var set ProjectSet
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(set.Projects))
	for i, p := range set.Projects {
		if p.Path == "" {
			return nil, fmt.Errorf("project %d: path is required", i)
		}
		if _, dup := seen[p.Path]; dup {
			return nil, fmt.Errorf("project %s: listed more than once", p.Path)
		}
		seen[p.Path] = struct{}{}
	}
	return &set, nil
}

func (s *ProjectSet) resolve(base string) {
	s.Root = absolute(base, s.Root)
	if s.Root == "" {
		s.Root = base
	}

	for i := range s.Projects {
		p := &s.Projects[i]
		p.Path = absolute(base, p.Path)
		dir := filepath.Dir(p.Path)
		for j := range p.Properties {
			p.Properties[j].File = absolute(dir, p.Properties[j].File)
		}
		for j := range p.Items {
			p.Items[j].File = absolute(dir, p.Items[j].File)
		}
	}
}

func absolute(base, path string) string {
	if path == "" {
		return ""
	}
	path = filepath.FromSlash(path)
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(base, path)
}
