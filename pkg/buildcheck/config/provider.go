package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	lru "github.com/hashicorp/golang-lru/v2"
	"gopkg.in/yaml.v3"
)

// Provider supplies the flat settings that apply to a project file.
// An empty projectFile asks for the settings that apply to every project.
type Provider interface {
	Settings(projectFile string) (map[string]string, error)
}

// MapProvider applies the same settings to every project.
type MapProvider map[string]string

func (p MapProvider) Settings(string) (map[string]string, error) {
	return copyMap(p), nil
}

// FileConfig is the on-disk rule configuration format.
//
//	settings:
//	  build_check.BC0101.IsEnabled: "true"
//	sections:
//	  - files: "*.csproj"
//	    settings:
//	      build_check.BC0101.Severity: error
type FileConfig struct {
	Settings map[string]string `yaml:"settings"`
	Sections []Section         `yaml:"sections"`
}

// Section applies settings to the project files matching a glob.
type Section struct {
	Files    string            `yaml:"files"`
	Settings map[string]string `yaml:"settings"`
}

// configNames are probed in order by LoadFileProviderFromDir.
var configNames = []string{"buildcheck.yaml", "buildcheck.yml", ".buildcheck.yaml", ".buildcheck.yml"}

// ConfigFileNames returns the file names LoadFileProviderFromDir looks for, in order.
func ConfigFileNames() []string {
	names := make([]string, len(configNames))
	copy(names, configNames)
	return names
}

const defaultCacheSize = 256

// FileProvider serves settings from a FileConfig. Sections are matched against the
// project path relative to Root; later sections override earlier ones key by key.
type FileProvider struct {
	Root   string
	config FileConfig
	cache  *lru.Cache[string, map[string]string]
}

// NewFileProvider creates a provider for an already parsed config.
func NewFileProvider(root string, cfg FileConfig) (*FileProvider, error) {
	for _, section := range cfg.Sections {
		if !doublestar.ValidatePattern(globFor(section.Files)) {
			return nil, fmt.Errorf("invalid files pattern %q", section.Files)
		}
	}

	cache, err := lru.New[string, map[string]string](defaultCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create settings cache: %w", err)
	}

	return &FileProvider{
		Root:   root,
		config: cfg,
		cache:  cache,
	}, nil
}

// LoadFileProvider reads a YAML rule configuration file.
func LoadFileProvider(path string) (*FileProvider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return NewFileProvider(filepath.Dir(path), cfg)
}

// LoadFileProviderFromDir searches dir for a rule configuration file. It returns a
// provider with no settings when none exists.
func LoadFileProviderFromDir(dir string) (*FileProvider, error) {
	for _, name := range configNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFileProvider(path)
		}
	}
	return NewFileProvider(dir, FileConfig{})
}

func (p *FileProvider) Settings(projectFile string) (map[string]string, error) {
	if cached, ok := p.cache.Get(projectFile); ok {
		return copyMap(cached), nil
	}

	merged := copyMap(p.config.Settings)
	if projectFile != "" {
		rel := p.relative(projectFile)
		for _, section := range p.config.Sections {
			matched, err := doublestar.Match(globFor(section.Files), rel)
			if err != nil {
				return nil, fmt.Errorf("failed to match %q: %w", section.Files, err)
			}
			if !matched {
				continue
			}
			for k, v := range section.Settings {
				merged[k] = v
			}
		}
	}

	p.cache.Add(projectFile, merged)
	return copyMap(merged), nil
}

func (p *FileProvider) relative(projectFile string) string {
	path := projectFile
	if p.Root != "" && filepath.IsAbs(projectFile) {
		if rel, err := filepath.Rel(p.Root, projectFile); err == nil {
			path = rel
		}
	}
	return filepath.ToSlash(path)
}

// globFor treats slash-less patterns as matching at any depth.
func globFor(pattern string) string {
	if pattern == "" {
		return "**"
	}
	if !strings.Contains(pattern, "/") {
		return "**/" + pattern
	}
	return strings.TrimPrefix(pattern, "/")
}
