package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapProvider(t *testing.T) {
	p := MapProvider{"build_check.X.IsEnabled": "true"}

	got, err := p.Settings("/any/project.proj")
	require.NoError(t, err)
	assert.Equal(t, "true", got["build_check.X.IsEnabled"])

	got["build_check.X.IsEnabled"] = "false"
	again, err := p.Settings("")
	require.NoError(t, err)
	assert.Equal(t, "true", again["build_check.X.IsEnabled"])
}

func TestFileProvider_Sections(t *testing.T) {
	p, err := NewFileProvider("/repo", FileConfig{
		Settings: map[string]string{
			"build_check.BC0101.IsEnabled": "true",
			"build_check.BC0101.Severity":  "warning",
		},
		Sections: []Section{
			{Files: "*.csproj", Settings: map[string]string{"build_check.BC0101.Severity": "error"}},
			{Files: "tests/**/*.csproj", Settings: map[string]string{"build_check.BC0101.IsEnabled": "false"}},
		},
	})
	require.NoError(t, err)

	tests := []struct {
		name    string
		project string
		want    map[string]string
	}{
		{
			name:    "global",
			project: "",
			want:    map[string]string{"build_check.BC0101.IsEnabled": "true", "build_check.BC0101.Severity": "warning"},
		},
		{
			name:    "no section",
			project: "/repo/src/app/app.proj",
			want:    map[string]string{"build_check.BC0101.IsEnabled": "true", "build_check.BC0101.Severity": "warning"},
		},
		{
			name:    "nested match",
			project: "/repo/src/app/app.csproj",
			want:    map[string]string{"build_check.BC0101.IsEnabled": "true", "build_check.BC0101.Severity": "error"},
		},
		{
			name:    "later section overrides",
			project: "/repo/tests/unit/unit.csproj",
			want:    map[string]string{"build_check.BC0101.IsEnabled": "false", "build_check.BC0101.Severity": "error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.Settings(tt.project)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			// Served from the cache the second time, still a private copy.
			got["mutated"] = "yes"
			again, err := p.Settings(tt.project)
			require.NoError(t, err)
			assert.Equal(t, tt.want, again)
		})
	}
}

func TestNewFileProvider_InvalidPattern(t *testing.T) {
	_, err := NewFileProvider("", FileConfig{Sections: []Section{{Files: "src/[", Settings: nil}}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid files pattern")
}

func TestLoadFileProvider(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "buildcheck.yaml")
	content := `settings:
  build_check.BC0101.IsEnabled: "true"
sections:
  - files: "legacy/*.proj"
    settings:
      build_check.BC0101.IsEnabled: "false"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	p, err := LoadFileProvider(path)
	require.NoError(t, err)
	assert.Equal(t, dir, p.Root)

	got, err := p.Settings(filepath.Join(dir, "legacy", "old.proj"))
	require.NoError(t, err)
	assert.Equal(t, "false", got["build_check.BC0101.IsEnabled"])

	got, err = p.Settings(filepath.Join(dir, "src", "new.proj"))
	require.NoError(t, err)
	assert.Equal(t, "true", got["build_check.BC0101.IsEnabled"])
}

func TestLoadFileProvider_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadFileProvider(filepath.Join(dir, "missing.yaml"))
	assert.True(t, os.IsNotExist(err))

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("settings: [unclosed"), 0o644))
	_, err = LoadFileProvider(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse")
}

func TestLoadFileProviderFromDir(t *testing.T) {
	t.Run("no file", func(t *testing.T) {
		p, err := LoadFileProviderFromDir(t.TempDir())
		require.NoError(t, err)

		got, err := p.Settings("")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("dot file", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".buildcheck.yml"),
			[]byte("settings:\n  build_check.X.Severity: error\n"), 0o644))

		p, err := LoadFileProviderFromDir(dir)
		require.NoError(t, err)

		got, err := p.Settings("")
		require.NoError(t, err)
		assert.Equal(t, "error", got["build_check.X.Severity"])
	})
}

func TestConfigFileNames(t *testing.T) {
	names := ConfigFileNames()
	assert.Equal(t, "buildcheck.yaml", names[0])

	names[0] = "changed"
	assert.Equal(t, "buildcheck.yaml", ConfigFileNames()[0])
}
