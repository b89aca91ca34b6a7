package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lhaig/groovyscript/internal/lexer"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "groovyparse.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
	assert.Same(t, lexer.DefaultTable(), cfg.Table())
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[Lexer]
ExtraKeywords = ["assert"]
ExtraTypes = ["File"]

[Workspace]
Parallelism = 2

[Output]
Format = "sexp"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"assert"}, cfg.Lexer.ExtraKeywords)
	assert.Equal(t, []string{"File"}, cfg.Lexer.ExtraTypes)
	assert.Equal(t, 2, cfg.Workspace.Parallelism)
	assert.Equal(t, "sexp", cfg.Output.Format)

	// untouched keys keep their defaults
	assert.Equal(t, []string{".gradle", ".groovy"}, cfg.Workspace.Extensions)
	assert.Equal(t, 256, cfg.Workspace.CacheSize)
	assert.Equal(t, "auto", cfg.Output.Color)

	table := cfg.Table()
	assert.Equal(t, lexer.TYPE, table.Lookup("file"))
	assert.Equal(t, lexer.RESERVED, table.Lookup("assert"))
}

func TestLoad_UnknownField(t *testing.T) {
	path := writeConfig(t, "[Output]\nTheme = \"dark\"\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Theme")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
	assert.True(t, os.IsNotExist(errors.Cause(err)))
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		substr  string
	}{
		{"format", "[Output]\nFormat = \"xml\"\n", "unknown output format"},
		{"color", "[Output]\nColor = \"sometimes\"\n", "unknown color mode"},
		{"parallelism", "[Workspace]\nParallelism = -1\n", "negative parallelism"},
		{"cache", "[Workspace]\nCacheSize = -5\n", "negative cache size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.substr)
		})
	}
}

func TestMarshal(t *testing.T) {
	out, err := Defaults().Marshal()
	require.NoError(t, err)
	assert.Contains(t, string(out), "[Output]")
	assert.Contains(t, string(out), "tree")
}
