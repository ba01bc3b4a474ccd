package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_DefaultValues(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, 2, cfg.Indent)
	assert.Equal(t, "comma", cfg.Delimiter)
	assert.Equal(t, "off", cfg.KeyFolding)
	assert.Equal(t, 0, cfg.FlattenDepth)
	assert.True(t, cfg.Strict)
	assert.Equal(t, "off", cfg.ExpandPaths)
}

func TestConfig_LoadFromYAML(t *testing.T) {
	yamlContent := `
indent: 4
delimiter: tab
strict: false
expand_paths: safe
`
	tmpFile, err := os.CreateTemp("", "config_test_*.yml")
	require.NoError(t, err)
	defer func() { _ = os.Remove(tmpFile.Name()) }()

	_, err = tmpFile.WriteString(yamlContent)
	require.NoError(t, err)
	_ = tmpFile.Close()

	cfg, err := LoadConfig(tmpFile.Name())
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Indent)
	assert.Equal(t, "tab", cfg.Delimiter)
	assert.False(t, cfg.Strict)
	assert.Equal(t, "safe", cfg.ExpandPaths)
	// Fields the file omitted keep their defaults.
	assert.Equal(t, "off", cfg.KeyFolding)
}

func TestConfig_LoadNonExistentFile(t *testing.T) {
	_, err := LoadConfig("/non/existent/config.yml")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no such file or directory")
}

func TestConfig_LoadInvalidYAML(t *testing.T) {
	invalidYAML := `
indent: 2
delimiter: [unclosed array
`
	tmpFile, err := os.CreateTemp("", "invalid_*.yml")
	require.NoError(t, err)
	defer func() { _ = os.Remove(tmpFile.Name()) }()

	_, err = tmpFile.WriteString(invalidYAML)
	require.NoError(t, err)
	_ = tmpFile.Close()

	_, err = LoadConfig(tmpFile.Name())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestConfig_FindConfigFile(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "config_search_test")
	require.NoError(t, err)
	defer func() { _ = os.RemoveAll(tmpDir) }()

	nestedDir := filepath.Join(tmpDir, "project", "subdir")
	err = os.MkdirAll(nestedDir, 0o755)
	require.NoError(t, err)

	configPath := filepath.Join(tmpDir, "project", ".gotoon.yml")
	err = os.WriteFile(configPath, []byte(`indent: 4`), 0o644)
	require.NoError(t, err)

	originalWd, err := os.Getwd()
	require.NoError(t, err)
	defer func() { _ = os.Chdir(originalWd) }()

	err = os.Chdir(nestedDir)
	require.NoError(t, err)

	foundPath := FindConfigFile()
	require.NotEmpty(t, foundPath, "should find config file in an ancestor directory")

	foundContent, err := os.ReadFile(foundPath)
	require.NoError(t, err)
	assert.Contains(t, string(foundContent), "indent: 4")
}

func TestConfig_FindConfigFileNotFound(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "no_config_test")
	require.NoError(t, err)
	defer func() { _ = os.RemoveAll(tmpDir) }()

	originalWd, err := os.Getwd()
	require.NoError(t, err)
	defer func() { _ = os.Chdir(originalWd) }()

	err = os.Chdir(tmpDir)
	require.NoError(t, err)

	assert.Empty(t, FindConfigFile())
}

func TestConfig_EncodeOptionsProjection(t *testing.T) {
	cfg := &Config{Indent: 4, Delimiter: "pipe", KeyFolding: "off", FlattenDepth: 3}
	opts := cfg.EncodeOptions()
	assert.Equal(t, 4, opts.Indent)
	assert.Equal(t, "pipe", opts.Delimiter)
	assert.Equal(t, "off", opts.KeyFolding)
	assert.Equal(t, 3, opts.FlattenDepth)
}

func TestConfig_DecodeOptionsProjection(t *testing.T) {
	cfg := &Config{Indent: 4, Strict: false, ExpandPaths: "safe"}
	opts := cfg.DecodeOptions()
	assert.Equal(t, 4, opts.Indent)
	assert.False(t, opts.Strict)
	assert.Equal(t, "safe", opts.ExpandPaths)
}
