package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_YML(t *testing.T) {
	dir := t.TempDir()
	content := `
workflow: workflows/report.yaml
outputDir: out
agentEndpoint: http://localhost:9100
verbose: true
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "docpipe.yml"), []byte(content), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "workflows/report.yaml", cfg.Workflow)
	assert.Equal(t, "out", cfg.OutputDir)
	assert.Equal(t, "http://localhost:9100", cfg.AgentEndpoint)
	assert.Empty(t, cfg.AssetsDir)
	assert.True(t, cfg.Verbose)
}

func TestLoad_YAMLFallback(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "docpipe.yaml"), []byte("assetsDir: assets"), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "assets", cfg.AssetsDir)
}

func TestLoad_Missing(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, &ProjectConfig{}, cfg)
}

func TestLoad_Invalid(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "docpipe.yml"), []byte("workflow: [bad"), 0o644))

	_, err := Load(dir)
	assert.Error(t, err)
}
