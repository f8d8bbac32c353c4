package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	SetDefaults()

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_ConfigFileOverridesDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	SetDefaults()

	path := writeConfigFile(t, `
workflow:
  max_attempts: 5
  continue_on_failure: true
provider:
  name: openai
  model: gpt-4o
  api_key_env: OPENAI_API_KEY
planner:
  deep_planning: true
  quality_threshold: 9.0
`)
	viper.SetConfigFile(path)
	require.NoError(t, viper.ReadInConfig())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Workflow.MaxAttempts)
	assert.True(t, cfg.Workflow.ContinueOnFailure)
	assert.Equal(t, "openai", cfg.Provider.Name)
	assert.Equal(t, "gpt-4o", cfg.Provider.Model)
	assert.True(t, cfg.Planner.DeepPlanning)
	assert.Equal(t, 9.0, cfg.Planner.QualityThreshold)

	// Untouched sections keep their defaults.
	assert.Equal(t, Default().Review, cfg.Review)
	assert.Equal(t, Default().Logging, cfg.Logging)
}

func TestLoad_RejectsInvalidConfig(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	SetDefaults()

	path := writeConfigFile(t, `
workflow:
  max_attempts: 0
provider:
  name: anthropic
`)
	viper.SetConfigFile(path)
	require.NoError(t, viper.ReadInConfig())

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "provider")
}

func TestGet_FallsBackToDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	SetDefaults()

	path := writeConfigFile(t, `
provider:
  name: anthropic
`)
	viper.SetConfigFile(path)
	require.NoError(t, viper.ReadInConfig())

	cfg := Get()
	require.NotNil(t, cfg)
	assert.Equal(t, Default().Provider.Name, cfg.Provider.Name)
}
