package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScenarioFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenarios.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadScenariosLayersDefaults(t *testing.T) {
	path := writeScenarioFile(t, `
[defaults]
height = "128"
width = "128"

[[scenario]]
name = "wide-braid"
[scenario.params]
style = "braided"
mean_thread_width = "24"

[[scenario]]
[scenario.params]
style = "anastomosing"
height = "256"
`)
	scenarios, err := LoadScenarios(path)
	require.NoError(t, err)
	require.Len(t, scenarios, 2)

	assert.Equal(t, "wide-braid", scenarios[0].Name)
	assert.Equal(t, "128", scenarios[0].Params["height"])
	assert.Equal(t, "24", scenarios[0].Params["mean_thread_width"])

	assert.Equal(t, "scenario_1", scenarios[1].Name, "unnamed scenarios get positional names")
	assert.Equal(t, "256", scenarios[1].Params["height"], "scenario params override defaults")
	assert.Equal(t, "128", scenarios[1].Params["width"])
}

func TestLoadScenariosRejectsEmptyFile(t *testing.T) {
	path := writeScenarioFile(t, `[defaults]
height = "64"
`)
	_, err := LoadScenarios(path)
	require.Error(t, err)
}

func TestApplyOverrides(t *testing.T) {
	params := map[string]string{"style": "braided"}
	require.NoError(t, applyOverrides(params, []string{"thread_count=7", "seed=9"}))
	assert.Equal(t, "7", params["thread_count"])
	assert.Equal(t, "9", params["seed"])

	require.Error(t, applyOverrides(params, []string{"not-a-pair"}))
	require.Error(t, applyOverrides(params, []string{"=value"}))
}
