package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfig_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
llm:
  base_url: https://api.openai.com/v1
  model: gpt-4o-mini
stats:
  season: "2023-24"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 3.0, cfg.Scoring.FairThreshold)
	assert.Equal(t, 7.0, cfg.Scoring.UnbalancedThreshold)
	assert.Equal(t, 10, cfg.Scoring.MinGamesPlayed)
	assert.Equal(t, 1.0, cfg.Scoring.ImpactWeights["PTS"])
	assert.Equal(t, -1.0, cfg.Scoring.ImpactWeights["TOV"])
	assert.Equal(t, 5, cfg.Similar.MaxResults)
	assert.Equal(t, 30, cfg.Concurrency.RPM)
}

func TestLoadConfig_RejectsInvertedThresholds(t *testing.T) {
	path := writeConfig(t, `
scoring:
  fair_threshold: 8.0
  unbalanced_threshold: 7.0
`)

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fair_threshold")
}

func TestLoadConfig_RejectsBadMinScore(t *testing.T) {
	path := writeConfig(t, `
similar:
  min_score: 1.5
`)

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfig_RejectsNonFiniteWeights(t *testing.T) {
	for name, body := range map[string]string{
		"nan weight": `
scoring:
  impact_weights:
    PTS: .nan
    AST: 1.5
`,
		"inf weight": `
scoring:
  impact_weights:
    PTS: 1.0
    AST: .inf
`,
		"nan draft value": `
scoring:
  draft_round_values:
    1: .nan
`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "finite")
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadConfig_OverridesWeights(t *testing.T) {
	path := writeConfig(t, `
scoring:
  impact_weights:
    PTS: 2.0
    AST: 1.0
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 2.0, cfg.Scoring.ImpactWeights["PTS"])
	_, hasReb := cfg.Scoring.ImpactWeights["REB"]
	assert.False(t, hasReb)
}
