package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefault_BudgetsWithinCeiling(t *testing.T) {
	cfg := Default()

	for _, budget := range []int{
		cfg.Optimizer.ShortBudget,
		cfg.Optimizer.MediumBudget,
		cfg.Optimizer.LongBudget,
		cfg.Optimizer.VeryLongBudget,
	} {
		assert.LessOrEqual(t, budget, cfg.Optimizer.ServiceCeilingTokens)
		assert.Positive(t, budget)
	}
}

func TestLoad_MergesOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[llm]
provider = "openai"
model = "gpt-4o-mini"

[optimizer]
service_ceiling_tokens = 4096
very_long_budget = 4096

[prompts]
entities = "custom prompt {{.transcript}}"
`
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)

	assert.NoError(t, err)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, 4096, cfg.Optimizer.ServiceCeilingTokens)
	// Untouched sections keep defaults.
	assert.Equal(t, 3, cfg.Executor.MaxAttempts)
	assert.Equal(t, "custom prompt {{.transcript}}", cfg.Prompts["entities"])
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.toml")
	assert.Error(t, err)
}
