package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

type LLMConfig struct {
	Provider string `toml:"provider"`
	Model    string `toml:"model"`
	APIKey   string `toml:"api_key"`
	BaseURL  string `toml:"base_url"`
}

// OptimizerConfig holds the token tier table and the pass activation
// thresholds. Tier boundaries are character counts over the transcript.
type OptimizerConfig struct {
	ServiceCeilingTokens int `toml:"service_ceiling_tokens"`
	ShortMaxChars        int `toml:"short_max_chars"`
	MediumMaxChars       int `toml:"medium_max_chars"`
	LongMaxChars         int `toml:"long_max_chars"`
	ShortBudget          int `toml:"short_budget"`
	MediumBudget         int `toml:"medium_budget"`
	LongBudget           int `toml:"long_budget"`
	VeryLongBudget       int `toml:"very_long_budget"`
	// TemporalMinChars gates the temporal pass: transcripts shorter than
	// this are unlikely to carry a usable timeline.
	TemporalMinChars int `toml:"temporal_min_chars"`
}

type ExecutorConfig struct {
	MaxAttempts      int `toml:"max_attempts"`
	InitialBackoffMS int `toml:"initial_backoff_ms"`
}

type ConcurrencyConfig struct {
	MaxParallelPasses int `toml:"max_parallel_passes"`
}

type ValidationConfig struct {
	// MinEntityDensity is entities per 1000 transcript characters.
	// Placeholder pending calibration against a real corpus.
	MinEntityDensity float64 `toml:"min_entity_density"`
	// MinRelationshipRatio is relationships as a fraction of entity count.
	MinRelationshipRatio float64 `toml:"min_relationship_ratio"`
}

type MemgraphConfig struct {
	URI      string `toml:"uri"`
	User     string `toml:"user"`
	Password string `toml:"password"`
}

type Config struct {
	LLM         LLMConfig         `toml:"llm"`
	Optimizer   OptimizerConfig   `toml:"optimizer"`
	Executor    ExecutorConfig    `toml:"executor"`
	Concurrency ConcurrencyConfig `toml:"concurrency"`
	Validation  ValidationConfig  `toml:"validation"`
	Memgraph    MemgraphConfig    `toml:"memgraph"`
	// Prompts overrides built-in pass prompt templates by pass name.
	Prompts map[string]string `toml:"prompts"`
}

// Default returns the configuration used when no file is present. The tier
// budgets never exceed ServiceCeilingTokens; the optimizer re-checks this.
func Default() *Config {
	return &Config{
		Optimizer: OptimizerConfig{
			ServiceCeilingTokens: 8192,
			ShortMaxChars:        8000,
			MediumMaxChars:       32000,
			LongMaxChars:         100000,
			ShortBudget:          2048,
			MediumBudget:         4096,
			LongBudget:           6144,
			VeryLongBudget:       8192,
			TemporalMinChars:     8000,
		},
		Executor: ExecutorConfig{
			MaxAttempts:      3,
			InitialBackoffMS: 500,
		},
		Concurrency: ConcurrencyConfig{
			MaxParallelPasses: 4,
		},
		Validation: ValidationConfig{
			MinEntityDensity:     0.5,
			MinRelationshipRatio: 0.25,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	return cfg, nil
}
