package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the engine configuration.
type Config struct {
	LLM         LLMConfig         `yaml:"llm"`
	Stats       StatsConfig       `yaml:"stats"`
	Similar     SimilarConfig     `yaml:"similar"`
	Scoring     ScoringConfig     `yaml:"scoring"`
	Log         LogConfig         `yaml:"log"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	DB          DBConfig          `yaml:"db"`
}

// LLMConfig configures the external advisory model.
type LLMConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
}

// StatsConfig configures the player stats provider.
type StatsConfig struct {
	Provider     string         `yaml:"provider"` // "api" or "store"
	Season       string         `yaml:"season"`
	CacheTTLDays int            `yaml:"cache_ttl_days"`
	API          StatsAPIConfig `yaml:"api"`
}

// StatsAPIConfig configures the upstream stats HTTP API.
type StatsAPIConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout int    `yaml:"timeout"` // seconds
	RPM     int    `yaml:"rpm"`
}

// SimilarConfig configures the similar-trades lookup.
type SimilarConfig struct {
	Provider   string  `yaml:"provider"` // "store" or "none"
	MaxResults int     `yaml:"max_results"`
	MinScore   float64 `yaml:"min_score"`
}

// ScoringConfig holds the impact weights and fairness thresholds used by
// the classifier and regressor.
type ScoringConfig struct {
	ImpactWeights       map[string]float64 `yaml:"impact_weights"`
	FairThreshold       float64            `yaml:"fair_threshold"`
	UnbalancedThreshold float64            `yaml:"unbalanced_threshold"`
	MinGamesPlayed      int                `yaml:"min_games_played"`
	DraftRoundValues    map[int]float64    `yaml:"draft_round_values"`
}

// LogConfig configures logging output.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// ConcurrencyConfig bounds the external API call rate.
type ConcurrencyConfig struct {
	QPS int `yaml:"qps"`
	RPM int `yaml:"rpm"`
}

// DBConfig holds Postgres connection settings.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

// DefaultScoring returns the stock impact weights and thresholds.
func DefaultScoring() ScoringConfig {
	return ScoringConfig{
		ImpactWeights: map[string]float64{
			"PTS": 1.0,  // scoring
			"REB": 1.2,  // rebounding
			"AST": 1.5,  // playmaking
			"STL": 2.0,  // defense
			"BLK": 2.0,  // rim protection
			"TOV": -1.0, // ball control
		},
		FairThreshold:       3.0,
		UnbalancedThreshold: 7.0,
		MinGamesPlayed:      10,
		DraftRoundValues: map[int]float64{
			1: 4.0,
			2: 1.5,
		},
	}
}

// LoadConfig reads the configuration from path, fills defaults and
// validates it.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyDefaults fills unset fields with the stock values.
func (c *Config) ApplyDefaults() {
	def := DefaultScoring()
	if len(c.Scoring.ImpactWeights) == 0 {
		c.Scoring.ImpactWeights = def.ImpactWeights
	}
	if c.Scoring.FairThreshold == 0 {
		c.Scoring.FairThreshold = def.FairThreshold
	}
	if c.Scoring.UnbalancedThreshold == 0 {
		c.Scoring.UnbalancedThreshold = def.UnbalancedThreshold
	}
	if c.Scoring.MinGamesPlayed == 0 {
		c.Scoring.MinGamesPlayed = def.MinGamesPlayed
	}
	if len(c.Scoring.DraftRoundValues) == 0 {
		c.Scoring.DraftRoundValues = def.DraftRoundValues
	}
	if c.Similar.MaxResults == 0 {
		c.Similar.MaxResults = 5
	}
	if c.Stats.CacheTTLDays == 0 {
		c.Stats.CacheTTLDays = 1
	}
	if c.Concurrency.QPS == 0 {
		c.Concurrency.QPS = 1
	}
	if c.Concurrency.RPM == 0 {
		c.Concurrency.RPM = 30
	}
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if c.Scoring.FairThreshold >= c.Scoring.UnbalancedThreshold {
		return fmt.Errorf("scoring: fair_threshold (%.2f) must be below unbalanced_threshold (%.2f)",
			c.Scoring.FairThreshold, c.Scoring.UnbalancedThreshold)
	}
	if c.Scoring.MinGamesPlayed < 0 {
		return fmt.Errorf("scoring: min_games_played must not be negative")
	}
	if len(c.Scoring.ImpactWeights) == 0 {
		return fmt.Errorf("scoring: impact_weights must not be empty")
	}
	for stat, w := range c.Scoring.ImpactWeights {
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return fmt.Errorf("scoring: impact weight for %s must be finite, got %v", stat, w)
		}
	}
	for round, v := range c.Scoring.DraftRoundValues {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("scoring: draft round %d value must be finite, got %v", round, v)
		}
	}
	if c.Similar.MinScore < 0 || c.Similar.MinScore > 1 {
		return fmt.Errorf("similar: min_score must be within [0, 1]")
	}
	return nil
}
